// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Runner executes operations one after the other on the calling goroutine
type Runner struct {
	logger *zerolog.Logger
}

// 🏗️ NewRunner creates a new runner. A nil logger falls back to the one on
// the context passed to Run.
func NewRunner(logger *zerolog.Logger) *Runner {
	return &Runner{logger: logger}
}

// 🏃 Run executes ops in order and stops at the first failure
func (r *Runner) Run(ctx context.Context, ops ...Operation) error {
	for _, op := range ops {
		if err := r.run(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, op Operation) error {
	logger := r.logger
	if logger == nil {
		logger = zerolog.Ctx(ctx)
	}

	if err := ctx.Err(); err != nil {
		return errors.Errorf("operation %s cancelled: %w", op.Name(), err)
	}

	start := time.Now()
	logger.Debug().Str("operation", op.Name()).Msg("starting operation")

	if err := op.Execute(ctx); err != nil {
		logger.Debug().Str("operation", op.Name()).Err(err).Msg("operation failed")
		return errors.Errorf("executing %s: %w", op.Name(), err)
	}

	logger.Debug().
		Str("operation", op.Name()).
		Dur("duration", time.Since(start)).
		Msg("operation complete")
	return nil
}
