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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/gervill-mirror/cmd/gervill-mirror/opts"
	"github.com/walteh/gervill-mirror/pkg/operation"
)

// NewCopyFileCmd creates the copy-file command
func NewCopyFileCmd(load opts.Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy-file <mirror-path>...",
		Short: "Regenerate the copies of single mirrored files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			o, err := load(ctx)
			if err != nil {
				return err
			}

			ops := make([]operation.Operation, 0, len(args))
			for _, arg := range args {
				ops = append(ops, operation.NewCopyFileOperation(o.Mirror, o.Engine, arg))
			}

			if err := operation.NewRunner(nil).Run(ctx, ops...); err != nil {
				return err
			}

			return o.Summarize(cmd.OutOrStdout())
		},
	}

	return cmd
}
