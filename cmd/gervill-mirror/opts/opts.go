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

package opts

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/gervill-mirror/pkg/config"
	"github.com/walteh/gervill-mirror/pkg/log"
	"github.com/walteh/gervill-mirror/pkg/mirror"
	"github.com/walteh/gervill-mirror/pkg/remote"
	"github.com/walteh/gervill-mirror/pkg/rewrite"
	"github.com/walteh/gervill-mirror/pkg/status"
	"github.com/walteh/gervill-mirror/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared dependencies used by all commands
type RootOpts struct {
	Config     *config.Config
	Tracker    *status.Tracker
	Mirror     *status.Manager
	Trees      rewrite.Trees
	Engine     *rewrite.Engine
	Source     remote.Source
	Exclusions *mirror.ExclusionSet
}

// Loader builds RootOpts once flags are parsed
type Loader func(ctx context.Context) (*RootOpts, error)

// New wires every collaborator from cfg. Nothing touches the network here.
func New(ctx context.Context, cfg *config.Config) (*RootOpts, error) {
	tracker := status.NewTracker()

	trees := rewrite.Trees{
		Renamed:            status.NewManager(log.TreeRenamed, cfg.Layout.Renamed, tracker),
		OriginalComparison: status.NewManager(log.TreeOriginalComparison, cfg.Layout.OriginalComparison, tracker),
		RenamedComparison:  status.NewManager(log.TreeRenamedComparison, cfg.Layout.RenamedComparison, tracker),
	}

	rules, err := text.NewRuleSet(cfg.Rename.Prefix, cfg.Rename.Packages)
	if err != nil {
		return nil, errors.Errorf("building rewrite rules: %w", err)
	}

	engine, err := rewrite.NewEngine(rules, text.NewCommentStripper(), trees)
	if err != nil {
		return nil, errors.Errorf("creating rewrite engine: %w", err)
	}

	source, err := remote.NewSource(ctx, cfg.Source, cfg.Extension)
	if err != nil {
		return nil, errors.Errorf("creating source: %w", err)
	}

	exclusions, err := mirror.LoadExclusions(cfg.ExclusionFile)
	if err != nil {
		return nil, errors.Errorf("loading exclusions: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("config", cfg.String()).
		Int("exclusions", exclusions.Len()).
		Msg("options ready")

	return &RootOpts{
		Config:     cfg,
		Tracker:    tracker,
		Mirror:     status.NewManager(log.TreeMirror, cfg.Layout.Mirror, tracker),
		Trees:      trees,
		Engine:     engine,
		Source:     source,
		Exclusions: exclusions,
	}, nil
}

// Fetcher returns a fetcher over the configured source and mirror
func (o *RootOpts) Fetcher(generateCopies bool) (*mirror.Fetcher, error) {
	return mirror.NewFetcher(mirror.Options{
		Source:         o.Source,
		Mirror:         o.Mirror,
		Exclusions:     o.Exclusions,
		Copier:         o.Engine,
		GenerateCopies: generateCopies,
	})
}

// Summarize prints the per-tree status table
func (o *RootOpts) Summarize(w io.Writer) error {
	if len(o.Tracker.ListFiles()) == 0 {
		return nil
	}
	return o.Tracker.RenderSummary(w)
}
