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

package rewrite

import (
	"context"
	"path"

	"github.com/walteh/gervill-mirror/pkg/log"
	"github.com/walteh/gervill-mirror/pkg/status"
	"github.com/walteh/gervill-mirror/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ Trees groups the three output trees written by MakeCopies
type Trees struct {
	Renamed            status.FileManager
	OriginalComparison status.FileManager
	RenamedComparison  status.FileManager
}

// 🔄 Engine derives the renamed and comparison copies of a file
type Engine struct {
	rules    *text.RuleSet
	stripper text.Stripper
	trees    Trees
}

// 🏭 NewEngine creates an engine. All three trees are required.
func NewEngine(rules *text.RuleSet, stripper text.Stripper, trees Trees) (*Engine, error) {
	if rules == nil {
		return nil, errors.Errorf("rule set is required")
	}
	if stripper == nil {
		return nil, errors.Errorf("comment stripper is required")
	}
	if trees.Renamed == nil || trees.OriginalComparison == nil || trees.RenamedComparison == nil {
		return nil, errors.Errorf("renamed, original comparison and renamed comparison trees are required")
	}
	return &Engine{rules: rules, stripper: stripper, trees: trees}, nil
}

// 📄 Copies holds the derived contents for one file
type Copies struct {
	Renamed            string
	OriginalComparison string
	RenamedComparison  string
	Renames            int
	DocTags            int
}

// 🧮 Derive computes the three copies without touching the filesystem
func (e *Engine) Derive(ctx context.Context, content string) (*Copies, error) {
	renamed, renames := e.rules.Rename(content)
	renamed, tags := e.rules.CoalesceDocTags(renamed)

	originalComp, err := e.stripper.Strip(ctx, e.rules.StripHeader(content))
	if err != nil {
		return nil, errors.Errorf("stripping original: %w", err)
	}

	renamedComp, err := e.stripper.Strip(ctx, e.rules.StripHeader(renamed))
	if err != nil {
		return nil, errors.Errorf("stripping renamed copy: %w", err)
	}

	return &Copies{
		Renamed:            renamed,
		OriginalComparison: originalComp,
		RenamedComparison:  renamedComp,
		Renames:            renames,
		DocTags:            tags,
	}, nil
}

// ✍️ MakeCopies writes the renamed, original comparison and renamed
// comparison copies of dir/file. Nothing is written if deriving fails.
func (e *Engine) MakeCopies(ctx context.Context, dir, file, content string) error {
	rel := path.Join(dir, file)

	copies, err := e.Derive(ctx, content)
	if err != nil {
		return errors.Errorf("deriving copies of %s: %w", rel, err)
	}

	outputs := []struct {
		tree    string
		mgr     status.FileManager
		content string
	}{
		{log.TreeRenamed, e.trees.Renamed, copies.Renamed},
		{log.TreeOriginalComparison, e.trees.OriginalComparison, copies.OriginalComparison},
		{log.TreeRenamedComparison, e.trees.RenamedComparison, copies.RenamedComparison},
	}

	logger := log.FromContext(ctx)
	for _, out := range outputs {
		st, err := out.mgr.WriteFile(ctx, rel, []byte(out.content))
		if err != nil {
			return errors.Errorf("writing %s copy of %s: %w", out.tree, rel, err)
		}
		logger.LogFileOperation(ctx, log.FileOperation{
			Path:       rel,
			Tree:       out.tree,
			Status:     st.String(),
			IsNew:      st == status.StatusNew,
			IsModified: st == status.StatusModified,
			Bytes:      len(out.content),
		})
	}

	return nil
}
