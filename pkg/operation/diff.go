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
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/walteh/gervill-mirror/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileDiff is the line diff of one file between the comparison trees
type FileDiff struct {
	Path    string
	Added   int
	Deleted int
}

// Changed reports whether any line differs
func (d FileDiff) Changed() bool {
	return d.Added > 0 || d.Deleted > 0
}

// 📋 DiffReport collects the per-file diffs of one run
type DiffReport struct {
	Files   []FileDiff
	Added   int
	Deleted int
}

// Changed returns the files with at least one differing line
func (r *DiffReport) Changed() []FileDiff {
	var changed []FileDiff
	for _, f := range r.Files {
		if f.Changed() {
			changed = append(changed, f)
		}
	}
	return changed
}

// 🔍 DiffOperation compares the stripped originals with the stripped
// renamed copies, which only differ where renaming changed real code
type DiffOperation struct {
	original status.FileManager
	renamed  status.FileManager
	out      io.Writer
	report   *DiffReport
}

var _ Operation = (*DiffOperation)(nil)

// 🏭 NewDiffOperation creates a diff over the two comparison trees.
// The table is written to out; a nil out skips it.
func NewDiffOperation(original, renamed status.FileManager, out io.Writer) *DiffOperation {
	return &DiffOperation{original: original, renamed: renamed, out: out}
}

func (op *DiffOperation) Name() string {
	return "diff"
}

// Report returns the result of the last Execute
func (op *DiffOperation) Report() *DiffReport {
	return op.report
}

// 🏃 Execute walks the original comparison tree and diffs every file
// against its renamed counterpart
func (op *DiffOperation) Execute(ctx context.Context) error {
	report := &DiffReport{}
	dmp := diffmatchpatch.New()

	err := op.original.Walk(ctx, "", func(ctx context.Context, rel string) error {
		left, err := op.original.ReadFile(ctx, rel)
		if err != nil {
			return err
		}

		exists, err := op.renamed.FileExists(ctx, rel)
		if err != nil {
			return err
		}
		if !exists {
			return errors.Errorf("%w: %s has no renamed comparison copy", status.ErrFilesystem, rel)
		}

		right, err := op.renamed.ReadFile(ctx, rel)
		if err != nil {
			return err
		}

		fd := diffLines(dmp, rel, string(left), string(right))
		report.Files = append(report.Files, fd)
		report.Added += fd.Added
		report.Deleted += fd.Deleted

		zerolog.Ctx(ctx).Debug().
			Str("path", rel).
			Int("added", fd.Added).
			Int("deleted", fd.Deleted).
			Msg("diffed file")
		return nil
	})
	if err != nil {
		return errors.Errorf("diffing comparison trees: %w", err)
	}

	op.report = report

	zerolog.Ctx(ctx).Info().
		Int("files", len(report.Files)).
		Int("changed", len(report.Changed())).
		Int("added", report.Added).
		Int("deleted", report.Deleted).
		Msg("diff complete")

	if op.out == nil {
		return nil
	}
	return report.Render(op.out)
}

func diffLines(dmp *diffmatchpatch.DiffMatchPatch, rel, left, right string) FileDiff {
	a, b, lines := dmp.DiffLinesToChars(left, right)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	fd := FileDiff{Path: rel}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			fd.Added += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			fd.Deleted += countLines(d.Text)
		}
	}
	return fd
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// 🖨️ Render writes a table of the changed files plus totals
func (r *DiffReport) Render(w io.Writer) error {
	data := pterm.TableData{{"File", "+", "-"}}
	for _, f := range r.Changed() {
		data = append(data, []string{f.Path, fmt.Sprint(f.Added), fmt.Sprint(f.Deleted)})
	}
	data = append(data, []string{
		fmt.Sprintf("total (%d of %d files changed)", len(r.Changed()), len(r.Files)),
		fmt.Sprint(r.Added),
		fmt.Sprint(r.Deleted),
	})

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering diff table: %w", err)
	}
	if _, err := fmt.Fprintln(w, table); err != nil {
		return errors.Errorf("writing diff table: %w", err)
	}
	return nil
}
