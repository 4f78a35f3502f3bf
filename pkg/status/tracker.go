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

package status

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// 📈 Tracker collects file statuses across trees for the end-of-run summary
type Tracker struct {
	mu    sync.RWMutex
	files map[string]FileInfo
	order []string
}

// 🏭 NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{files: make(map[string]FileInfo)}
}

func trackKey(tree, path string) string {
	return tree + "\x00" + path
}

// TrackFile records the latest status of a file
func (t *Tracker) TrackFile(info FileInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := trackKey(info.Tree, info.Path)
	if _, ok := t.files[key]; !ok {
		t.order = append(t.order, key)
	}
	t.files[key] = info
}

// GetFileInfo returns the tracked info of a file
func (t *Tracker) GetFileInfo(tree, path string) (FileInfo, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	info, ok := t.files[trackKey(tree, path)]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s/%s", tree, path)
	}
	return info, nil
}

// ListFiles returns every tracked file in the order it was first seen
func (t *Tracker) ListFiles() []FileInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	files := make([]FileInfo, 0, len(t.order))
	for _, key := range t.order {
		files = append(files, t.files[key])
	}
	return files
}

// Counts returns, per tree, how many files ended in each status
func (t *Tracker) Counts() map[string]map[FileStatus]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	counts := map[string]map[FileStatus]int{}
	for _, info := range t.files {
		if counts[info.Tree] == nil {
			counts[info.Tree] = map[FileStatus]int{}
		}
		counts[info.Tree][info.Status]++
	}
	return counts
}

// 📊 RenderSummary writes a table with one row per tree
func (t *Tracker) RenderSummary(w io.Writer) error {
	counts := t.Counts()

	trees := make([]string, 0, len(counts))
	for tree := range counts {
		trees = append(trees, tree)
	}
	sort.Strings(trees)

	data := pterm.TableData{
		{"tree", StatusNew.String(), StatusModified.String(), StatusUnchanged.String(), StatusSkipped.String()},
	}
	for _, tree := range trees {
		c := counts[tree]
		data = append(data, []string{
			tree,
			fmt.Sprint(c[StatusNew]),
			fmt.Sprint(c[StatusModified]),
			fmt.Sprint(c[StatusUnchanged]),
			fmt.Sprint(c[StatusSkipped]),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}

	if _, err := fmt.Fprintln(w, table); err != nil {
		return errors.Errorf("writing summary: %w", err)
	}
	return nil
}
