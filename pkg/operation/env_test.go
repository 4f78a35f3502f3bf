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

package operation_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gervill-mirror/pkg/log"
	"github.com/walteh/gervill-mirror/pkg/rewrite"
	"github.com/walteh/gervill-mirror/pkg/status"
	"github.com/walteh/gervill-mirror/pkg/text"
)

// blockCommentStripper drops /* */ comments so tests stay cgo-free
type blockCommentStripper struct{}

var blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

func (blockCommentStripper) Strip(_ context.Context, content string) (string, error) {
	return blockComment.ReplaceAllString(content, ""), nil
}

// 🧪 testEnv holds a temp workspace with all four trees
type testEnv struct {
	ctx      context.Context
	root     string
	tracker  *status.Tracker
	mirror   *status.Manager
	trees    rewrite.Trees
	engine   *rewrite.Engine
	original *status.Manager
	renamed  *status.Manager
}

func createTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	tracker := status.NewTracker()

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	ctx = log.NewContext(ctx, log.New(io.Discard, zerolog.Nop()))

	original := status.NewManager(log.TreeOriginalComparison, filepath.Join(root, "comp", "original-comp"), tracker)
	renamed := status.NewManager(log.TreeRenamedComparison, filepath.Join(root, "comp", "gervill-comp"), tracker)
	trees := rewrite.Trees{
		Renamed:            status.NewManager(log.TreeRenamed, filepath.Join(root, "output"), tracker),
		OriginalComparison: original,
		RenamedComparison:  renamed,
	}

	rules, err := text.NewRuleSet("gervill", []string{"javax.sound", "com.sun.media.sound"})
	require.NoError(t, err)
	engine, err := rewrite.NewEngine(rules, blockCommentStripper{}, trees)
	require.NoError(t, err)

	return &testEnv{
		ctx:      ctx,
		root:     root,
		tracker:  tracker,
		mirror:   status.NewManager(log.TreeMirror, filepath.Join(root, "original"), tracker),
		trees:    trees,
		engine:   engine,
		original: original,
		renamed:  renamed,
	}
}

func (e *testEnv) writeMirror(t *testing.T, rel, content string) {
	t.Helper()
	abs := filepath.Join(e.root, "original", filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
}

func (e *testEnv) read(t *testing.T, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(append([]string{e.root}, parts...)...))
	require.NoError(t, err)
	return string(data)
}
