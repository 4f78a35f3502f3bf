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

package rewrite_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gervill-mirror/pkg/log"
	"github.com/walteh/gervill-mirror/pkg/rewrite"
	"github.com/walteh/gervill-mirror/pkg/status"
	"github.com/walteh/gervill-mirror/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// lineCommentStripper drops // comments up to the end of the line
type lineCommentStripper struct{}

var lineComment = regexp.MustCompile(`//[^\n]*`)

func (lineCommentStripper) Strip(_ context.Context, content string) (string, error) {
	return lineComment.ReplaceAllString(content, ""), nil
}

type failingStripper struct{}

func (failingStripper) Strip(context.Context, string) (string, error) {
	return "", errors.New("boom")
}

type testEnv struct {
	ctx     context.Context
	root    string
	tracker *status.Tracker
	trees   rewrite.Trees
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	tracker := status.NewTracker()

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	ctx = log.NewContext(ctx, log.New(io.Discard, zerolog.Nop()))

	return &testEnv{
		ctx:     ctx,
		root:    root,
		tracker: tracker,
		trees: rewrite.Trees{
			Renamed:            status.NewManager(log.TreeRenamed, filepath.Join(root, "renamed"), tracker),
			OriginalComparison: status.NewManager(log.TreeOriginalComparison, filepath.Join(root, "original-comp"), tracker),
			RenamedComparison:  status.NewManager(log.TreeRenamedComparison, filepath.Join(root, "renamed-comp"), tracker),
		},
	}
}

func (e *testEnv) read(t *testing.T, tree, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.root, tree, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func newRules(t *testing.T) *text.RuleSet {
	t.Helper()
	rules, err := text.NewRuleSet("gervill", []string{"javax.sound", "com.sun.media.sound"})
	require.NoError(t, err)
	return rules
}

func TestNewEngine(t *testing.T) {
	env := setupEnv(t)
	rules := newRules(t)

	_, err := rewrite.NewEngine(nil, lineCommentStripper{}, env.trees)
	assert.Error(t, err)

	_, err = rewrite.NewEngine(rules, nil, env.trees)
	assert.Error(t, err)

	_, err = rewrite.NewEngine(rules, lineCommentStripper{}, rewrite.Trees{Renamed: env.trees.Renamed})
	assert.Error(t, err)

	engine, err := rewrite.NewEngine(rules, lineCommentStripper{}, env.trees)
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestEngine_MakeCopies(t *testing.T) {
	original := "package com.sun.media.sound;\n\nimport javax.sound.midi.Track; // tracks\n\n" +
		"/** See {@link Track#add} */\nclass SoftTrack {\n  // body\n}\n"

	tests := []struct {
		name             string
		dir              string
		file             string
		content          string
		wantRenamed      string
		wantOriginalComp string
		wantRenamedComp  string
	}{
		{
			name:    "java_source",
			dir:     "com/sun/media/sound",
			file:    "SoftTrack.java",
			content: original,
			wantRenamed: "package gervill.com.sun.media.sound;\n\nimport gervill.javax.sound.midi.Track; // tracks\n\n" +
				"/** See  Track#add */\nclass SoftTrack {\n  // body\n}\n",
			wantOriginalComp: "\n\n/** See {@link Track#add} */\nclass SoftTrack {\n  \n}\n",
			wantRenamedComp:  "\n\n/** See  Track#add */\nclass SoftTrack {\n  \n}\n",
		},
		{
			name:             "header_only_scenario",
			dir:              "foo",
			file:             "C.java",
			content:          "package foo;\nimport bar.Baz;\n\nclass C {}\n",
			wantRenamed:      "package foo;\nimport bar.Baz;\n\nclass C {}\n",
			wantOriginalComp: "class C {}\n",
			wantRenamedComp:  "class C {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t)
			engine, err := rewrite.NewEngine(newRules(t), lineCommentStripper{}, env.trees)
			require.NoError(t, err)

			require.NoError(t, engine.MakeCopies(env.ctx, tt.dir, tt.file, tt.content))

			rel := tt.dir + "/" + tt.file
			assert.Equal(t, tt.wantRenamed, env.read(t, "renamed", rel))
			assert.Equal(t, tt.wantOriginalComp, env.read(t, "original-comp", rel))
			assert.Equal(t, tt.wantRenamedComp, env.read(t, "renamed-comp", rel))
		})
	}
}

func TestEngine_MakeCopies_NoPartialWrites(t *testing.T) {
	env := setupEnv(t)
	engine, err := rewrite.NewEngine(newRules(t), failingStripper{}, env.trees)
	require.NoError(t, err)

	err = engine.MakeCopies(env.ctx, "javax/sound/midi", "Track.java", "package javax.sound.midi;\nclass Track {}\n")
	require.Error(t, err)

	for _, tree := range []string{"renamed", "original-comp", "renamed-comp"} {
		_, statErr := os.Stat(filepath.Join(env.root, tree))
		assert.True(t, os.IsNotExist(statErr), "tree %s should not exist", tree)
	}
}

func TestEngine_MakeCopies_Idempotent(t *testing.T) {
	env := setupEnv(t)
	engine, err := rewrite.NewEngine(newRules(t), lineCommentStripper{}, env.trees)
	require.NoError(t, err)

	content := "package javax.sound.sampled;\n\nclass Clip {}\n"
	require.NoError(t, engine.MakeCopies(env.ctx, "javax/sound/sampled", "Clip.java", content))
	first := env.read(t, "renamed", "javax/sound/sampled/Clip.java")

	require.NoError(t, engine.MakeCopies(env.ctx, "javax/sound/sampled", "Clip.java", content))
	assert.Equal(t, first, env.read(t, "renamed", "javax/sound/sampled/Clip.java"))

	for _, tree := range []string{log.TreeRenamed, log.TreeOriginalComparison, log.TreeRenamedComparison} {
		info, err := env.tracker.GetFileInfo(tree, "javax/sound/sampled/Clip.java")
		require.NoError(t, err)
		assert.Equal(t, status.StatusUnchanged, info.Status, tree)
	}
}
