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

package mirror_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gervill-mirror/pkg/log"
	"github.com/walteh/gervill-mirror/pkg/mirror"
	"github.com/walteh/gervill-mirror/pkg/remote"
	"github.com/walteh/gervill-mirror/pkg/status"
)

// 🌐 fakeRemote serves listings and files from a path map and records requests
type fakeRemote struct {
	mu       sync.Mutex
	pages    map[string]string
	requests []string
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	f.mu.Lock()
	f.requests = append(f.requests, path)
	f.mu.Unlock()

	page, ok := f.pages[path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, "not found")
		return
	}
	io.WriteString(w, page)
}

func (f *fakeRemote) fetched(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r == path {
			return true
		}
	}
	return false
}

const (
	sequencerSource = "package javax.sound.midi;\n\npublic interface Sequencer {}\n"
	trackSource     = "package javax.sound.midi;\n\npublic final class Track {}\n"
	badSource       = "package com.sun.media.sound;\nclass Bad {}\n"
	goodSource      = "package com.sun.media.sound;\nclass Good {}\n"
)

func newFakeRemote() *fakeRemote {
	return &fakeRemote{pages: map[string]string{
		"javax/sound/midi": "drwxr-xr-x spi\n" +
			"-rw-r--r-- 100 Sequencer.java\n" +
			"-rw-r--r-- 50 package.html\n" +
			"-rw-r--r-- 100 Track.java\n",
		"javax/sound/midi/spi":                         "-rw-r--r-- 10 MidiDeviceProvider.java\n",
		"javax/sound/midi/spi/MidiDeviceProvider.java": "package javax.sound.midi.spi;\n",
		"javax/sound/midi/Sequencer.java":              sequencerSource,
		"javax/sound/midi/Track.java":                  trackSource,
		"com/sun/media/sound": "-rw-r--r-- 1 Bad.java\n" +
			"-rw-r--r-- 1 Good.java\n",
		"com/sun/media/sound/Bad.java":  badSource,
		"com/sun/media/sound/Good.java": goodSource,
	}}
}

// 📄 recordingCopier remembers every MakeCopies call
type recordingCopier struct {
	calls []string
}

func (c *recordingCopier) MakeCopies(_ context.Context, dir, file, content string) error {
	c.calls = append(c.calls, dir+"|"+file+"|"+content)
	return nil
}

type testEnv struct {
	ctx     context.Context
	remote  *fakeRemote
	source  remote.Source
	root    string
	mirror  *status.Manager
	tracker *status.Tracker
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	fake := newFakeRemote()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	ctx = log.NewContext(ctx, log.New(io.Discard, zerolog.Nop()))

	root := t.TempDir()
	tracker := status.NewTracker()

	return &testEnv{
		ctx:     ctx,
		remote:  fake,
		source:  remote.NewHTTPSource(remote.NewClient(server.URL, nil), ".java"),
		root:    root,
		mirror:  status.NewManager(log.TreeMirror, filepath.Join(root, "original"), tracker),
		tracker: tracker,
	}
}

func (e *testEnv) readMirror(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.root, "original", filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestNewFetcher(t *testing.T) {
	env := setupEnv(t)

	_, err := mirror.NewFetcher(mirror.Options{Mirror: env.mirror})
	assert.Error(t, err)

	_, err = mirror.NewFetcher(mirror.Options{Source: env.source})
	assert.Error(t, err)

	_, err = mirror.NewFetcher(mirror.Options{Source: env.source, Mirror: env.mirror, GenerateCopies: true})
	assert.Error(t, err)

	f, err := mirror.NewFetcher(mirror.Options{Source: env.source, Mirror: env.mirror})
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestFetcher_FetchDirectory(t *testing.T) {
	env := setupEnv(t)
	copier := &recordingCopier{}

	f, err := mirror.NewFetcher(mirror.Options{
		Source:         env.source,
		Mirror:         env.mirror,
		Copier:         copier,
		GenerateCopies: true,
	})
	require.NoError(t, err)

	require.NoError(t, f.FetchDirectory(env.ctx, "javax/sound/midi/"))

	assert.Equal(t, sequencerSource, env.readMirror(t, "javax/sound/midi/Sequencer.java"))
	assert.Equal(t, trackSource, env.readMirror(t, "javax/sound/midi/Track.java"))
	assert.Equal(t, "package javax.sound.midi.spi;\n", env.readMirror(t, "javax/sound/midi/spi/MidiDeviceProvider.java"))
	assert.NoFileExists(t, filepath.Join(env.root, "original", "javax", "sound", "midi", "package.html"))
	assert.False(t, env.remote.fetched("javax/sound/midi/package.html"))

	// pre-order: the subdirectory comes first because the listing names it first
	assert.Equal(t, []string{
		"javax/sound/midi/spi|MidiDeviceProvider.java|package javax.sound.midi.spi;\n",
		"javax/sound/midi|Sequencer.java|" + sequencerSource,
		"javax/sound/midi|Track.java|" + trackSource,
	}, copier.calls)
}

func TestFetcher_FetchDirectory_WithoutCopies(t *testing.T) {
	env := setupEnv(t)
	copier := &recordingCopier{}

	f, err := mirror.NewFetcher(mirror.Options{Source: env.source, Mirror: env.mirror, Copier: copier})
	require.NoError(t, err)

	require.NoError(t, f.FetchDirectory(env.ctx, "javax/sound/midi"))
	assert.Empty(t, copier.calls)
}

func TestFetcher_Exclusions(t *testing.T) {
	env := setupEnv(t)

	exclusions, err := mirror.NewExclusionSet("com/sun/media/sound/Bad.java")
	require.NoError(t, err)

	f, err := mirror.NewFetcher(mirror.Options{Source: env.source, Mirror: env.mirror, Exclusions: exclusions})
	require.NoError(t, err)

	require.NoError(t, f.FetchDirectory(env.ctx, "com/sun/media/sound"))

	assert.NoFileExists(t, filepath.Join(env.root, "original", "com", "sun", "media", "sound", "Bad.java"))
	assert.False(t, env.remote.fetched("com/sun/media/sound/Bad.java"))
	assert.Equal(t, goodSource, env.readMirror(t, "com/sun/media/sound/Good.java"))

	info, err := env.tracker.GetFileInfo(log.TreeMirror, "com/sun/media/sound/Bad.java")
	require.NoError(t, err)
	assert.Equal(t, status.StatusSkipped, info.Status)

	// single-file fetches honour the exclusions too
	require.NoError(t, f.FetchFile(env.ctx, "com/sun/media/sound/Bad.java"))
	assert.NoFileExists(t, filepath.Join(env.root, "original", "com", "sun", "media", "sound", "Bad.java"))
}

func TestFetcher_FetchFileMatchesFetchDirectory(t *testing.T) {
	dirEnv := setupEnv(t)
	fileEnv := setupEnv(t)

	byDir, err := mirror.NewFetcher(mirror.Options{Source: dirEnv.source, Mirror: dirEnv.mirror})
	require.NoError(t, err)
	byFile, err := mirror.NewFetcher(mirror.Options{Source: fileEnv.source, Mirror: fileEnv.mirror})
	require.NoError(t, err)

	require.NoError(t, byDir.FetchDirectory(dirEnv.ctx, "javax/sound/midi"))
	require.NoError(t, byFile.FetchFile(fileEnv.ctx, "javax/sound/midi/Track.java"))

	assert.Equal(t, dirEnv.readMirror(t, "javax/sound/midi/Track.java"), fileEnv.readMirror(t, "javax/sound/midi/Track.java"))
}

func TestFetcher_FetchFile_InvalidPath(t *testing.T) {
	env := setupEnv(t)

	f, err := mirror.NewFetcher(mirror.Options{Source: env.source, Mirror: env.mirror})
	require.NoError(t, err)

	tests := []string{
		"javax/sound/midi/package.html",
		"javax/sound/midi/",
		"javax/sound/midi/Track.java.orig",
	}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Error(t, f.FetchFile(env.ctx, path))
		})
	}
}

func TestFetcher_TransportErrorAbortsWalk(t *testing.T) {
	env := setupEnv(t)

	// a closed server turns every request into a transport failure
	server := httptest.NewServer(env.remote)
	server.Close()
	source := remote.NewHTTPSource(remote.NewClient(server.URL, nil), ".java")

	f, err := mirror.NewFetcher(mirror.Options{Source: source, Mirror: env.mirror})
	require.NoError(t, err)

	err = f.FetchDirectory(env.ctx, "javax/sound/midi")
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrTransport)
}

func TestFetcher_NonOKBodyIsAccepted(t *testing.T) {
	env := setupEnv(t)
	env.remote.pages["javax/sound/midi"] = "-rw-r--r-- 1 Missing.java\n"

	f, err := mirror.NewFetcher(mirror.Options{Source: env.source, Mirror: env.mirror})
	require.NoError(t, err)

	require.NoError(t, f.FetchDirectory(env.ctx, "javax/sound/midi"))
	assert.Equal(t, "not found", env.readMirror(t, "javax/sound/midi/Missing.java"))
}
