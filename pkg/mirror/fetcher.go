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

package mirror

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/gervill-mirror/pkg/log"
	"github.com/walteh/gervill-mirror/pkg/remote"
	"github.com/walteh/gervill-mirror/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var remoteFilePath = regexp.MustCompile(`^(.*?)/?([A-Za-z_$][A-Za-z0-9_$]*\.java)$`)

// 🔄 Copier derives the rewritten copies of a downloaded file
type Copier interface {
	MakeCopies(ctx context.Context, dir, file, content string) error
}

// 🔧 Options configures a Fetcher
type Options struct {
	Source     remote.Source
	Mirror     *status.Manager
	Exclusions *ExclusionSet
	// Copier is required when GenerateCopies is set
	Copier         Copier
	GenerateCopies bool
}

// 📡 Fetcher mirrors remote trees into the local mirror directory
type Fetcher struct {
	source         remote.Source
	mirror         *status.Manager
	exclusions     *ExclusionSet
	copier         Copier
	generateCopies bool
}

// 🏭 NewFetcher validates opts and creates a Fetcher
func NewFetcher(opts Options) (*Fetcher, error) {
	if opts.Source == nil {
		return nil, errors.Errorf("source is required")
	}
	if opts.Mirror == nil {
		return nil, errors.Errorf("mirror file manager is required")
	}
	if opts.GenerateCopies && opts.Copier == nil {
		return nil, errors.Errorf("copier is required to generate copies")
	}
	return &Fetcher{
		source:         opts.Source,
		mirror:         opts.Mirror,
		exclusions:     opts.Exclusions,
		copier:         opts.Copier,
		generateCopies: opts.GenerateCopies,
	}, nil
}

// 🌲 FetchDirectory downloads every matching file below root, depth first.
// Entries are visited in listing order and the first error aborts the walk.
func (f *Fetcher) FetchDirectory(ctx context.Context, root string) error {
	root = strings.TrimSuffix(root, "/")

	logger := log.FromContext(ctx)
	logger.StartWalk(ctx, log.WalkOperation{Phase: "download", Root: root, From: f.source.Name()})

	if err := f.fetchDirectory(ctx, root); err != nil {
		return err
	}

	count := logger.EndWalk(ctx)
	zerolog.Ctx(ctx).Debug().Str("root", root).Int("files", count).Msg("directory mirrored")
	return nil
}

func (f *Fetcher) fetchDirectory(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := f.source.List(ctx, dir)
	if err != nil {
		return errors.Errorf("listing %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDirectory {
			if err := f.fetchDirectory(ctx, joinRemote(dir, entry.Name)); err != nil {
				return err
			}
			continue
		}
		if err := f.processFile(ctx, dir, entry.Name); err != nil {
			return errors.Errorf("processing file %s/%s: %w", dir, entry.Name, err)
		}
	}
	return nil
}

// 📄 FetchFile downloads a single remote file given as dir/Name.java
func (f *Fetcher) FetchFile(ctx context.Context, remotePath string) error {
	m := remoteFilePath.FindStringSubmatch(remotePath)
	if m == nil {
		return errors.Errorf("%q is not a path to a .java file", remotePath)
	}
	if err := f.processFile(ctx, m[1], m[2]); err != nil {
		return errors.Errorf("processing file %s: %w", remotePath, err)
	}
	return nil
}

// processFile is shared by FetchDirectory and FetchFile so both leave the
// same bytes on disk
func (f *Fetcher) processFile(ctx context.Context, dir, file string) error {
	rel := joinRemote(dir, file)
	logger := log.FromContext(ctx)

	if f.exclusions.Contains(rel) {
		f.mirror.Skip(ctx, rel)
		logger.LogFileOperation(ctx, log.FileOperation{
			Path:      rel,
			Tree:      log.TreeMirror,
			Status:    status.StatusSkipped.String(),
			IsSkipped: true,
		})
		return nil
	}

	content, err := f.download(ctx, dir, file)
	if err != nil {
		return err
	}

	if f.generateCopies {
		if err := f.copier.MakeCopies(ctx, dir, file, content); err != nil {
			return errors.Errorf("making copies: %w", err)
		}
	}
	return nil
}

// 📥 download writes the remote content of dir/file unmodified to the mirror
func (f *Fetcher) download(ctx context.Context, dir, file string) (string, error) {
	rel := joinRemote(dir, file)

	if err := f.mirror.CreateDir(ctx, dir); err != nil {
		return "", err
	}

	content, err := f.source.Fetch(ctx, rel)
	if err != nil {
		return "", errors.Errorf("fetching %s: %w", rel, err)
	}

	st, err := f.mirror.WriteFile(ctx, rel, []byte(content))
	if err != nil {
		return "", err
	}

	log.FromContext(ctx).LogFileOperation(ctx, log.FileOperation{
		Path:       rel,
		Tree:       log.TreeMirror,
		Status:     st.String(),
		IsNew:      st == status.StatusNew,
		IsModified: st == status.StatusModified,
		Bytes:      len(content),
	})

	return content, nil
}

func joinRemote(dir, file string) string {
	if dir == "" {
		return file
	}
	return dir + "/" + file
}
