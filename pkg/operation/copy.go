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
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/gervill-mirror/pkg/log"
	"github.com/walteh/gervill-mirror/pkg/mirror"
	"github.com/walteh/gervill-mirror/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📦 CopyOperation regenerates the derived copies from the local mirror.
// It never touches the network.
type CopyOperation struct {
	mirror status.FileManager
	copier mirror.Copier
	root   string
	file   string
}

var _ Operation = (*CopyOperation)(nil)

// 🏭 NewCopyOperation creates an operation over the tree below root.
// An empty root means the whole mirror.
func NewCopyOperation(mirrorTree status.FileManager, copier mirror.Copier, root string) *CopyOperation {
	return &CopyOperation{mirror: mirrorTree, copier: copier, root: root}
}

// 🏭 NewCopyFileOperation creates an operation over a single mirrored file
func NewCopyFileOperation(mirrorTree status.FileManager, copier mirror.Copier, file string) *CopyOperation {
	return &CopyOperation{mirror: mirrorTree, copier: copier, file: file}
}

func (op *CopyOperation) Name() string {
	if op.file != "" {
		return "copy-file"
	}
	return "copy"
}

// 🏃 Execute runs CreateCopiesForFile or CreateCopies
func (op *CopyOperation) Execute(ctx context.Context) error {
	if op.file != "" {
		return op.CreateCopiesForFile(ctx, op.file)
	}
	return op.CreateCopies(ctx, op.root)
}

// 🌲 CreateCopies rewrites every file below root. Within a directory the
// subdirectories come first, then the files, in name order.
func (op *CopyOperation) CreateCopies(ctx context.Context, root string) error {
	logger := log.FromContext(ctx)
	logger.StartWalk(ctx, log.WalkOperation{Phase: "copy", Root: displayRoot(root), From: log.TreeMirror})

	err := op.mirror.Walk(ctx, root, func(ctx context.Context, rel string) error {
		return op.CreateCopiesForFile(ctx, rel)
	})
	if err != nil {
		return errors.Errorf("creating copies below %s: %w", displayRoot(root), err)
	}

	count := logger.EndWalk(ctx)
	zerolog.Ctx(ctx).Debug().Str("root", displayRoot(root)).Int("operations", count).Msg("copies created")
	return nil
}

// 📄 CreateCopiesForFile rewrites one mirrored file given relative to the
// mirror root
func (op *CopyOperation) CreateCopiesForFile(ctx context.Context, rel string) error {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	if rel == "" {
		return errors.Errorf("empty file path")
	}

	content, err := op.mirror.ReadFile(ctx, rel)
	if err != nil {
		return err
	}

	dir, file := path.Split(rel)
	dir = strings.TrimSuffix(dir, "/")
	if err := op.copier.MakeCopies(ctx, dir, file, string(content)); err != nil {
		return errors.Errorf("processing file %s: %w", rel, err)
	}
	return nil
}

func displayRoot(root string) string {
	if root == "" {
		return "."
	}
	return root
}
