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

	"github.com/walteh/gervill-mirror/pkg/mirror"
	"gitlab.com/tozd/go/errors"
)

// 📡 DownloadOperation mirrors the configured remote roots and single files
type DownloadOperation struct {
	fetcher *mirror.Fetcher
	roots   []string
	files   []string
}

var _ Operation = (*DownloadOperation)(nil)

// 🏭 NewDownloadOperation walks every root with fetcher
func NewDownloadOperation(fetcher *mirror.Fetcher, roots ...string) *DownloadOperation {
	return &DownloadOperation{fetcher: fetcher, roots: roots}
}

// 🏭 NewFetchFileOperation downloads the given remote files only
func NewFetchFileOperation(fetcher *mirror.Fetcher, files ...string) *DownloadOperation {
	return &DownloadOperation{fetcher: fetcher, files: files}
}

func (op *DownloadOperation) Name() string {
	if len(op.files) > 0 {
		return "fetch-file"
	}
	return "download"
}

// 🏃 Execute fetches the roots in order, then the single files
func (op *DownloadOperation) Execute(ctx context.Context) error {
	if len(op.roots) == 0 && len(op.files) == 0 {
		return errors.Errorf("nothing to download")
	}

	for _, root := range op.roots {
		if err := op.fetcher.FetchDirectory(ctx, root); err != nil {
			return errors.Errorf("fetching directory %s: %w", root, err)
		}
	}

	for _, file := range op.files {
		if err := op.fetcher.FetchFile(ctx, file); err != nil {
			return err
		}
	}

	return nil
}
