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

package remote

import (
	"context"
	"strings"

	"github.com/walteh/gervill-mirror/pkg/config"
	"gitlab.com/tozd/go/errors"
)

func init() {
	RegisterSource(config.SourceHTTP, func(ctx context.Context, args config.SourceArgs, extension string) (Source, error) {
		return NewHTTPSource(NewClient(args.BaseURL, nil), extension), nil
	})
}

// 📂 ParseListing turns a plain-text directory listing into entries.
// Lines starting with "d" are directories, lines ending with extension are
// files, everything else is dropped. The name is the last whitespace
// separated token of the line.
func ParseListing(doc string, extension string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(doc, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		isDir := strings.HasPrefix(line, "d")
		if !isDir && !strings.HasSuffix(line, extension) {
			continue
		}

		fields := strings.Fields(line)
		entries = append(entries, Entry{
			IsDirectory: isDir,
			Name:        fields[len(fields)-1],
		})
	}
	return entries
}

// 🌐 HTTPSource lists and reads a tree served as plain-text listings
type HTTPSource struct {
	client    *Client
	extension string
}

var _ Source = (*HTTPSource)(nil)

// 🏭 NewHTTPSource creates a source that keeps files ending in extension
func NewHTTPSource(client *Client, extension string) *HTTPSource {
	return &HTTPSource{client: client, extension: extension}
}

func (s *HTTPSource) Name() string {
	return s.client.BaseURL()
}

func (s *HTTPSource) List(ctx context.Context, path string) ([]Entry, error) {
	doc, err := s.client.Fetch(ctx, path)
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", path, err)
	}
	return ParseListing(doc, s.extension), nil
}

func (s *HTTPSource) Fetch(ctx context.Context, path string) (string, error) {
	return s.client.Fetch(ctx, path)
}
