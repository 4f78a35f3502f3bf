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
	"sort"
	"strings"

	"github.com/walteh/gervill-mirror/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// ErrTransport marks network and HTTP failures
var ErrTransport = errors.Base("transport error")

// Entry is one relevant line of a remote directory listing
type Entry struct {
	IsDirectory bool
	Name        string
}

// Source is a remote tree that can be listed and read
type Source interface {
	// Name describes the source for logs (e.g. the base URL)
	Name() string
	// List returns the directories and matching files directly below path,
	// in the order the remote reports them
	List(ctx context.Context, path string) ([]Entry, error)
	// Fetch returns the full content of the file at path
	Fetch(ctx context.Context, path string) (string, error)
}

// Factory creates a Source for the given configuration
type Factory func(ctx context.Context, args config.SourceArgs, extension string) (Source, error)

var registry = map[string]Factory{}

// RegisterSource registers a factory under a source kind
func RegisterSource(kind string, factory Factory) {
	registry[kind] = factory
}

// NewSource creates the source configured in args
func NewSource(ctx context.Context, args config.SourceArgs, extension string) (Source, error) {
	factory, ok := registry[args.Kind]
	if !ok {
		options := []string{}
		for k := range registry {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("source %s not found, options: %s", args.Kind, strings.Join(options, ", "))
	}
	return factory(ctx, args, extension)
}
