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
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🚫 ExclusionSet holds remote file paths that are never downloaded.
// Plain entries match exactly; entries with glob metacharacters are
// matched with doublestar semantics.
type ExclusionSet struct {
	exact    map[string]struct{}
	patterns []string
}

// NewExclusionSet builds a set from entries. Blank entries are ignored.
func NewExclusionSet(entries ...string) (*ExclusionSet, error) {
	set := &ExclusionSet{exact: make(map[string]struct{})}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.ContainsAny(entry, "*?[{") {
			set.exact[entry] = struct{}{}
			continue
		}
		if !doublestar.ValidatePattern(entry) {
			return nil, errors.Errorf("invalid exclusion pattern %q", entry)
		}
		set.patterns = append(set.patterns, entry)
	}
	return set, nil
}

// 📥 LoadExclusions reads one path per line from path. Lines starting with
// # are comments. A missing file yields an empty set.
func LoadExclusions(path string) (*ExclusionSet, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewExclusionSet()
	}
	if err != nil {
		return nil, errors.Errorf("reading exclusion file %s: %w", path, err)
	}

	var entries []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("scanning exclusion file %s: %w", path, err)
	}

	set, err := NewExclusionSet(entries...)
	if err != nil {
		return nil, errors.Errorf("loading exclusion file %s: %w", path, err)
	}
	return set, nil
}

// Contains reports whether the remote path is excluded
func (s *ExclusionSet) Contains(path string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.exact[path]; ok {
		return true
	}
	for _, pattern := range s.patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// Len returns the number of entries
func (s *ExclusionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.exact) + len(s.patterns)
}
