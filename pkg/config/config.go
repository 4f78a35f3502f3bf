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

package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

const (
	// SourceHTTP reads plain-text directory listings from a base URL
	SourceHTTP = "http"
	// SourceGitHub reads directories and files through the GitHub contents API
	SourceGitHub = "github"
)

// 🌐 SourceArgs describes where the remote tree lives
type SourceArgs struct {
	Kind    string `json:"kind" yaml:"kind"`         // http or github
	BaseURL string `json:"base_url" yaml:"base_url"` // Listing endpoint root (http)
	Repo    string `json:"repo" yaml:"repo"`         // owner/name (github)
	Ref     string `json:"ref" yaml:"ref"`           // Branch, tag or commit (github)
	Path    string `json:"path" yaml:"path"`         // Path of the tree root inside the repo (github)
}

// 📁 Layout holds the four local trees the tool reads and writes
type Layout struct {
	Mirror             string `json:"mirror" yaml:"mirror"`                           // Raw downloaded files
	Renamed            string `json:"renamed" yaml:"renamed"`                         // Package-renamed copies
	OriginalComparison string `json:"original_comparison" yaml:"original_comparison"` // Stripped originals
	RenamedComparison  string `json:"renamed_comparison" yaml:"renamed_comparison"`   // Stripped renamed copies
}

// 🔄 RenameArgs configures the package relocation
type RenameArgs struct {
	Prefix   string   `json:"prefix" yaml:"prefix"`     // Literal inserted before every matched package
	Packages []string `json:"packages" yaml:"packages"` // Dotted package names to relocate
}

// 📚 Config represents the complete configuration
type Config struct {
	Source        SourceArgs `json:"source" yaml:"source"`
	Roots         []string   `json:"roots" yaml:"roots"`
	Extension     string     `json:"extension" yaml:"extension"`
	ExclusionFile string     `json:"exclusion_file" yaml:"exclusion_file"`
	Layout        Layout     `json:"layout" yaml:"layout"`
	Rename        RenameArgs `json:"rename" yaml:"rename"`
}

// 🏭 Default returns the built-in gervill mirror setup
func Default() *Config {
	return &Config{
		Source: SourceArgs{
			Kind:    SourceHTTP,
			BaseURL: "https://hg.openjdk.org/jdk8u/jdk8u/jdk/raw-file/tip/src/share/classes",
			Ref:     "master",
		},
		Roots: []string{
			"javax/sound/midi",
			"javax/sound/sampled",
			"com/sun/media/sound",
		},
		Extension:     ".java",
		ExclusionFile: "exclude.txt",
		Layout: Layout{
			Mirror:             "original",
			Renamed:            "../gervill-control/output/src/gervill",
			OriginalComparison: "../gervill-control/comp/original-comp",
			RenamedComparison:  "../gervill-control/comp/gervill-comp",
		},
		Rename: RenameArgs{
			Prefix:   "gervill",
			Packages: []string{"javax.sound", "com.sun.media.sound"},
		},
	}
}

var (
	dottedName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)
	repoName   = regexp.MustCompile(`^[\w.-]+/[\w.-]+$`)
)

// 🔍 Validate checks the configuration and normalizes paths
func (cfg *Config) Validate() error {
	switch cfg.Source.Kind {
	case SourceHTTP:
		if cfg.Source.BaseURL == "" {
			return errors.Errorf("source.base_url is required for %s sources", SourceHTTP)
		}
		cfg.Source.BaseURL = strings.TrimRight(cfg.Source.BaseURL, "/")
	case SourceGitHub:
		cfg.Source.Repo = strings.TrimPrefix(cfg.Source.Repo, "github.com/")
		if !repoName.MatchString(cfg.Source.Repo) {
			return errors.Errorf("source.repo must look like owner/name, got %q", cfg.Source.Repo)
		}
		cfg.Source.Path = strings.Trim(cfg.Source.Path, "/")
	default:
		return errors.Errorf("unknown source.kind %q", cfg.Source.Kind)
	}

	if len(cfg.Roots) == 0 {
		return errors.Errorf("at least one root is required")
	}
	for i, root := range cfg.Roots {
		root = strings.Trim(root, "/")
		if root == "" {
			return errors.Errorf("root %d is empty", i)
		}
		cfg.Roots[i] = root
	}

	if !strings.HasPrefix(cfg.Extension, ".") || len(cfg.Extension) < 2 {
		return errors.Errorf("extension must start with a dot, got %q", cfg.Extension)
	}

	dirs := map[string]*string{
		"layout.mirror":              &cfg.Layout.Mirror,
		"layout.renamed":             &cfg.Layout.Renamed,
		"layout.original_comparison": &cfg.Layout.OriginalComparison,
		"layout.renamed_comparison":  &cfg.Layout.RenamedComparison,
	}
	for name, dir := range dirs {
		if *dir == "" {
			return errors.Errorf("%s is required", name)
		}
		*dir = filepath.Clean(*dir)
	}

	if cfg.Rename.Prefix == "" {
		return errors.Errorf("rename.prefix is required")
	}
	if len(cfg.Rename.Packages) == 0 {
		return errors.Errorf("rename.packages must not be empty")
	}
	for _, pkg := range cfg.Rename.Packages {
		if !dottedName.MatchString(pkg) {
			return errors.Errorf("rename.packages: %q is not a dotted package name", pkg)
		}
	}

	return nil
}

// 📝 String returns a one-line description of the config
func (cfg *Config) String() string {
	src := cfg.Source.BaseURL
	if cfg.Source.Kind == SourceGitHub {
		src = fmt.Sprintf("github.com/%s@%s:%s", cfg.Source.Repo, cfg.Source.Ref, cfg.Source.Path)
	}
	return fmt.Sprintf("%s [%s] -> %s", src, strings.Join(cfg.Roots, ", "), cfg.Layout.Mirror)
}
