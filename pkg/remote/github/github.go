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

package github

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/gervill-mirror/pkg/config"
	"github.com/walteh/gervill-mirror/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

func init() {
	remote.RegisterSource(config.SourceGitHub, func(ctx context.Context, args config.SourceArgs, extension string) (remote.Source, error) {
		return New(ctx, args, extension, nil)
	})
}

// 🎯 Source reads a repository tree through the GitHub contents API
type Source struct {
	client    *github.Client
	owner     string
	name      string
	ref       string
	root      string
	extension string
}

var _ remote.Source = (*Source)(nil)

// 🏭 New creates a GitHub source. GITHUB_TOKEN is used when set; a nil
// httpClient uses http.DefaultClient.
func New(ctx context.Context, args config.SourceArgs, extension string, httpClient *http.Client) (*Source, error) {
	owner, name, err := parseRepo(args.Repo)
	if err != nil {
		return nil, errors.Errorf("parsing repo: %w", err)
	}

	client := github.NewClient(httpClient)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	} else {
		zerolog.Ctx(ctx).Debug().Msg("GITHUB_TOKEN not set, using unauthenticated requests")
	}

	return &Source{
		client:    client,
		owner:     owner,
		name:      name,
		ref:       args.Ref,
		root:      strings.Trim(args.Path, "/"),
		extension: extension,
	}, nil
}

// 🔍 parseRepo parses owner/name, with or without a github.com prefix
func parseRepo(repo string) (owner, name string, err error) {
	repo = strings.TrimPrefix(repo, "https://")
	repo = strings.TrimPrefix(repo, "github.com/")
	repo = strings.TrimSuffix(repo, ".git")

	parts := strings.Split(strings.Trim(repo, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid GitHub repository: %q", repo)
	}

	return parts[0], parts[1], nil
}

// WithBaseURL points the client at another API endpoint (GitHub Enterprise, tests)
func (s *Source) WithBaseURL(baseURL string) (*Source, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	client, err := s.client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, errors.Errorf("setting base url: %w", err)
	}
	clone := *s
	clone.client = client
	return &clone, nil
}

func (s *Source) Name() string {
	ref := s.ref
	if ref == "" {
		ref = "HEAD"
	}
	return fmt.Sprintf("github.com/%s/%s@%s:%s", s.owner, s.name, ref, s.root)
}

func (s *Source) repoPath(p string) string {
	return strings.Trim(path.Join(s.root, p), "/")
}

func (s *Source) options() *github.RepositoryContentGetOptions {
	if s.ref == "" {
		return nil
	}
	return &github.RepositoryContentGetOptions{Ref: s.ref}
}

// 📂 List returns subdirectories and files ending in the extension, in API order
func (s *Source) List(ctx context.Context, p string) ([]remote.Entry, error) {
	_, dir, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.name, s.repoPath(p), s.options())
	if err != nil {
		return nil, errors.Errorf("%w: listing %s: %w", remote.ErrTransport, p, err)
	}
	if dir == nil {
		return nil, errors.Errorf("listing %s: not a directory", p)
	}

	var entries []remote.Entry
	for _, item := range dir {
		switch item.GetType() {
		case "dir":
			entries = append(entries, remote.Entry{IsDirectory: true, Name: item.GetName()})
		case "file":
			if strings.HasSuffix(item.GetName(), s.extension) {
				entries = append(entries, remote.Entry{Name: item.GetName()})
			}
		}
	}
	return entries, nil
}

// 📄 Fetch returns the decoded content of a single file
func (s *Source) Fetch(ctx context.Context, p string) (string, error) {
	file, _, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.name, s.repoPath(p), s.options())
	if err != nil {
		return "", errors.Errorf("%w: getting %s: %w", remote.ErrTransport, p, err)
	}
	if file == nil {
		return "", errors.Errorf("getting %s: not a file", p)
	}

	content, err := file.GetContent()
	if err != nil {
		return "", errors.Errorf("decoding %s: %w", p, err)
	}
	return content, nil
}
