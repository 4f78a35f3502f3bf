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
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// HTTPDoer is the part of *http.Client the Client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// 🌐 Client fetches raw text below a base URL
type Client struct {
	baseURL string
	http    HTTPDoer
}

// 🏭 NewClient creates a client for baseURL. A nil doer uses a plain
// http.Client without a timeout.
func NewClient(baseURL string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
	}
}

// BaseURL returns the URL every path is appended to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// 📥 Fetch issues one GET for baseURL/path and returns the whole body.
// The status code is not checked: any received body is returned as-is.
func (c *Client) Fetch(ctx context.Context, path string) (string, error) {
	url := c.baseURL + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Errorf("%w: creating request for %s: %w", ErrTransport, url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Errorf("%w: GET %s: %w", ErrTransport, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Errorf("%w: reading body of %s: %w", ErrTransport, url, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("fetched")

	return string(body), nil
}
