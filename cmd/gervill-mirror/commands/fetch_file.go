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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/gervill-mirror/cmd/gervill-mirror/opts"
	"github.com/walteh/gervill-mirror/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewFetchFileCmd creates the fetch-file command
func NewFetchFileCmd(load opts.Loader) *cobra.Command {
	var withCopies bool

	cmd := &cobra.Command{
		Use:   "fetch-file <remote-path>...",
		Short: "Download single remote files into the mirror",
		Long: `fetch-file downloads each given remote file (dir/Name.java) into the mirror.
Exclusions still apply. With --with-copies the derived copies are written too.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			o, err := load(ctx)
			if err != nil {
				return err
			}

			fetcher, err := o.Fetcher(withCopies)
			if err != nil {
				return errors.Errorf("creating fetcher: %w", err)
			}

			if err := operation.NewRunner(nil).Run(ctx, operation.NewFetchFileOperation(fetcher, args...)); err != nil {
				return err
			}

			return o.Summarize(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&withCopies, "with-copies", false, "also write the renamed and comparison copies")

	return cmd
}
