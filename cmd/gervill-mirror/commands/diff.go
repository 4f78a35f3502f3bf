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
)

// NewDiffCmd creates the diff command
func NewDiffCmd(load opts.Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Report line differences between the comparison trees",
		Long: `diff pairs every stripped original with its stripped renamed copy and
prints the files whose code changed beyond the package rename.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			o, err := load(ctx)
			if err != nil {
				return err
			}

			op := operation.NewDiffOperation(o.Trees.OriginalComparison, o.Trees.RenamedComparison, cmd.OutOrStdout())
			return operation.NewRunner(nil).Run(ctx, op)
		},
	}

	return cmd
}
