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

package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/gervill-mirror/cmd/gervill-mirror/commands"
	"github.com/walteh/gervill-mirror/cmd/gervill-mirror/opts"
	"github.com/walteh/gervill-mirror/pkg/config"
	"github.com/walteh/gervill-mirror/pkg/log"
	"github.com/walteh/gervill-mirror/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// ErrUnrecognizedFlag is returned for anything but exactly one of -d or -c
var ErrUnrecognizedFlag = errors.Base("unrecognized flag")

// rootFlags holds the parsed command line
type rootFlags struct {
	configFile string
	debug      bool
	download   bool
	copy       bool
	withCopies bool
}

// newRootCmd builds the command tree. stderr receives structured logs,
// the command output receives the user-facing lines.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}

	var cached *opts.RootOpts
	load := func(ctx context.Context) (*opts.RootOpts, error) {
		if cached != nil {
			return cached, nil
		}
		cfg, err := config.Load(ctx, flags.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		o, err := opts.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		cached = o
		return o, nil
	}

	cmd := &cobra.Command{
		Use:   "gervill-mirror (-d | -c)",
		Short: "Mirror the Java Sound sources and derive the gervill copies",
		Long: `gervill-mirror downloads .java files from a remote directory listing into a
local mirror (-d) and derives renamed and comparison copies from it (-c).

  -d  walk the configured remote roots and download into the mirror
  -c  rewrite every mirrored file into the renamed and comparison trees`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return errors.Errorf("%w: unexpected argument %q", ErrUnrecognizedFlag, args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(setupLogging(cmd.Context(), flags.debug, cmd.OutOrStdout(), stderr))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if flags.download == flags.copy {
				return errors.Errorf("%w: expected exactly one of -d or -c", ErrUnrecognizedFlag)
			}

			o, err := load(ctx)
			if err != nil {
				return err
			}

			var op operation.Operation
			if flags.download {
				fetcher, err := o.Fetcher(flags.withCopies)
				if err != nil {
					return errors.Errorf("creating fetcher: %w", err)
				}
				op = operation.NewDownloadOperation(fetcher, o.Config.Roots...)
			} else {
				op = operation.NewCopyOperation(o.Mirror, o.Engine, "")
			}

			log.FromContext(ctx).Header(op.Name())

			if err := operation.NewRunner(nil).Run(ctx, op); err != nil {
				return err
			}

			if err := o.Summarize(cmd.OutOrStdout()); err != nil {
				return err
			}
			log.FromContext(ctx).Successf("%s complete", op.Name())
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.Errorf("%w: %w", ErrUnrecognizedFlag, err)
	})

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (.yaml, .yml, .hcl or .json); defaults are used when empty")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVarP(&flags.download, "download", "d", false, "download the configured remote roots into the mirror")
	cmd.Flags().BoolVarP(&flags.copy, "copy", "c", false, "create the renamed and comparison copies from the mirror")
	cmd.Flags().BoolVar(&flags.withCopies, "with-copies", false, "with -d, also create copies of every downloaded file")

	cmd.AddCommand(
		commands.NewFetchFileCmd(load),
		commands.NewCopyFileCmd(load),
		commands.NewDiffCmd(load),
		commands.NewVersionCmd(),
	)

	return cmd
}

// setupLogging puts the zerolog logger and the console logger on ctx
func setupLogging(ctx context.Context, debug bool, console, stderr io.Writer) context.Context {
	// console lines already cover progress, structured records are for --debug
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()
	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(console, zlog))
}
