package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/user/vfs2go/internal/config"
	"github.com/user/vfs2go/pkg/vfs2"
)

func newUnpackCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack -o <dir> <input>",
		Short: "Extract every file of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, v)
			if err != nil {
				return err
			}
			if cfg.Output == "" {
				return errors.New("an output directory is required (--output)")
			}
			a, err := openArchive(args[0], cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := vfs2.ExtractOptions{
				Jobs:      cfg.Jobs,
				KeepGoing: cfg.KeepGoing,
			}
			if len(cfg.Paths) > 0 {
				opts.Match = vfs2.MatchPaths(cfg.Paths...)
			}
			if cfg.Verbose {
				opts.OnFile = func(e vfs2.Entry) {
					logger.Info("unpacking", "id", e.ID, "size", e.FileSize, "path", e.Path)
				}
			}

			n, err := a.Extract(cmd.Context(), cfg.Output, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unpacked %d files to %s\n", n, cfg.Output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringP(config.KeyOutput, "o", "", "output directory")
	f.IntP(config.KeyJobs, "j", 1, "number of files extracted concurrently")
	f.Bool(config.KeyKeepGoing, false, "extract the remaining files after a failure and report all failures at the end")
	f.StringSlice(config.KeyPath, nil, "only extract this path or directory (repeatable)")
	return cmd
}
