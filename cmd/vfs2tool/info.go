package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newInfoCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "info <input>",
		Short: "List the files of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, v)
			if err != nil {
				return err
			}
			a, err := openArchive(args[0], cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if cfg.Verbose {
				fmt.Fprintf(out, "directories: %d, files: %d\n", a.NumDirectories()-1, a.NumFiles())
			}
			for e, err := range a.All() {
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "file: %s (id: %d)\n", e.Path, e.ID)
				fmt.Fprintf(out, "  offset_start: 0x%08x\n", e.OffsetStart)
				fmt.Fprintf(out, "  file_size: 0x%08x\n", e.FileSize)
				if cfg.Verbose {
					for i, u := range e.Unknown {
						fmt.Fprintf(out, "  unknown_%d: 0x%08x\n", i+1, u)
					}
				}
			}
			return nil
		},
	}
}
