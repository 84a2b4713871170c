package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCatCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <input> <path>",
		Short: "Write one file of an archive to stdout",
		Args:  cobra.ExactArgs(2),
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

			f, err := a.Lookup(args[1])
			if err != nil {
				return err
			}
			src, err := a.OpenFile(f)
			if err != nil {
				return err
			}
			if _, err := io.Copy(cmd.OutOrStdout(), src); err != nil {
				return errors.Wrapf(err, "writing %s", args[1])
			}
			return nil
		},
	}
}
