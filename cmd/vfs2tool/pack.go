package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/user/vfs2go/pkg/vfs2"
)

// newPackCommand reserves the pack verb. Flags are not parsed so every
// invocation fails the same way.
func newPackCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "pack",
		Short:              "Build an archive (not implemented)",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.WithMessage(vfs2.Pack("", nil), "'pack' command")
		},
	}
}
