package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/user/vfs2go/internal/config"
	"github.com/user/vfs2go/internal/logging"
	"github.com/user/vfs2go/pkg/compressedvfs2"
	"github.com/user/vfs2go/pkg/vfs2"
)

func newRootCommand() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:           "vfs2tool",
		Short:         "Inspect and extract VFS2 archives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String(config.KeyConfig, "", "config file (default $HOME/"+config.DefaultFile+")")
	pf.BoolP(config.KeyVerbose, "v", false, "verbose output")
	pf.String(config.KeyLogLevel, "warn", "log level: debug, info, warn or error")
	pf.String(config.KeyNamePolicy, vfs2.NameStrict.String(), "handling of names that are not UTF-8: strict or lenient")
	pf.Bool(config.KeyStrictParents, false, "fail instead of truncating paths when a parent directory is missing")

	root.AddCommand(
		newInfoCommand(v),
		newUnpackCommand(v),
		newCatCommand(v),
		newPackCommand(),
	)
	return root
}

// setup resolves the configuration of cmd and builds its logger.
func setup(cmd *cobra.Command, v *viper.Viper) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(v, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logging.New(cmd.ErrOrStderr(), cfg.LogLevel), nil
}

func openArchive(path string, cfg config.Config, logger *slog.Logger) (*vfs2.Archive, error) {
	a, format, err := compressedvfs2.Open(path, cfg.ArchiveOptions(logger)...)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened archive", "path", path, "format", format,
		"size", a.Size(), "directories", a.NumDirectories()-1, "files", a.NumFiles())
	return a, nil
}
