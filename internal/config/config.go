// Package config resolves vfs2tool settings from flags, environment
// variables and an optional config file.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/user/vfs2go/pkg/vfs2"
)

// EnvPrefix prefixes every environment variable, e.g. VFS2TOOL_JOBS.
const EnvPrefix = "VFS2TOOL"

// DefaultFile is looked up in the home directory when --config is not set.
const DefaultFile = ".vfs2tool.yaml"

// Keys shared by flags, environment and config file.
const (
	KeyConfig        = "config"
	KeyVerbose       = "verbose"
	KeyLogLevel      = "log-level"
	KeyNamePolicy    = "name-policy"
	KeyStrictParents = "strict-parents"
	KeyOutput        = "output"
	KeyJobs          = "jobs"
	KeyKeepGoing     = "keep-going"
	KeyPath          = "path"
)

// Config is the resolved configuration of one command invocation.
type Config struct {
	Verbose       bool
	LogLevel      slog.Level
	NamePolicy    vfs2.NamePolicy
	StrictParents bool
	Output        string
	Jobs          int
	KeepGoing     bool
	Paths         []string
}

// New returns a viper instance reading VFS2TOOL_* variables.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyNamePolicy, vfs2.NameStrict.String())
	v.SetDefault(KeyJobs, 1)
	return v
}

// Load binds flags, reads the config file and validates the result.
// Flags set on the command line win over the environment, which wins over
// the config file.
func Load(v *viper.Viper, flags *pflag.FlagSet) (Config, error) {
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, errors.Wrap(err, "config: binding flags")
	}
	if err := readFile(v, v.GetString(KeyConfig)); err != nil {
		return Config{}, err
	}

	c := Config{
		Verbose:       v.GetBool(KeyVerbose),
		StrictParents: v.GetBool(KeyStrictParents),
		Jobs:          v.GetInt(KeyJobs),
		KeepGoing:     v.GetBool(KeyKeepGoing),
		Paths:         v.GetStringSlice(KeyPath),
	}

	if err := c.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Config{}, errors.Wrapf(err, "config: %s", KeyLogLevel)
	}
	if c.Verbose && c.LogLevel > slog.LevelInfo {
		c.LogLevel = slog.LevelInfo
	}

	policy, err := vfs2.ParseNamePolicy(v.GetString(KeyNamePolicy))
	if err != nil {
		return Config{}, errors.WithMessage(err, "config")
	}
	c.NamePolicy = policy

	if c.Jobs < 1 {
		return Config{}, errors.Errorf("config: %s must be at least 1, got %d", KeyJobs, c.Jobs)
	}

	if out := v.GetString(KeyOutput); out != "" {
		if c.Output, err = homedir.Expand(out); err != nil {
			return Config{}, errors.Wrapf(err, "config: %s", KeyOutput)
		}
	}
	return c, nil
}

// readFile merges the config file into v. An explicit path must exist;
// the default file in the home directory is optional.
func readFile(v *viper.Viper, path string) error {
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return errors.Wrapf(err, "config: %s", path)
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "config: reading %s", expanded)
		}
		return nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	def := filepath.Join(home, DefaultFile)
	if _, err := os.Stat(def); err != nil {
		return nil
	}
	v.SetConfigFile(def)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "config: reading %s", def)
	}
	return nil
}

// ArchiveOptions translates the configuration into vfs2 options.
func (c Config) ArchiveOptions(logger *slog.Logger) []vfs2.Option {
	return []vfs2.Option{
		vfs2.WithLogger(logger),
		vfs2.WithNamePolicy(c.NamePolicy),
		vfs2.WithStrictParents(c.StrictParents),
	}
}
