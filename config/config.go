// Copyright © 2024 The ELPS authors

// Package config loads bsc's configuration through viper, layering a
// config file over environment variables and command-line flags.
package config

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stbscript/bsc/diagnostic"
)

// Config is the resolved set of options every bsc subcommand reads.
type Config struct {
	WorkspaceRoot string
	Color         diagnostic.ColorMode
	LogLevel      string
	ConfigFile    string
}

// RegisterPersistentFlags wires the flags Load depends on onto root,
// so --config/--color/--workspace/--log-level exist before Execute()
// ever runs.
func RegisterPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().String("config", "", "config file (default is $HOME/.bsc.yaml)")
	root.PersistentFlags().String("color", "auto", `control colored output: "auto", "always", or "never"`)
	root.PersistentFlags().String("workspace", ".", "workspace root to scan for source files")
	root.PersistentFlags().String("log-level", "info", "minimum log level: debug, info, warn, error")

	_ = viper.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("color", root.PersistentFlags().Lookup("color"))
	_ = viper.BindPFlag("workspace", root.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))
}

// Load reads a config file (if one is set via --config, or discoverable
// as .bsc.yaml in the home directory) and environment variables, then
// resolves the final Config. It never exits the process on error, since
// this runs inside a library entry point that callers may invoke
// repeatedly (e.g. from tests).
func Load() (Config, error) {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".bsc")
	}

	viper.SetEnvPrefix("bsc")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	return Config{
		WorkspaceRoot: viper.GetString("workspace"),
		Color:         parseColorMode(viper.GetString("color")),
		LogLevel:      viper.GetString("log-level"),
		ConfigFile:    viper.ConfigFileUsed(),
	}, nil
}

func parseColorMode(v string) diagnostic.ColorMode {
	switch strings.ToLower(v) {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}
