package cmd

import (
	"errors"
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"

	envPrefix = "BINFARM"
)

// NewRootCmd creates the binfarmd root command. Every subcommand shares one
// viper instance, so values resolve as flag, then BINFARM_* environment, then
// binfarm.toml, then the built-in default.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "binfarmd",
		Short: "Operator tooling for the binfarm position engine",
		Long: `binfarmd generates and checks binfarm genesis state, previews fee splits and
rover ranges, and serves the module's Prometheus metrics.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return initConfig(v, cmd)
		},
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "path to binfarm.toml (default ./binfarm.toml when present)")
	rootCmd.PersistentFlags().String(flagLogLevel, "info", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(
		GenesisCmd(v),
		FeeSplitCmd(),
		RoverRangeCmd(),
		MetricsCmd(v),
	)

	return rootCmd
}

// initConfig wires env overrides, reads the optional config file and binds
// the invoked command's flags.
func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path, _ := cmd.Flags().GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("binfarm")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return v.BindPFlags(cmd.Flags())
}

// newLogger builds the CLI logger at the configured level
func newLogger(v *viper.Viper) log.Logger {
	level := v.GetString(flagLogLevel)
	if level == "" {
		level = "info"
	}
	opts := []log.Option{log.ColorOption(false)}
	if filter, err := log.ParseLogLevel(level); err == nil {
		opts = append(opts, log.FilterOption(filter))
	}
	return log.NewLogger(os.Stderr, opts...).With("module", "binfarmd")
}
