package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"curvedb/core"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalOptions struct {
	configPath string
	dbPath     string
	logLevel   string

	config *core.StoreConfig
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "curvedb",
		Short:         "Calendar resampling for irregular time series",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")

	rootCmd.AddCommand(
		newResampleCmd(opts),
		newImportCmd(opts),
		newQueryCmd(opts),
		newListCmd(opts),
	)
	return rootCmd
}

func (opts *globalOptions) load(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	config, err := core.LoadStoreConfig(opts.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		config.Path = opts.dbPath
		config.InMemory = false
	}
	if cmd.Flags().Changed("log-level") {
		config.LogLevel = opts.logLevel
	}

	logger, err := core.NewLogger(config.LogLevel)
	if err != nil {
		return err
	}
	opts.config = config
	opts.logger = logger
	return nil
}

func (opts *globalOptions) openDB() (*core.DB, error) {
	return core.OpenWithLogger(opts.config, opts.logger)
}
