package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ssi/internal/config"
	"ssi/internal/logging"
	"ssi/internal/shell"
)

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "ssi",
		Short:         "A simple shell interpreter with background jobs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			logger, err := logging.NewLoggerFactory().CreateLogger(logging.LogLevel(cfg.LogLevel), logging.LogFormat(cfg.LogFormat))
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			s, err := shell.New(cfg, shell.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("error initializing shell: %w", err)
			}
			return s.Run()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "configuration file (default: ./ssi.yaml or ~/.config/ssi/ssi.yaml)")
	flags.String("log-level", string(logging.LogLevelError), "diagnostic log level: debug, info, warn or error")
	flags.String("log-format", string(logging.LogFormatConsole), "diagnostic log format: console or structured")

	root.AddCommand(newConfigCommand(&configFile))
	return root
}

func newConfigCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			out, err := cfg.YAML()
			if err != nil {
				return fmt.Errorf("error rendering config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
