package main

import (
	"fmt"
	"log/slog"
	"os"

	"teachtimer/internal/config"
	"teachtimer/internal/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     config.Config
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "teachtimer",
		Short:         "Classroom countdown timer",
		Long:          `TeachTimer shows a large countdown for the classroom, with presets, warnings and a completion sound.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesktop(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default locations: $XDG_CONFIG_HOME/teachtimer/config.yaml or ~/.config/teachtimer/config.yaml)")
	flags.String("store-driver", "", "snapshot store: yaml or sqlite")
	flags.String("store-path", "", "snapshot file location")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	_ = viper.BindPFlag(config.KeyStoreDriver, flags.Lookup("store-driver"))
	_ = viper.BindPFlag(config.KeyStorePath, flags.Lookup("store-path"))
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newPresetsCmd())
	rootCmd.AddCommand(newSettingsCmd())

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initRuntime()
	}

	return rootCmd
}

// initRuntime resolves the config and installs the default logger.
func initRuntime() error {
	v := viper.GetViper()
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}
	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})
	slog.SetDefault(slog.New(handler))
	slog.Debug("config resolved",
		"config_file", v.ConfigFileUsed(),
		"store_driver", cfg.StoreDriver,
		"store_path", cfg.StorePath,
		"tick_interval", cfg.TickInterval,
	)
	return nil
}

func openStore() (storage.Store, error) {
	store, err := storage.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	return store, nil
}
