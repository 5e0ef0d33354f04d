// Command matrixd runs the display daemon: it builds the configured surface
// backend, instantiates the configured plugins and drives them until the
// process is told to stop.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GridGlow/matrix/logs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "matrixd",
		Short:         "Pixel matrix display daemon",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			log := logs.New(logs.Options{Level: level, Journal: cfg.Journal})

			return run(cmd.Context(), cfg, log)
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default matrixd.yaml in . or /etc/matrixd)")
	cmd.Flags().Bool("verbose", false, "debug logging")
	cmd.Flags().Bool("journal", false, "also log to the systemd journal")
	cmd.Flags().String("backend", "", "display backend: spi, fb or visual")

	_ = viper.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
	_ = viper.BindPFlag("journal", cmd.Flags().Lookup("journal"))
	_ = viper.BindPFlag("display.backend", cmd.Flags().Lookup("backend"))

	return cmd
}

func loadConfig(cfgFile string) (*daemonConfig, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("matrixd")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/matrixd")
	}
	viper.SetEnvPrefix("MATRIXD")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg daemonConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("display.backend", "visual")
	viper.SetDefault("display.width", 128)
	viper.SetDefault("display.height", 32)
	viper.SetDefault("display.fb_device", "/dev/fb0")
	viper.SetDefault("display.spi.speed_hz", 8_000_000)
	viper.SetDefault("display.spi.reset_pin", "GPIO25")
	viper.SetDefault("display.spi.dc_pin", "GPIO24")
	viper.SetDefault("fonts.dir", "fonts")
	viper.SetDefault("frame_interval", "100ms")
	viper.SetDefault("mode", "auto")
}
