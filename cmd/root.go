package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "temperature-monitor",
	Short:        "Samples DHT22 sensors on Raspberry Pi GPIO pins and forwards readings to Graphite",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./temperature-monitor.toml)")
}

func initConfig() {
	// A .env next to the binary is the usual way to keep the API key
	// out of the unit file on the Pi.
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded environment from .env file")
	}
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/temperature-monitor")
		viper.SetConfigName("temperature-monitor")
		viper.SetConfigType("toml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	if err := viper.ReadInConfig(); err == nil {
		logger.LogAttrs(nil, slog.LevelInfo, "Using config file", slog.String("config", viper.ConfigFileUsed()))
	}
}
