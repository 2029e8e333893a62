package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/keturiosakys/raspberry-temperature-monitoring/internal/dht"
	"github.com/keturiosakys/raspberry-temperature-monitoring/internal/registry"
	"github.com/keturiosakys/raspberry-temperature-monitoring/internal/sampler"
	"github.com/keturiosakys/raspberry-temperature-monitoring/pkg/graphite"
	"github.com/keturiosakys/raspberry-temperature-monitoring/pkg/sensor"
)

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Sample all registered sensors on a fixed interval and forward readings to Graphite",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			endpoint    = viper.GetString("endpoint")
			apiKey      = viper.GetString("api-key")
			timeout     = viper.GetDuration("timeout")
			interval    = viper.GetDuration("interval")
			attempts    = viper.GetInt("attempts")
			sensorsPath = viper.GetString("sensors")
			dryRun      = viper.GetBool("dry-run")
		)
		specs, err := registry.Load(sensorsPath)
		if err != nil {
			return err
		}
		logger.LogAttrs(nil, slog.LevelInfo, "Loaded sensor registry",
			slog.Int("sensors", len(specs)),
			slog.String("path", sensorsPath))

		reader, err := dht.New()
		if err != nil {
			return err
		}
		defer reader.Close()

		var reporter sampler.Reporter
		if dryRun {
			logger.Info("Dry run: readings will be logged, not delivered")
			reporter = logOnlyReporter{logger: logger}
		} else {
			client, err := graphite.New(graphite.Config{
				Endpoint: endpoint,
				APIKey:   apiKey,
				Timeout:  timeout,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			reporter = client
		}

		loop := &sampler.Loop{
			Sampler: sampler.New(reader, sampler.Config{
				Attempts: attempts,
				Logger:   logger,
			}),
			Sensors:  specs,
			Reporter: reporter,
			Interval: interval,
			Logger:   logger,
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		logger.LogAttrs(nil, slog.LevelInfo, "Starting sampling loop",
			slog.Duration("interval", interval),
			slog.String("endpoint", endpoint))
		return loop.Run(ctx)
	},
}

// logOnlyReporter stands in for the Graphite client when serving with
// --dry-run: readings are logged and discarded.
type logOnlyReporter struct {
	logger *slog.Logger
}

func (r logOnlyReporter) Report(ctx context.Context, readings []sensor.Reading) error {
	for _, reading := range readings {
		r.logger.LogAttrs(ctx, slog.LevelInfo, "Reading",
			slog.String("sensor", reading.Sensor),
			slog.Float64("temperature", reading.Temperature),
			slog.Float64("humidity", reading.Humidity))
	}
	return nil
}

func init() {
	serveCmd.Flags().String("endpoint", "", "Graphite metrics ingestion URL")
	serveCmd.Flags().String("api-key", "", "API key sent as a bearer token with every delivery")
	serveCmd.Flags().Duration("timeout", graphite.DefaultTimeout, "Delivery request timeout")
	serveCmd.Flags().Duration("interval", 15*time.Minute, "How often to sample all sensors")
	serveCmd.Flags().Int("attempts", sampler.DefaultAttempts, "Read attempts per sensor per cycle")
	serveCmd.Flags().String("sensors", "sensors.yaml", "Path to the sensor list file")
	serveCmd.Flags().Bool("dry-run", false, "Sample sensors but log readings instead of delivering them")

	cobra.CheckErr(viper.BindPFlags(serveCmd.Flags()))
	cobra.CheckErr(viper.BindEnv("endpoint", "GRAPHITE_ENDPOINT", "ENDPOINT"))
	cobra.CheckErr(viper.BindEnv("api-key", "GRAFANA_API_KEY", "API_KEY"))

	rootCmd.AddCommand(serveCmd)
}
