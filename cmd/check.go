package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/keturiosakys/raspberry-temperature-monitoring/internal/dht"
	"github.com/keturiosakys/raspberry-temperature-monitoring/internal/sampler"
	"github.com/keturiosakys/raspberry-temperature-monitoring/pkg/sensor"
)

var checkCmd = &cobra.Command{
	Use:          "check",
	Short:        "Read one DHT22 sensor once and print the result (useful when wiring up a new sensor)",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := cmd.Flags().GetUint("pin")
		if err != nil {
			return err
		}
		reader, err := dht.New()
		if err != nil {
			return err
		}
		defer reader.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		s := sampler.New(reader, sampler.Config{Logger: logger})
		reading, err := s.Sample(ctx, sensor.Spec{Name: fmt.Sprintf("pin%d", pin), Pin: pin})
		if err != nil {
			return err
		}
		fmt.Printf("temperature: %.1f °C\nhumidity: %.1f %%\n", reading.Temperature, reading.Humidity)
		return nil
	},
}

func init() {
	checkCmd.Flags().Uint("pin", 0, "GPIO pin (BCM numbering) the DHT22 data line is connected to")
	cobra.CheckErr(checkCmd.MarkFlagRequired("pin"))

	rootCmd.AddCommand(checkCmd)
}
