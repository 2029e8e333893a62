package main

import (
	"os"

	"github.com/keturiosakys/raspberry-temperature-monitoring/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
