package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeongseonghan/acoustic-modem/internal/audio"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := audio.Init(); err != nil {
				return fmt.Errorf("init audio: %w", err)
			}
			defer audio.Terminate()
			return audio.PrintDevices()
		},
	}
}
