package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeongseonghan/acoustic-modem/internal/audio"
	"github.com/jeongseonghan/acoustic-modem/internal/session"
)

func newSendCmd() *cobra.Command {
	var outWav string

	cmd := &cobra.Command{
		Use:   "send <file>",
		Short: "Send a file over the modem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := channelPlanFromConfig()
			rate := sampleRate()

			var sink interface {
				Write([]float32) (int, error)
			}
			var closer func() error

			if outWav != "" {
				wf, err := audio.CreateWavFile(outWav, rate)
				if err != nil {
					return err
				}
				sink = wf
				closer = wf.Close
			} else {
				if err := audio.Init(); err != nil {
					return fmt.Errorf("init audio: %w", err)
				}
				defer audio.Terminate()

				stream := audio.NewStream(rate)
				if err := stream.OpenOutput(); err != nil {
					return fmt.Errorf("open output: %w", err)
				}
				sink = stream
				closer = stream.Close
			}
			defer closer()

			sess, err := session.NewSender(plan, rate, sink)
			if err != nil {
				return err
			}

			if err := sess.SendCalibration(); err != nil {
				return err
			}

			return sess.SendFile(args[0], func(done, total int64, status string) {
				fmt.Printf("\r%s: %d/%d bytes", status, done, total)
			})
		},
	}

	cmd.Flags().StringVar(&outWav, "out-wav", "", "write the signal to a WAV file instead of a live device")
	return cmd
}
