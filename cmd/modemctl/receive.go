package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeongseonghan/acoustic-modem/internal/audio"
	"github.com/jeongseonghan/acoustic-modem/internal/session"
)

func newReceiveCmd() *cobra.Command {
	var outDir string
	var inWav string
	var maxBytes int

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Receive a file over the modem",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := channelPlanFromConfig()
			rate := sampleRate()

			var source interface {
				Read([]float32) (int, error)
			}
			var closer func() error

			if inWav != "" {
				wf, err := audio.OpenWavFile(inWav)
				if err != nil {
					return err
				}
				rate = wf.SampleRate()
				source = wf
				closer = wf.Close
			} else {
				if err := audio.Init(); err != nil {
					return fmt.Errorf("init audio: %w", err)
				}
				defer audio.Terminate()

				stream := audio.NewStream(rate)
				if err := stream.OpenInput(); err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				source = stream
				closer = stream.Close
			}
			defer closer()

			sess, err := session.NewReceiver(plan, rate, source)
			if err != nil {
				return err
			}

			result, err := sess.ReceiveFile(outDir, maxBytes, func(done, total int64, status string) {
				fmt.Printf("\r%s: %d/%d bytes", status, done, total)
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nreceived %s (%d bytes, md5 %s)\n", result.Name, result.Size, result.MD5Hex)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory to write the received file into")
	cmd.Flags().StringVar(&inWav, "in-wav", "", "read the signal from a WAV file instead of a live device")
	cmd.Flags().IntVar(&maxBytes, "max-bytes", 64<<20, "upper bound on buffered payload while the header is still unknown")
	return cmd
}
