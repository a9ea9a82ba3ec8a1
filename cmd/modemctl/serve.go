package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeongseonghan/acoustic-modem/internal/audio"
	"github.com/jeongseonghan/acoustic-modem/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr, uploadDir, receiveDir, staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/WebSocket control server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := audio.Init(); err != nil {
				return fmt.Errorf("init audio: %w", err)
			}
			defer audio.Terminate()

			os.MkdirAll(uploadDir, 0o755)
			os.MkdirAll(receiveDir, 0o755)

			plan := channelPlanFromConfig()
			handlers := server.NewHandlers(plan, sampleRate(), uploadDir, receiveDir)
			srv := server.NewServer(addr, handlers, staticDir)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				fmt.Println("\nShutting down...")
				audio.Terminate()
				os.Exit(0)
			}()

			if err := srv.Start(); err != nil {
				log.Fatalf("server error: %v", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "0.0.0.0:8080", "server listen address")
	cmd.Flags().StringVar(&uploadDir, "upload-dir", "./uploads", "upload directory")
	cmd.Flags().StringVar(&receiveDir, "receive-dir", "./received", "receive directory")
	cmd.Flags().StringVar(&staticDir, "static-dir", "./web/static", "static asset directory")
	return cmd
}
