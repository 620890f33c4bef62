package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hqpham/studyflow/internal/bridge"
)

// bridgeCmd implements 'studyflow bridge': the relay between the app and
// the Gemini API, so the API key never reaches client machines.
func bridgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bridge",
		Short: "Run the Gemini suggestion relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			apiKey := cfg.Gemini.APIKey()
			if apiKey == "" {
				return fmt.Errorf("missing API key: set %s", cfg.Gemini.APIKeyEnv)
			}

			upstream := bridge.NewGeminiClient(apiKey, cfg.Gemini.Model)
			srv := bridge.NewServer(upstream,
				bridge.WithTimeout(time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second),
				bridge.WithLogger(log.Printf),
			)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Printf("bridge listening on %s (model %s)", cfg.Bridge.ListenAddr, cfg.Gemini.Model)
			return srv.ListenAndServe(ctx, cfg.Bridge.ListenAddr, cfg.Bridge.AllowedOrigins)
		},
	}
}
