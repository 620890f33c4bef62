package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hqpham/studyflow/internal/assistant"
	"github.com/hqpham/studyflow/internal/config"
	"github.com/hqpham/studyflow/internal/model"
)

func newOrchestrator(cfg config.Config) *assistant.Orchestrator {
	return assistant.NewOrchestrator(
		assistant.WithRemoteClient(assistant.NewHTTPClient(cfg.Bridge.RespondURL, cfg.Bridge.SuggestURL)),
	)
}

// askCmd implements 'studyflow ask': one assistant round-trip from the
// command line.
func askCmd() *cobra.Command {
	var mood string
	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask the study assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ts, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if mood == "" {
				mood = cfg.Mood
			}
			resp := newOrchestrator(cfg).Respond(context.Background(), strings.Join(args, " "), ts.Tasks(), mood)
			printResponse(resp)
			return nil
		},
	}
	cmd.Flags().StringVar(&mood, "mood", "", "mood forwarded to the assistant")
	return cmd
}

// analyzeCmd implements 'studyflow analyze'.
func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Show task statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ts, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			resp := newOrchestrator(cfg).Respond(context.Background(), "phân tích", ts.Tasks(), cfg.Mood)
			printResponse(resp)
			return nil
		},
	}
}

// suggestCmd implements 'studyflow suggest'.
func suggestCmd() *cobra.Command {
	var mood string
	var promote bool
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a study schedule for pending tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ts, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if mood == "" {
				mood = cfg.Mood
			}
			resp := newOrchestrator(cfg).Respond(context.Background(), "sắp xếp lịch trình học cho tôi", ts.Tasks(), mood)
			printResponse(resp)

			if promote {
				for _, s := range resp.Suggestions {
					ts.Add(context.Background(), s.Title, s.SuggestedSlot, s.Description, s.Priority.TaskPriority(), "")
				}
				fmt.Printf("Đã thêm %d task từ gợi ý\n", len(resp.Suggestions))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mood, "mood", "", "mood forwarded to the assistant")
	cmd.Flags().BoolVar(&promote, "promote", false, "add the suggestions as tasks")
	return cmd
}

func printResponse(resp model.AIResponse) {
	fmt.Println(resp.Message)
	for i, s := range resp.Suggestions {
		line := fmt.Sprintf("  %d. %s (%d phút, %s)", i+1, s.Title, s.EstimatedMinutes, s.Priority)
		if s.SuggestedSlot != nil {
			line += " — " + s.SuggestedSlot.Format("02/01 15:04")
		}
		fmt.Println(line)
	}
}
