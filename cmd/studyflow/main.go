package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hqpham/studyflow/internal/config"
	"github.com/hqpham/studyflow/internal/storage"
	"github.com/hqpham/studyflow/internal/store"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "studyflow",
		Short: "Personal study-task manager with a Vietnamese AI assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	rootCmd.AddCommand(
		addCmd(),
		listCmd(),
		doneCmd(),
		editCmd(),
		rmCmd(),
		askCmd(),
		analyzeCmd(),
		suggestCmd(),
		bridgeCmd(),
		tuiCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "studyflow: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the SQLite backend and loads the task snapshot. The
// caller must invoke the returned closer.
func openStore(cfg config.Config) (*store.TaskStore, func(), error) {
	backend, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	ts := store.New(backend)
	ts.Load(context.Background())
	return ts, func() { backend.Close() }, nil
}
