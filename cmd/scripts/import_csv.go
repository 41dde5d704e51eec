package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/bootstrap"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/config"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/utils"
	"github.com/spf13/pflag"
	"golang.org/x/exp/slog"
)

// Imports attendee accounts with starting points from a CSV file:
//
//	go run ./cmd/scripts --file attendees.csv
func main() {
	config.LoadDotEnv()

	var csvFilePath, configPath string
	pflag.StringVar(&csvFilePath, "file", "", "CSV file with accountId,displayName,points")
	pflag.StringVar(&configPath, "config", config.ConfigPath(), "directory holding config.yaml")
	pflag.Parse()

	if csvFilePath == "" && pflag.NArg() > 0 {
		csvFilePath = pflag.Arg(0)
	}
	if csvFilePath == "" {
		fmt.Fprintln(os.Stderr, "CSV file path is required (--file)")
		os.Exit(2)
	}

	if err := importData(configPath, csvFilePath); err != nil {
		slog.Error("Failed to import data", "error", err, "file", csvFilePath)
		os.Exit(1)
	}
}

func importData(configPath, csvFilePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	bootstrap.SetupLogger(cfg)

	ctx := context.Background()
	repos, err := bootstrap.OpenRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close(ctx)

	svc, err := bootstrap.NewServices(cfg, repos)
	if err != nil {
		return err
	}

	file, err := os.Open(csvFilePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	result, err := utils.NewCSVImporter(svc.User).Import(ctx, file)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	slog.Info("Data imported", "rows", result.TotalRows, "imported", result.Imported, "skipped", result.Skipped, "errors", len(result.Errors))
	return nil
}
