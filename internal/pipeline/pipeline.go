// Package pipeline assembles the scan stages from configuration.
package pipeline

import (
	"fmt"
	"log/slog"

	"scorescan/internal/config"
	"scorescan/internal/discovery"
	"scorescan/internal/identify"
	"scorescan/internal/rank"
	"scorescan/internal/scanner"
	"scorescan/internal/services/llm"
	"scorescan/internal/services/vision"
	"scorescan/internal/services/youtube"
	"scorescan/internal/strategy"
)

// Build wires every stage into a ready Scanner. The key rotator created
// here is the only state shared across scans, so the returned Scanner
// should live for the whole process.
func Build(cfg *config.Config, logger *slog.Logger) (*scanner.Scanner, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	visionClient, err := vision.New(cfg.Vision.APIKey, cfg.Vision.BaseURL, cfg.Vision.TimeoutSeconds)
	if err != nil {
		return nil, fmt.Errorf("pipeline: vision client: %w", err)
	}

	llmClient := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		MaxTokens:      cfg.LLM.MaxTokens,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	youtubeClient, err := youtube.New(youtube.Config{
		BaseURL:              cfg.YouTube.BaseURL,
		SearchTimeoutSeconds: cfg.YouTube.SearchTimeoutSeconds,
		DetailTimeoutSeconds: cfg.YouTube.DetailTimeoutSeconds,
		SearchResults:        cfg.YouTube.SearchResults,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: youtube client: %w", err)
	}

	rotator, err := youtube.NewKeyRotator(cfg.YouTube.APIKeys)
	if err != nil {
		return nil, fmt.Errorf("pipeline: key rotator: %w", err)
	}

	return scanner.New(
		visionClient,
		identify.New(llmClient, logger),
		strategy.NewGenerator(logger),
		discovery.New(youtubeClient, rotator, logger,
			discovery.WithDetailBatchSize(cfg.YouTube.DetailBatchSize)),
		rank.New(llmClient, logger),
		rank.Select,
		scanner.Config{
			MaxVideos:             cfg.Scanner.MaxVideos,
			HighAccuracyThreshold: cfg.Scanner.HighAccuracyThreshold,
		},
		logger,
	), nil
}
