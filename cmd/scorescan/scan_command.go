package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scorescan/internal/config"
	"scorescan/internal/logging"
	"scorescan/internal/music"
	"scorescan/internal/pipeline"
	"scorescan/internal/scanner"
)

func newScanCommand(configFlag *string) *cobra.Command {
	var instrument string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Scan a sheet music photo and list matching videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			logger, err := logging.New(logging.Options{
				Level:  "warn",
				Format: cfg.Logging.Format,
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			scan, err := pipeline.Build(cfg, logger)
			if err != nil {
				return err
			}

			target := instrument
			if target == "" {
				target = cfg.Scanner.DefaultInstrument
			}

			result, err := scan.Scan(cmd.Context(), scanner.Request{
				Image:      image,
				Instrument: target,
			})
			if err != nil {
				if kind := scanner.KindOf(err); kind != "" {
					if jsonOutput {
						return printJSON(cmd, scanner.ErrorEnvelope(err))
					}
					return fmt.Errorf("scan failed (%s): %s", kind, scanner.ReasonOf(err))
				}
				return err
			}

			if jsonOutput {
				return printJSON(cmd, result)
			}
			renderScanResult(cmd, result, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&instrument, "instrument", "i", "", "Target instrument (defaults to the configured one)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the raw result as JSON")
	return cmd
}

func printJSON(cmd *cobra.Command, payload any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func renderScanResult(cmd *cobra.Command, result *music.ScanResult, instrument string) {
	out := cmd.OutOrStdout()
	titleCaser := cases.Title(language.English)

	fmt.Fprintf(out, "Piece: %s\n", result.Piece.Title)
	fmt.Fprintf(out, "Composer: %s\n", result.Piece.Composer)
	if result.Piece.HasScene() {
		fmt.Fprintf(out, "Scene/Movement: %s\n", result.Piece.SceneOrMovement)
	}
	fmt.Fprintf(out, "Instrument: %s\n", titleCaser.String(instrument))
	fmt.Fprintf(out, "Confidence: %s\n\n", result.Piece.Confidence)

	if len(result.Videos) == 0 {
		fmt.Fprintln(out, "No videos selected.")
		return
	}

	headers := []string{"#", "Score", "Title", "Channel", "Duration", "Views", "URL"}
	rows := make([][]string, 0, len(result.Videos))
	for i, video := range result.Videos {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.1f", video.OverallScore),
			truncate(video.Title, 50),
			truncate(video.Channel, 25),
			video.Duration,
			strconv.FormatInt(video.Views, 10),
			video.URL,
		})
	}
	aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
}

func truncate(value string, limit int) string {
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
