// Package identify turns noisy OCR text into a structured piece identity
// via a single reasoning-model call with a strict output contract.
package identify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"scorescan/internal/logging"
	"scorescan/internal/music"
	"scorescan/internal/scanner"
	"scorescan/internal/services/llm"
)

// minReadableLength is the minimum trimmed OCR text length worth sending
// to the model at all.
const minReadableLength = 5

// Completer is the subset of the LLM client the identifier needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Identifier extracts a PieceIdentity from OCR text.
type Identifier struct {
	llm    Completer
	logger *slog.Logger
}

// New creates an Identifier.
func New(completer Completer, logger *slog.Logger) *Identifier {
	return &Identifier{
		llm:    completer,
		logger: logging.NewComponentLogger(logger, "identify"),
	}
}

// Identify sends the OCR text to the reasoning model and parses the
// response into a PieceIdentity. An unresolved composer is a hard failure
// regardless of the confidence the model reports.
func (i *Identifier) Identify(ctx context.Context, ocrText string) (music.PieceIdentity, error) {
	var empty music.PieceIdentity

	trimmed := strings.TrimSpace(ocrText)
	if len(trimmed) < minReadableLength {
		return empty, scanner.Fail(scanner.KindNoReadableText, "No readable text found in image", nil)
	}

	content, err := i.llm.Complete(ctx, buildPrompt(trimmed))
	if err != nil {
		return empty, scanner.Fail(scanner.KindUpstreamParse, "Piece identification service failed", err)
	}

	payload, err := llm.ExtractObject(content)
	if err != nil {
		return empty, scanner.Fail(scanner.KindUpstreamParse, "Identification response carried no JSON payload", err)
	}

	var identity music.PieceIdentity
	if err := json.Unmarshal([]byte(payload), &identity); err != nil {
		return empty, scanner.Fail(scanner.KindUpstreamParse, "Identification response was malformed", err)
	}

	identity.Title = strings.TrimSpace(identity.Title)
	identity.Composer = strings.TrimSpace(identity.Composer)
	identity.SceneOrMovement = strings.TrimSpace(identity.SceneOrMovement)
	identity.Confidence = music.Confidence(strings.ToLower(strings.TrimSpace(string(identity.Confidence))))

	switch identity.Confidence {
	case music.ConfidenceHigh, music.ConfidenceMedium, music.ConfidenceLow:
	default:
		return empty, scanner.Fail(scanner.KindUpstreamParse, "Identification response carried an unknown confidence level", nil)
	}
	if identity.Title == "" {
		return empty, scanner.Fail(scanner.KindUpstreamParse, "Identification response carried no title", nil)
	}
	if composer := strings.ToLower(identity.Composer); composer == "" || composer == "unknown" {
		return empty, scanner.Fail(scanner.KindComposerUnresolved, "Please show clearer composer", nil)
	}

	i.logger.Info("piece identified",
		logging.String("title", identity.Title),
		logging.String("composer", identity.Composer),
		logging.String("scene", identity.SceneOrMovement),
		logging.String("confidence", string(identity.Confidence)))

	return identity, nil
}
