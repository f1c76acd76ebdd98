// Package scanner orchestrates the scan pipeline: OCR, piece
// identification, search strategy generation, video discovery, accuracy
// ranking, and the final selection cut.
package scanner

import (
	"context"
	"errors"
	"log/slog"

	"scorescan/internal/imageprep"
	"scorescan/internal/logging"
	"scorescan/internal/music"
	"scorescan/internal/services/vision"
	"scorescan/internal/strategy"
)

// TextExtractor pulls the full-page text block off a photo.
type TextExtractor interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// PieceIdentifier resolves OCR text into a piece identity.
type PieceIdentifier interface {
	Identify(ctx context.Context, ocrText string) (music.PieceIdentity, error)
}

// StrategyPlanner derives the ordered query list for a piece.
type StrategyPlanner interface {
	Generate(piece music.PieceIdentity, instrument string) []music.SearchStrategy
}

// VideoFinder executes the strategies and merges candidate videos.
type VideoFinder interface {
	Discover(ctx context.Context, strategies []music.SearchStrategy) ([]music.CandidateVideo, error)
}

// AccuracyRanker orders candidates best first, degrading internally
// rather than failing.
type AccuracyRanker interface {
	Rank(ctx context.Context, videos []music.CandidateVideo, piece music.PieceIdentity, instrument string) []music.CandidateVideo
}

// Selector applies the final top-N cut over the ranked list.
type Selector func(ranked []music.CandidateVideo, maxVideos int, threshold float64) []music.CandidateVideo

// Request is one scan invocation.
type Request struct {
	Image      []byte
	Instrument string
}

// Config carries the selection policy knobs.
type Config struct {
	MaxVideos             int
	HighAccuracyThreshold float64
}

// Scanner runs the full pipeline. Stages execute sequentially; the only
// state shared between requests lives inside the video finder's
// credential rotation.
type Scanner struct {
	extractor  TextExtractor
	identifier PieceIdentifier
	planner    StrategyPlanner
	finder     VideoFinder
	ranker     AccuracyRanker
	selector   Selector
	cfg        Config
	logger     *slog.Logger
}

// New assembles a Scanner from its stages.
func New(extractor TextExtractor, identifier PieceIdentifier, planner StrategyPlanner, finder VideoFinder, ranker AccuracyRanker, selector Selector, cfg Config, logger *slog.Logger) *Scanner {
	if cfg.MaxVideos <= 0 {
		cfg.MaxVideos = 5
	}
	if cfg.HighAccuracyThreshold <= 0 {
		cfg.HighAccuracyThreshold = 6.0
	}
	return &Scanner{
		extractor:  extractor,
		identifier: identifier,
		planner:    planner,
		finder:     finder,
		ranker:     ranker,
		selector:   selector,
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "scanner"),
	}
}

// Scan runs the pipeline to completion or to its first fatal failure.
// Fatal failures come back as a classified *Error; use ErrorEnvelope to
// translate one into the uniform response shape.
func (s *Scanner) Scan(ctx context.Context, req Request) (*music.ScanResult, error) {
	instrument := strategy.NormalizeInstrument(req.Instrument)
	s.logger.Info("scan started",
		logging.String("instrument", instrument),
		logging.Int("image_bytes", len(req.Image)))

	optimized := imageprep.Optimize(req.Image, s.logger)

	text, err := s.extractor.DetectText(ctx, optimized)
	if err != nil {
		if errors.Is(err, vision.ErrNoText) {
			return nil, Fail(KindNoReadableText, "No readable text found in image", err)
		}
		return nil, Fail(KindExtraction, "Text extraction failed", err)
	}
	s.logger.Debug("text extracted", logging.Int("characters", len(text)))

	piece, err := s.identifier.Identify(ctx, text)
	if err != nil {
		return nil, err
	}
	if piece.Confidence == music.ConfidenceLow {
		reason := piece.Reasoning
		if reason == "" {
			reason = "Identification confidence too low"
		}
		return nil, Fail(KindLowConfidence, reason, nil)
	}

	strategies := s.planner.Generate(piece, instrument)

	videos, err := s.finder.Discover(ctx, strategies)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, Fail(KindNoVideosFound, "No videos found on YouTube - try checking your internet connection", nil)
	}

	ranked := s.ranker.Rank(ctx, videos, piece, instrument)
	selected := s.selector(ranked, s.cfg.MaxVideos, s.cfg.HighAccuracyThreshold)

	s.logger.Info("scan complete",
		logging.String("title", piece.Title),
		logging.String("composer", piece.Composer),
		logging.Int("videos", len(selected)))

	return &music.ScanResult{Piece: piece, Videos: selected}, nil
}

// ErrorEnvelope renders a fatal failure as the uniform response shape: an
// empty identity at low confidence whose reasoning carries the message,
// and no videos.
func ErrorEnvelope(err error) *music.ScanResult {
	return &music.ScanResult{
		Piece: music.PieceIdentity{
			Confidence: music.ConfidenceLow,
			Reasoning:  ReasonOf(err),
		},
		Videos: []music.CandidateVideo{},
	}
}
