// Package music holds the domain model shared by the scan pipeline:
// the identified piece, the search strategies derived from it, and the
// candidate videos that come back from discovery and ranking.
package music

import "strings"

// Confidence is the identifier's self-reported certainty level.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// PieceIdentity is the structured description of the piece the pipeline
// believes the photographed page represents. It is built once per scan and
// never mutated afterward.
type PieceIdentity struct {
	Title           string     `json:"title"`
	Composer        string     `json:"composer"`
	SceneOrMovement string     `json:"scene_movement"`
	Confidence      Confidence `json:"confidence"`
	Reasoning       string     `json:"reasoning"`
}

// HasScene reports whether a specific scene or movement was identified.
func (p PieceIdentity) HasScene() bool {
	return strings.TrimSpace(p.SceneOrMovement) != ""
}

// StrategyLabel names one of the fixed query-construction templates.
type StrategyLabel string

const (
	StrategyBasic         StrategyLabel = "basic"
	StrategyScene         StrategyLabel = "scene"
	StrategyEnsemble      StrategyLabel = "ensemble"
	StrategyEnsembleScene StrategyLabel = "ensemble_scene"
)

// SearchStrategy is a single query issued against the video platform,
// tagged with the template that produced it.
type SearchStrategy struct {
	Query string
	Label StrategyLabel
}

// CandidateVideo is one discovered performance video. The five score
// fields stay at zero until the ranker attaches them.
type CandidateVideo struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Channel         string        `json:"channel"`
	URL             string        `json:"url"`
	Views           int64         `json:"views"`
	Likes           int64         `json:"likes"`
	Duration        string        `json:"duration"`
	DurationSeconds int64         `json:"duration_seconds"`
	SearchStrategy  StrategyLabel `json:"search_strategy"`

	TitleMatchScore    float64 `json:"title_match_score"`
	ComposerMatchScore float64 `json:"composer_match_score"`
	SceneMatchScore    float64 `json:"scene_match_score"`
	DurationMatchScore float64 `json:"duration_match_score"`
	OverallScore       float64 `json:"overall_accuracy_score"`
}

// ScanResult is the response envelope returned to callers. Failure
// responses use the same shape with an empty video list and a low
// confidence identity carrying the human-readable reason.
type ScanResult struct {
	Piece  PieceIdentity    `json:"piece_identification"`
	Videos []CandidateVideo `json:"videos"`
}

// CompositeScore recomputes the declared overall weighting
// (0.35 title + 0.35 composer + 0.15 scene + 0.15 duration).
//
// The externally supplied overall score remains authoritative in
// production output; this helper exists for drift detection in tests.
func CompositeScore(v CandidateVideo) float64 {
	return 0.35*v.TitleMatchScore + 0.35*v.ComposerMatchScore +
		0.15*v.SceneMatchScore + 0.15*v.DurationMatchScore
}
