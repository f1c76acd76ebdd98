// Package rank orders candidate videos by model-judged accuracy and
// applies the final top-N selection policy.
package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"scorescan/internal/logging"
	"scorescan/internal/music"
	"scorescan/internal/services/llm"
)

// Completer is the subset of the LLM client the ranker needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Ranker scores and orders discovered videos.
type Ranker struct {
	llm    Completer
	logger *slog.Logger
}

// New creates a Ranker.
func New(completer Completer, logger *slog.Logger) *Ranker {
	return &Ranker{
		llm:    completer,
		logger: logging.NewComponentLogger(logger, "rank"),
	}
}

type videoScores struct {
	VideoID            string   `json:"video_id"`
	TitleMatchScore    *float64 `json:"title_match_score"`
	ComposerMatchScore *float64 `json:"composer_match_score"`
	SceneMatchScore    *float64 `json:"scene_match_score"`
	DurationMatchScore *float64 `json:"duration_match_score"`
	OverallScore       *float64 `json:"overall_accuracy_score"`
}

// validate rejects entries that omit any of the five score fields. An
// incomplete scoring response means the model did not follow the output
// contract, so the whole stage degrades rather than trusting partial data.
func (s videoScores) validate() error {
	for name, value := range map[string]*float64{
		"title_match_score":      s.TitleMatchScore,
		"composer_match_score":   s.ComposerMatchScore,
		"scene_match_score":      s.SceneMatchScore,
		"duration_match_score":   s.DurationMatchScore,
		"overall_accuracy_score": s.OverallScore,
	} {
		if value == nil {
			return fmt.Errorf("score entry %q missing %s", s.VideoID, name)
		}
	}
	return nil
}

// Rank asks the scoring model to judge every video against the identified
// piece and returns the list ordered best first. This stage never fails a
// scan: any error anywhere degrades to a views-descending ordering with
// all scores left at zero.
func (r *Ranker) Rank(ctx context.Context, videos []music.CandidateVideo, piece music.PieceIdentity, instrument string) []music.CandidateVideo {
	if len(videos) == 0 {
		return nil
	}

	ranked := make([]music.CandidateVideo, len(videos))
	copy(ranked, videos)

	scores, err := r.score(ctx, ranked, piece, instrument)
	if err != nil {
		r.logger.Warn("accuracy ranking failed, falling back to view count", logging.Error(err))
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Views > ranked[j].Views
		})
		return ranked
	}

	byID := make(map[string]videoScores, len(scores))
	for _, s := range scores {
		byID[s.VideoID] = s
	}
	for i := range ranked {
		if s, ok := byID[ranked[i].ID]; ok {
			ranked[i].TitleMatchScore = *s.TitleMatchScore
			ranked[i].ComposerMatchScore = *s.ComposerMatchScore
			ranked[i].SceneMatchScore = *s.SceneMatchScore
			ranked[i].DurationMatchScore = *s.DurationMatchScore
			ranked[i].OverallScore = *s.OverallScore
		}
	}

	// Scene matches break ties between equally accurate videos.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].OverallScore != ranked[j].OverallScore {
			return ranked[i].OverallScore > ranked[j].OverallScore
		}
		return ranked[i].SceneMatchScore > ranked[j].SceneMatchScore
	})

	r.logger.Info("videos ranked by accuracy", logging.Int("count", len(ranked)))
	return ranked
}

func (r *Ranker) score(ctx context.Context, videos []music.CandidateVideo, piece music.PieceIdentity, instrument string) ([]videoScores, error) {
	prompt, err := buildPrompt(videos, piece, instrument)
	if err != nil {
		return nil, err
	}
	content, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	payload, err := llm.ExtractArray(content)
	if err != nil {
		return nil, err
	}
	var scores []videoScores
	if err := json.Unmarshal([]byte(payload), &scores); err != nil {
		return nil, err
	}
	for _, s := range scores {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	return scores, nil
}

// Select applies the final cut: when at least maxVideos videos clear the
// accuracy threshold, only those count; otherwise the best maxVideos of
// the full ranked list are returned regardless of score.
func Select(ranked []music.CandidateVideo, maxVideos int, threshold float64) []music.CandidateVideo {
	if maxVideos <= 0 || len(ranked) == 0 {
		return nil
	}

	accurate := make([]music.CandidateVideo, 0, len(ranked))
	for _, v := range ranked {
		if v.OverallScore >= threshold {
			accurate = append(accurate, v)
		}
	}
	if len(accurate) >= maxVideos {
		return accurate[:maxVideos]
	}
	if len(ranked) > maxVideos {
		return ranked[:maxVideos]
	}
	return ranked
}
