package rank

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"scorescan/internal/music"
)

type stubCompleter struct {
	response string
	err      error
	prompt   string
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func candidates(n int) []music.CandidateVideo {
	videos := make([]music.CandidateVideo, 0, n)
	for i := 0; i < n; i++ {
		videos = append(videos, music.CandidateVideo{
			ID:    fmt.Sprintf("video%06d", i),
			Title: fmt.Sprintf("Performance %d", i),
			Views: int64((i + 1) * 100),
		})
	}
	return videos
}

func scoresJSON(overall map[string]float64) string {
	var b strings.Builder
	b.WriteString("[")
	first := true
	for id, score := range overall {
		if !first {
			b.WriteString(",")
		}
		first = false
		fmt.Fprintf(&b, `{"video_id":%q,"title_match_score":%.1f,"composer_match_score":%.1f,"scene_match_score":5.0,"duration_match_score":5.0,"overall_accuracy_score":%.1f}`,
			id, score, score, score)
	}
	b.WriteString("]")
	return b.String()
}

var testPiece = music.PieceIdentity{Title: "Solo de concours", Composer: "Messager", Confidence: music.ConfidenceHigh}

func TestRankOrdersByOverallScore(t *testing.T) {
	videos := candidates(3)
	stub := &stubCompleter{response: scoresJSON(map[string]float64{
		"video000000": 4.0,
		"video000001": 9.0,
		"video000002": 7.5,
	})}
	ranker := New(stub, nil)

	ranked := ranker.Rank(context.Background(), videos, testPiece, "clarinet")
	if ranked[0].ID != "video000001" || ranked[1].ID != "video000002" || ranked[2].ID != "video000000" {
		t.Fatalf("unexpected order: %s %s %s", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
	if ranked[0].OverallScore != 9.0 {
		t.Errorf("score not applied: %v", ranked[0].OverallScore)
	}
	// Input slice must not be reordered.
	if videos[0].ID != "video000000" {
		t.Error("input slice mutated")
	}
}

func TestRankSceneScoreBreaksTies(t *testing.T) {
	videos := candidates(2)
	stub := &stubCompleter{response: `[
		{"video_id":"video000000","title_match_score":8,"composer_match_score":8,"scene_match_score":3,"duration_match_score":8,"overall_accuracy_score":7.5},
		{"video_id":"video000001","title_match_score":8,"composer_match_score":8,"scene_match_score":9,"duration_match_score":8,"overall_accuracy_score":7.5}
	]`}
	ranker := New(stub, nil)

	ranked := ranker.Rank(context.Background(), videos, testPiece, "clarinet")
	if ranked[0].ID != "video000001" {
		t.Fatalf("scene match should win the tie, got %s first", ranked[0].ID)
	}
}

func TestRankFallsBackToViewsOnModelFailure(t *testing.T) {
	videos := candidates(3)
	stub := &stubCompleter{err: errors.New("timeout")}
	ranker := New(stub, nil)

	ranked := ranker.Rank(context.Background(), videos, testPiece, "clarinet")
	if ranked[0].Views != 300 || ranked[1].Views != 200 || ranked[2].Views != 100 {
		t.Fatalf("expected views-descending fallback, got %v %v %v", ranked[0].Views, ranked[1].Views, ranked[2].Views)
	}
	for _, v := range ranked {
		if v.OverallScore != 0 {
			t.Errorf("fallback must leave scores at zero, got %v", v.OverallScore)
		}
	}
}

func TestRankFallsBackOnMalformedScores(t *testing.T) {
	videos := candidates(2)
	stub := &stubCompleter{response: "no structured output here"}
	ranker := New(stub, nil)

	ranked := ranker.Rank(context.Background(), videos, testPiece, "clarinet")
	if len(ranked) != 2 || ranked[0].Views != 200 {
		t.Fatalf("expected views fallback, got %+v", ranked)
	}
}

func TestRankFallsBackWhenEntryOmitsScoreFields(t *testing.T) {
	videos := []music.CandidateVideo{
		{ID: "aaaaaaaaaaa", Views: 10},
		{ID: "bbbbbbbbbbb", Views: 9000},
	}
	// A known id without any score fields violates the output contract.
	stub := &stubCompleter{response: `[{"video_id":"aaaaaaaaaaa"}]`}
	ranker := New(stub, nil)

	ranked := ranker.Rank(context.Background(), videos, testPiece, "clarinet")
	if ranked[0].ID != "bbbbbbbbbbb" {
		t.Fatalf("expected views-descending fallback order, got %s first", ranked[0].ID)
	}
	for _, v := range ranked {
		if v.OverallScore != 0 {
			t.Errorf("fallback must leave scores at zero, got %v", v.OverallScore)
		}
	}
}

func TestRankFallsBackWhenEntryOmitsOneScoreField(t *testing.T) {
	videos := candidates(2)
	stub := &stubCompleter{response: `[
		{"video_id":"video000000","title_match_score":8,"composer_match_score":8,"scene_match_score":5,"duration_match_score":8,"overall_accuracy_score":7.4},
		{"video_id":"video000001","title_match_score":8,"composer_match_score":8,"scene_match_score":5,"duration_match_score":8}
	]`}
	ranker := New(stub, nil)

	ranked := ranker.Rank(context.Background(), videos, testPiece, "clarinet")
	if ranked[0].Views != 200 || ranked[0].OverallScore != 0 {
		t.Fatalf("expected views fallback with zero scores, got %+v", ranked[0])
	}
}

func TestRankIgnoresScoresForUnknownIDs(t *testing.T) {
	videos := candidates(1)
	stub := &stubCompleter{response: scoresJSON(map[string]float64{
		"video000000": 8.0,
		"stranger123": 9.9,
	})}
	ranker := New(stub, nil)

	ranked := ranker.Rank(context.Background(), videos, testPiece, "clarinet")
	if len(ranked) != 1 || ranked[0].OverallScore != 8.0 {
		t.Fatalf("unexpected result %+v", ranked)
	}
}

func TestRankPromptCarriesPieceAndRubric(t *testing.T) {
	stub := &stubCompleter{response: "[]"}
	ranker := New(stub, nil)
	piece := music.PieceIdentity{Title: "Carmen", Composer: "Bizet", SceneOrMovement: "Habanera"}

	ranker.Rank(context.Background(), candidates(1), piece, "flute")
	for _, want := range []string{`"Carmen"`, `"Bizet"`, "Habanera", "title_match_score * 0.35", "< 90 seconds"} {
		if !strings.Contains(stub.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestRankPromptDefaultSceneRubric(t *testing.T) {
	stub := &stubCompleter{response: "[]"}
	ranker := New(stub, nil)

	ranker.Rank(context.Background(), candidates(1), testPiece, "clarinet")
	if !strings.Contains(stub.prompt, "Default score (no scene to match)") {
		t.Error("prompt missing no-scene default rubric")
	}
}

func TestCompositeScoreMatchesDeclaredWeights(t *testing.T) {
	video := music.CandidateVideo{
		TitleMatchScore:    8,
		ComposerMatchScore: 9,
		SceneMatchScore:    5,
		DurationMatchScore: 7,
	}
	want := 0.35*8 + 0.35*9 + 0.15*5 + 0.15*7
	if got := music.CompositeScore(video); math.Abs(got-want) > 1e-9 {
		t.Fatalf("CompositeScore = %v, want %v", got, want)
	}
}

func TestSelectPrefersHighAccuracyWhenEnough(t *testing.T) {
	ranked := make([]music.CandidateVideo, 8)
	for i := range ranked {
		ranked[i].ID = fmt.Sprintf("video%06d", i)
		ranked[i].OverallScore = 9.0 - float64(i)
	}
	// Scores 9..2: six clear the 6.0 threshold.
	selected := Select(ranked, 5, 6.0)
	if len(selected) != 5 {
		t.Fatalf("expected 5 videos, got %d", len(selected))
	}
	for _, v := range selected {
		if v.OverallScore < 6.0 {
			t.Errorf("selected video below threshold: %+v", v)
		}
	}
}

func TestSelectFillsFromFullListWhenTooFewAccurate(t *testing.T) {
	ranked := []music.CandidateVideo{
		{ID: "aaaaaaaaaaa", OverallScore: 7.0},
		{ID: "bbbbbbbbbbb", OverallScore: 5.0},
		{ID: "ccccccccccc", OverallScore: 3.0},
	}
	selected := Select(ranked, 5, 6.0)
	if len(selected) != 3 {
		t.Fatalf("expected all 3 videos, got %d", len(selected))
	}
}

func TestSelectCapsAtMax(t *testing.T) {
	ranked := make([]music.CandidateVideo, 7)
	for i := range ranked {
		ranked[i].OverallScore = 1.0
	}
	if got := len(Select(ranked, 5, 6.0)); got != 5 {
		t.Fatalf("expected cap at 5, got %d", got)
	}
}

func TestSelectEmpty(t *testing.T) {
	if Select(nil, 5, 6.0) != nil {
		t.Fatal("expected nil for empty input")
	}
}
