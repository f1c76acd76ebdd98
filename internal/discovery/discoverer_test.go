package discovery

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"scorescan/internal/music"
	"scorescan/internal/scanner"
	"scorescan/internal/services/youtube"
)

type searchCall struct {
	apiKey string
	query  string
}

type stubAPI struct {
	searchResults map[string][]string
	searchErrs    map[string]error
	perKeyErrs    map[string]error
	detailErr     error
	singleErrs    map[string]error
	searches      []searchCall
	batchSizes    []int
}

func (s *stubAPI) Search(ctx context.Context, apiKey, query string) ([]string, error) {
	s.searches = append(s.searches, searchCall{apiKey: apiKey, query: query})
	if err, ok := s.perKeyErrs[apiKey]; ok && err != nil {
		return nil, err
	}
	if err, ok := s.searchErrs[query]; ok {
		return nil, err
	}
	return s.searchResults[query], nil
}

func (s *stubAPI) VideoDetails(ctx context.Context, apiKey string, ids []string) ([]youtube.Video, error) {
	s.batchSizes = append(s.batchSizes, len(ids))
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	videos := make([]youtube.Video, 0, len(ids))
	for _, id := range ids {
		videos = append(videos, youtube.Video{ID: id, Title: "title " + id, DurationISO: "PT4M33S", Views: 100})
	}
	return videos, nil
}

func (s *stubAPI) SingleVideoDetails(ctx context.Context, apiKey, id string) (*youtube.Video, error) {
	if err, ok := s.singleErrs[id]; ok {
		return nil, err
	}
	return &youtube.Video{ID: id, Title: "single " + id, DurationISO: "PT2M"}, nil
}

func newRotator(t *testing.T, keys ...string) *youtube.KeyRotator {
	t.Helper()
	rotator, err := youtube.NewKeyRotator(keys)
	if err != nil {
		t.Fatalf("NewKeyRotator: %v", err)
	}
	return rotator
}

func strategies(queries ...string) []music.SearchStrategy {
	out := make([]music.SearchStrategy, 0, len(queries))
	for _, q := range queries {
		out = append(out, music.SearchStrategy{Query: q, Label: music.StrategyBasic})
	}
	return out
}

func TestDiscoverMergesAndDedupes(t *testing.T) {
	api := &stubAPI{searchResults: map[string][]string{
		"query one": {"aaaaaaaaaaa", "bbbbbbbbbbb"},
		"query two": {"bbbbbbbbbbb", "ccccccccccc"},
	}}
	disc := New(api, newRotator(t, "k1"), nil)

	videos, err := disc.Discover(context.Background(), strategies("query one", "query two"))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(videos) != 3 {
		t.Fatalf("expected 3 unique videos, got %d", len(videos))
	}
	if videos[0].ID != "aaaaaaaaaaa" || videos[1].ID != "bbbbbbbbbbb" || videos[2].ID != "ccccccccccc" {
		t.Fatalf("first-seen order broken: %+v", videos)
	}
	if videos[0].URL != "https://www.youtube.com/watch?v=aaaaaaaaaaa" {
		t.Errorf("unexpected url %q", videos[0].URL)
	}
	if videos[0].DurationSeconds != 273 || videos[0].Duration != "4:33" {
		t.Errorf("duration not derived: %+v", videos[0])
	}
}

func TestDiscoverDiscardsMalformedIDs(t *testing.T) {
	api := &stubAPI{searchResults: map[string][]string{
		"q": {"short", "aaaaaaaaaaa", "has spaces!"},
	}}
	disc := New(api, newRotator(t, "k1"), nil)

	videos, err := disc.Discover(context.Background(), strategies("q"))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(videos) != 1 || videos[0].ID != "aaaaaaaaaaa" {
		t.Fatalf("expected only the valid id, got %+v", videos)
	}
}

func TestDiscoverRotatesOnQuotaFailure(t *testing.T) {
	api := &stubAPI{
		perKeyErrs:    map[string]error{"k1": &youtube.StatusError{Op: "search", Code: http.StatusForbidden}},
		searchResults: map[string][]string{"q": {"aaaaaaaaaaa"}},
	}
	disc := New(api, newRotator(t, "k1", "k2"), nil)

	videos, err := disc.Discover(context.Background(), strategies("q"))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 video after rotation, got %d", len(videos))
	}
	if len(api.searches) != 2 || api.searches[0].apiKey != "k1" || api.searches[1].apiKey != "k2" {
		t.Fatalf("unexpected rotation order %+v", api.searches)
	}
}

func TestDiscoverAbandonsStrategyOnOtherStatus(t *testing.T) {
	api := &stubAPI{
		searchErrs: map[string]error{"bad": &youtube.StatusError{Op: "search", Code: http.StatusInternalServerError}},
		searchResults: map[string][]string{
			"good": {"aaaaaaaaaaa"},
		},
	}
	disc := New(api, newRotator(t, "k1", "k2"), nil)

	videos, err := disc.Discover(context.Background(), strategies("bad", "good"))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected the good strategy's video, got %d", len(videos))
	}
	// The 500 must not burn a second key.
	var badCalls int
	for _, call := range api.searches {
		if call.query == "bad" {
			badCalls++
		}
	}
	if badCalls != 1 {
		t.Fatalf("500 should abandon the strategy after one attempt, saw %d", badCalls)
	}
}

func TestDiscoverCredentialsExhausted(t *testing.T) {
	api := &stubAPI{
		perKeyErrs: map[string]error{
			"k1": errors.New("dial tcp: connection refused"),
			"k2": errors.New("dial tcp: connection refused"),
		},
	}
	disc := New(api, newRotator(t, "k1", "k2"), nil)

	_, err := disc.Discover(context.Background(), strategies("q"))
	if scanner.KindOf(err) != scanner.KindCredentialsExhausted {
		t.Fatalf("expected credentials_exhausted, got %v", err)
	}
}

func TestDiscoverPartialExhaustionIsNotFatal(t *testing.T) {
	api := &stubAPI{
		searchErrs:    map[string]error{"dead": errors.New("dial tcp: connection refused")},
		searchResults: map[string][]string{"alive": {"aaaaaaaaaaa"}},
	}
	disc := New(api, newRotator(t, "k1"), nil)

	videos, err := disc.Discover(context.Background(), strategies("dead", "alive"))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected surviving strategy's video, got %d", len(videos))
	}
}

func TestFetchDetailsBatchesOfFive(t *testing.T) {
	ids := []string{
		"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc", "ddddddddddd",
		"eeeeeeeeeee", "fffffffffff", "ggggggggggg",
	}
	api := &stubAPI{searchResults: map[string][]string{"q": ids}}
	disc := New(api, newRotator(t, "k1"), nil)

	videos, err := disc.Discover(context.Background(), strategies("q"))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(videos) != 7 {
		t.Fatalf("expected 7 videos, got %d", len(videos))
	}
	if len(api.batchSizes) != 2 || api.batchSizes[0] != 5 || api.batchSizes[1] != 2 {
		t.Fatalf("unexpected batch sizes %v", api.batchSizes)
	}
}

func TestFetchDetailsFallsBackToSingles(t *testing.T) {
	api := &stubAPI{
		searchResults: map[string][]string{"q": {"aaaaaaaaaaa", "bbbbbbbbbbb"}},
		detailErr:     &youtube.StatusError{Op: "videos", Code: http.StatusBadRequest},
		singleErrs:    map[string]error{"bbbbbbbbbbb": errors.New("no data")},
	}
	disc := New(api, newRotator(t, "k1"), nil)

	videos, err := disc.Discover(context.Background(), strategies("q"))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(videos) != 1 || videos[0].Title != "single aaaaaaaaaaa" {
		t.Fatalf("expected the one recoverable single, got %+v", videos)
	}
}
