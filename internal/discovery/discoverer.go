// Package discovery turns search strategies into a deduplicated pool of
// candidate videos, rotating API keys to survive quota exhaustion.
package discovery

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"scorescan/internal/logging"
	"scorescan/internal/music"
	"scorescan/internal/scanner"
	"scorescan/internal/services/youtube"
)

// defaultDetailBatchSize keeps metadata requests small enough that the
// videos endpoint does not reject the id list.
const defaultDetailBatchSize = 5

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// VideoAPI is the subset of the YouTube client discovery needs.
type VideoAPI interface {
	Search(ctx context.Context, apiKey, query string) ([]string, error)
	VideoDetails(ctx context.Context, apiKey string, ids []string) ([]youtube.Video, error)
	SingleVideoDetails(ctx context.Context, apiKey, id string) (*youtube.Video, error)
}

// Discoverer executes the strategy list sequentially against the video
// platform and merges the results.
type Discoverer struct {
	api       VideoAPI
	rotator   *youtube.KeyRotator
	batchSize int
	logger    *slog.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithDetailBatchSize overrides the metadata batch size.
func WithDetailBatchSize(size int) Option {
	return func(d *Discoverer) {
		if size > 0 {
			d.batchSize = size
		}
	}
}

// New creates a Discoverer over a shared key rotator.
func New(api VideoAPI, rotator *youtube.KeyRotator, logger *slog.Logger, opts ...Option) *Discoverer {
	d := &Discoverer{
		api:       api,
		rotator:   rotator,
		batchSize: defaultDetailBatchSize,
		logger:    logging.NewComponentLogger(logger, "discovery"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover runs every strategy in order and merges the results, keeping
// the first occurrence of each video ID. A strategy that fails is logged
// and skipped; the error return is non-nil only when every strategy
// exhausted the whole credential pool and nothing at all was found.
func (d *Discoverer) Discover(ctx context.Context, strategies []music.SearchStrategy) ([]music.CandidateVideo, error) {
	merged := make([]music.CandidateVideo, 0, 32)
	seen := make(map[string]struct{})
	exhausted := 0

	for _, strat := range strategies {
		videos, err := d.searchSingle(ctx, strat)
		if err != nil {
			if scanner.KindOf(err) == scanner.KindCredentialsExhausted {
				exhausted++
			}
			d.logger.Warn("search strategy failed",
				logging.String(logging.FieldStrategy, string(strat.Label)),
				logging.Error(err))
			continue
		}
		for _, video := range videos {
			if _, dup := seen[video.ID]; dup {
				continue
			}
			seen[video.ID] = struct{}{}
			merged = append(merged, video)
		}
		d.logger.Info("search strategy complete",
			logging.String(logging.FieldStrategy, string(strat.Label)),
			logging.Int("videos", len(videos)))
	}

	if len(merged) == 0 && exhausted > 0 && exhausted == len(strategies) {
		return nil, scanner.Fail(scanner.KindCredentialsExhausted,
			"All video search credentials are exhausted, please try again later", nil)
	}

	d.logger.Info("discovery complete", logging.Int("unique_videos", len(merged)))
	return merged, nil
}

// searchSingle issues one query, rotating through the key pool on
// quota failures. A transport failure on the final key means the pool is
// spent for this query.
func (d *Discoverer) searchSingle(ctx context.Context, strat music.SearchStrategy) ([]music.CandidateVideo, error) {
	poolSize := d.rotator.Size()
	for attempt := 0; attempt < poolSize; attempt++ {
		apiKey := d.rotator.Next()

		ids, err := d.api.Search(ctx, apiKey, strat.Query)
		if err != nil {
			var status *youtube.StatusError
			if errors.As(err, &status) {
				if status.Quota() {
					d.logger.Debug("quota-limited key, rotating",
						logging.String(logging.FieldStrategy, string(strat.Label)),
						logging.Int("status", status.Code))
					continue
				}
				// Any other status abandons the strategy without
				// burning further keys.
				d.logger.Warn("search rejected",
					logging.String(logging.FieldStrategy, string(strat.Label)),
					logging.Int("status", status.Code))
				return nil, nil
			}
			if attempt == poolSize-1 {
				return nil, scanner.Fail(scanner.KindCredentialsExhausted,
					"All video search credentials failed", err)
			}
			continue
		}

		valid := make([]string, 0, len(ids))
		for _, id := range ids {
			if videoIDPattern.MatchString(id) {
				valid = append(valid, id)
			} else {
				d.logger.Warn("discarding malformed video id", logging.String(logging.FieldVideoID, id))
			}
		}
		if len(valid) == 0 {
			return nil, nil
		}
		return d.fetchDetails(ctx, apiKey, valid, strat.Label), nil
	}
	return nil, nil
}

// fetchDetails resolves metadata in small batches. A rejected batch falls
// back to per-video requests; any other batch failure drops that batch.
func (d *Discoverer) fetchDetails(ctx context.Context, apiKey string, ids []string, label music.StrategyLabel) []music.CandidateVideo {
	videos := make([]music.CandidateVideo, 0, len(ids))

	for start := 0; start < len(ids); start += d.batchSize {
		end := min(start+d.batchSize, len(ids))
		batch := ids[start:end]

		fetched, err := d.api.VideoDetails(ctx, apiKey, batch)
		if err == nil {
			for _, item := range fetched {
				videos = append(videos, toCandidate(item, label))
			}
			continue
		}

		var status *youtube.StatusError
		if errors.As(err, &status) && status.Code >= 400 && status.Code < 500 {
			for _, id := range batch {
				single, singleErr := d.api.SingleVideoDetails(ctx, apiKey, id)
				if singleErr != nil {
					d.logger.Warn("single video lookup failed",
						logging.String(logging.FieldVideoID, id),
						logging.Error(singleErr))
					continue
				}
				videos = append(videos, toCandidate(*single, label))
			}
			continue
		}

		d.logger.Warn("video details batch failed", logging.Error(err))
	}
	return videos
}

func toCandidate(item youtube.Video, label music.StrategyLabel) music.CandidateVideo {
	seconds := youtube.ParseDuration(item.DurationISO)
	return music.CandidateVideo{
		ID:              item.ID,
		Title:           item.Title,
		Channel:         item.Channel,
		URL:             "https://www.youtube.com/watch?v=" + item.ID,
		Views:           item.Views,
		Likes:           item.Likes,
		Duration:        youtube.FormatDuration(seconds),
		DurationSeconds: seconds,
		SearchStrategy:  label,
	}
}
