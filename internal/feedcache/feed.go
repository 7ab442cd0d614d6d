package feedcache

import (
	"context"
	"encoding/json"

	"github.com/fp-foodie-finder/server/internal/metrics"
	"github.com/fp-foodie-finder/server/internal/model"
	"github.com/fp-foodie-finder/server/internal/shared/log"

	"github.com/pkg/errors"
)

const Key = "feed:all"

type ComputeFunc func(ctx context.Context) ([]model.Post, error)

// Cache is the whole-feed cache the post service reads through and
// invalidates on every write.
type Cache interface {
	GetOrCompute(ctx context.Context, compute ComputeFunc) ([]model.Post, error)
	Invalidate(ctx context.Context) error
}

type Feed struct {
	backend Backend
}

func New(b Backend) *Feed { return &Feed{backend: b} }

// GetOrCompute serves the cached feed or computes and stores it. Concurrent
// misses may both compute; the last Set wins with an equivalent value.
func (f *Feed) GetOrCompute(ctx context.Context, compute ComputeFunc) ([]model.Post, error) {
	raw, ok, err := f.backend.Get(ctx, Key)
	if err != nil {
		metrics.FeedCacheErrors.WithLabelValues("get").Inc()
		log.Log.WithError(err).Warn("feed cache read failed, recomputing")
	}
	if ok {
		var posts []model.Post
		derr := json.Unmarshal(raw, &posts)
		if derr == nil {
			metrics.FeedCacheHits.Inc()
			return posts, nil
		}
		metrics.FeedCacheErrors.WithLabelValues("decode").Inc()
		log.Log.WithError(derr).Warn("feed cache entry undecodable, recomputing")
	}

	metrics.FeedCacheMisses.Inc()
	posts, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}

	raw, err = json.Marshal(posts)
	if err != nil {
		return nil, errors.Wrap(err, "encode feed")
	}
	if err := f.backend.Set(ctx, Key, raw); err != nil {
		metrics.FeedCacheErrors.WithLabelValues("set").Inc()
		log.Log.WithError(err).Warn("feed cache write failed")
	}
	return posts, nil
}

func (f *Feed) Invalidate(ctx context.Context) error {
	if err := f.backend.Del(ctx, Key); err != nil {
		metrics.FeedCacheErrors.WithLabelValues("del").Inc()
		return errors.Wrap(err, "invalidate feed")
	}
	metrics.FeedCacheInvalidations.Inc()
	return nil
}
