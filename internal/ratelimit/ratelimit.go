package ratelimit

import (
	"context"
	"net/http"
	"time"

	"github.com/fp-foodie-finder/server/internal/metrics"
	"github.com/fp-foodie-finder/server/internal/shared/apperr"
	"github.com/fp-foodie-finder/server/internal/shared/httpx"
	"github.com/fp-foodie-finder/server/internal/shared/log"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Counter increments key and returns the count within the current window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisCounter struct{ r *redis.Client }

func (c redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.r.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

type Limiter struct{ c Counter }

func New(r *redis.Client) *Limiter { return &Limiter{c: redisCounter{r: r}} }

func NewWithCounter(c Counter) *Limiter { return &Limiter{c: c} }

func (l *Limiter) AllowSliding(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	n, err := l.c.Incr(ctx, "rl:"+key, window)
	if err != nil {
		return false, 0, err
	}
	return n <= limit, n, nil
}

// LimitHTTP rejects requests over limit per window, keyed by route and client
// IP. A limiter backend failure lets the request through.
func (l *Limiter) LimitHTTP(route string, limit int64, window time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := httpx.ClientIP(r)
		ok, n, err := l.AllowSliding(r.Context(), route+":"+ip, limit, window)
		if err != nil {
			log.Log.WithError(err).WithField("route", route).Warn("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			metrics.RateLimited.WithLabelValues(route).Inc()
			log.Log.WithFields(logrus.Fields{"route": route, "ip": ip, "count": n}).Debug("rate limited")
			httpx.WriteError(w, r, apperr.New(apperr.TooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}
