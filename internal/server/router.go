package server

import (
	"net/http"
	"time"

	"github.com/fp-foodie-finder/server/internal/assistant"
	"github.com/fp-foodie-finder/server/internal/favorite"
	"github.com/fp-foodie-finder/server/internal/media"
	"github.com/fp-foodie-finder/server/internal/places"
	"github.com/fp-foodie-finder/server/internal/post"
	"github.com/fp-foodie-finder/server/internal/ratelimit"
	"github.com/fp-foodie-finder/server/internal/shared/apperr"
	"github.com/fp-foodie-finder/server/internal/shared/httpx"
	"github.com/fp-foodie-finder/server/internal/user"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Users     user.Service
	Posts     post.Service
	Favorites favorite.Service
	Places    places.Searcher
	Assistant assistant.Asker
	Tokens    httpx.TokenParser

	// optional
	Media      media.ObjectStore
	Limiter    *ratelimit.Limiter
	ProxyLimit int64
}

func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		httpx.Message(w, "Welcome to our api", http.StatusOK)
	})
	// unmatched paths and methods get the same JSON shape as every other error
	mux.Handle("/", httpx.Wrap(func(http.ResponseWriter, *http.Request) error {
		return apperr.New(apperr.NotFound)
	}))

	uh := user.NewHandler(d.Users)
	mux.Handle("POST /register", httpx.Wrap(uh.Register))
	mux.Handle("POST /login", httpx.Wrap(uh.Login))

	limited := func(route string, h http.Handler) http.Handler {
		if d.Limiter == nil || d.ProxyLimit <= 0 {
			return h
		}
		return d.Limiter.LimitHTTP(route, d.ProxyLimit, time.Minute, h)
	}
	mux.Handle("POST /maps", limited("maps", httpx.Wrap(places.NewHandler(d.Places).Search)))
	mux.Handle("POST /ai", limited("ai", httpx.Wrap(assistant.NewHandler(d.Assistant).Ask)))

	auth := httpx.Auth(d.Tokens)
	protect := func(pattern string, h httpx.HandlerFunc) {
		mux.Handle(pattern, auth(httpx.Wrap(h)))
	}

	ph := post.NewHandler(d.Posts)
	protect("POST /post", ph.Create)
	protect("GET /post", ph.Feed)
	protect("GET /post/{id}", uh.PostsOf)
	protect("DELETE /post/{id}", ph.Delete)
	protect("PUT /like/{id}", ph.React(post.Like))
	protect("PUT /unlike/{id}", ph.React(post.Unlike))
	protect("PUT /dislike/{id}", ph.React(post.Dislike))
	protect("PUT /undislike/{id}", ph.React(post.Undislike))

	fh := favorite.NewHandler(d.Favorites)
	protect("POST /favorite/{idx}", fh.Add)
	protect("GET /favorite", fh.List)
	protect("DELETE /favorite/{id}", fh.Remove)

	protect("PUT /user/{id}", uh.UpdatePreference)
	protect("GET /user", uh.Me)

	if d.Media != nil {
		protect("POST /media/upload", media.NewHandler(d.Media).Upload)
	}

	return httpx.RequestLogger(mux)
}
