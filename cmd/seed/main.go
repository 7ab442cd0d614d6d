package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/fp-foodie-finder/server/configs"
	"github.com/fp-foodie-finder/server/internal/feedcache"
	"github.com/fp-foodie-finder/server/internal/migrate"
	"github.com/fp-foodie-finder/server/internal/model"
	"github.com/fp-foodie-finder/server/internal/post"
	"github.com/fp-foodie-finder/server/internal/shared/apperr"
	"github.com/fp-foodie-finder/server/internal/shared/db"
	"github.com/fp-foodie-finder/server/internal/shared/jwt"
	"github.com/fp-foodie-finder/server/internal/shared/log"
	"github.com/fp-foodie-finder/server/internal/shared/redisx"
	"github.com/fp-foodie-finder/server/internal/user"

	"github.com/brianvoe/gofakeit/v6"
)

const password = "123456"

var (
	numUsers = flag.Int("users", 10, "fake users to register")
	numPosts = flag.Int("posts", 3, "posts per user")
)

func main() {
	flag.Parse()
	configs.LoadDotEnvs()
	cfg := configs.LoadConfig()
	log.Init(cfg.AppEnv, cfg.LogLevel)
	gofakeit.Seed(time.Now().UnixNano())
	ctx := context.Background()

	store, err := db.Open(cfg)
	if err != nil {
		log.Log.WithError(err).Fatal("db open")
	}
	defer store.Close()
	if err := migrate.AutoMigrateAll(store); err != nil {
		log.Log.WithError(err).Fatal("migrate")
	}

	// The running server reads the feed through this cache, so the seeder
	// invalidates the same one.
	var cache feedcache.Cache
	if cfg.FeedCacheDriver == "memory" {
		b, _ := feedcache.NewMemoryBackend(1)
		cache = feedcache.New(b)
	} else {
		rdb, err := redisx.Open(ctx, cfg)
		if err != nil {
			log.Log.WithError(err).Fatal("redis")
		}
		defer rdb.Close()
		cache = feedcache.New(feedcache.NewRedisBackend(rdb))
	}

	userRepo := user.NewRepository(store)
	users := user.NewService(userRepo, jwt.New(cfg.JWTSecret, cfg.JWTTTL))
	posts := post.NewService(post.NewRepository(store), userRepo, cache, nil)

	var ids []jwt.Identity
	for i := 0; i < *numUsers; i++ {
		u, err := users.Register(ctx, user.RegisterReq{
			Fullname:   gofakeit.Name(),
			Username:   gofakeit.Username(),
			Email:      gofakeit.Email(),
			Password:   password,
			Preference: gofakeit.RandomString([]string{"spicy", "vegetarian", "seafood", "street food", "desserts"}),
		})
		if apperr.IsKind(err, apperr.ExistEmail) {
			log.Log.WithError(err).Warn("register skipped")
			continue
		}
		if err != nil {
			log.Log.WithError(err).Fatal("register")
		}
		ids = append(ids, jwt.Identity{ID: u.ID, Username: u.Username})
		log.Log.WithField("email", u.Email).Info("user seeded")
	}

	var created []*model.Post
	for _, who := range ids {
		for j := 0; j < *numPosts; j++ {
			p, err := posts.Create(ctx, who, post.CreateReq{
				ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/640/480", gofakeit.UUID()),
				Description: gofakeit.Sentence(12),
			})
			if err != nil {
				log.Log.WithError(err).Fatal("create post")
			}
			created = append(created, p)
		}
	}

	actions := []post.Action{post.Like, post.Like, post.Dislike, post.Unlike}
	for _, p := range created {
		for _, who := range ids {
			if !gofakeit.Bool() {
				continue
			}
			a := actions[gofakeit.Number(0, len(actions)-1)]
			if err := posts.React(ctx, who, p.ID, a); err != nil {
				log.Log.WithError(err).Fatal("react")
			}
		}
	}

	log.Log.WithField("users", len(ids)).WithField("posts", len(created)).
		Infof("seed done, every user logs in with password %q", password)
}
