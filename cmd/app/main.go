package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fp-foodie-finder/server/configs"
	"github.com/fp-foodie-finder/server/internal/assistant"
	"github.com/fp-foodie-finder/server/internal/favorite"
	"github.com/fp-foodie-finder/server/internal/feedcache"
	"github.com/fp-foodie-finder/server/internal/kafka"
	"github.com/fp-foodie-finder/server/internal/media"
	"github.com/fp-foodie-finder/server/internal/migrate"
	"github.com/fp-foodie-finder/server/internal/places"
	"github.com/fp-foodie-finder/server/internal/post"
	"github.com/fp-foodie-finder/server/internal/ratelimit"
	"github.com/fp-foodie-finder/server/internal/server"
	"github.com/fp-foodie-finder/server/internal/shared/db"
	"github.com/fp-foodie-finder/server/internal/shared/jwt"
	"github.com/fp-foodie-finder/server/internal/shared/log"
	"github.com/fp-foodie-finder/server/internal/shared/redisx"
	"github.com/fp-foodie-finder/server/internal/user"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func initOTEL(ctx context.Context, cfg *configs.Config) func(context.Context) error {
	if cfg.OTELEndpoint == "" {
		return func(context.Context) error { return nil }
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.OTELEndpoint), otlptracehttp.WithInsecure())
	if err != nil {
		log.Log.WithError(err).Fatal("otel exporter")
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.OTELServiceName),
		attribute.String("deployment.environment", cfg.AppEnv),
	))
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(cfg.OTELSampleRatio))),
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown
}

func newFeedCache(cfg *configs.Config, rdb *redis.Client) *feedcache.Feed {
	if cfg.FeedCacheDriver == "memory" || rdb == nil {
		b, err := feedcache.NewMemoryBackend(cfg.FeedCacheSize)
		if err != nil {
			log.Log.WithError(err).Fatal("feed cache")
		}
		return feedcache.New(b)
	}
	return feedcache.New(feedcache.NewRedisBackend(rdb))
}

func main() {
	configs.LoadDotEnvs()
	cfg := configs.LoadConfig()
	log.Init(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := initOTEL(ctx, cfg)
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(c)
	}()

	// Postgres
	store, err := db.Open(cfg)
	if err != nil {
		log.Log.WithError(err).Fatal("db open")
	}
	defer store.Close()
	if cfg.AutoMigrate {
		if err := migrate.AutoMigrateAll(store); err != nil {
			log.Log.WithError(err).Fatal("migrate")
		}
	}

	// Redis backs the feed cache and the proxy rate limiter.
	var rdb *redis.Client
	if cfg.FeedCacheDriver != "memory" {
		rdb, err = redisx.Open(ctx, cfg)
		if err != nil {
			log.Log.WithError(err).Fatal("redis")
		}
		defer rdb.Close()
	}

	// Kafka is optional.
	var events kafka.Writer
	if cfg.KafkaBrokers != "" {
		events, err = kafka.NewWriter(cfg.KafkaBrokers, cfg.PostsTopic)
		if err != nil {
			log.Log.WithError(err).Fatal("kafka writer")
		}
		defer events.Close()
	}

	signer := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	userRepo := user.NewRepository(store)
	outbound := &http.Client{
		Timeout:   15 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	deps := server.Deps{
		Users:     user.NewService(userRepo, signer),
		Posts:     post.NewService(post.NewRepository(store), userRepo, newFeedCache(cfg, rdb), post.NewPublisher(events)),
		Favorites: favorite.NewService(favorite.NewRepository(store)),
		Places:    places.NewClient(cfg.PlacesURL, cfg.PlacesAPIKey, outbound),
		Assistant: assistant.NewClient(cfg.AIURL, cfg.AIKey, cfg.AIHost, outbound),
		Tokens:    signer,
	}
	if rdb != nil {
		deps.Limiter = ratelimit.New(rdb)
		deps.ProxyLimit = cfg.ProxyLimit
	}
	if cfg.S3Endpoint != "" {
		st, err := media.NewStorage(media.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Log.WithError(err).Fatal("media storage")
		}
		if err := st.EnsureBucket(ctx); err != nil {
			log.Log.WithError(err).Fatal("media bucket")
		}
		deps.Media = st
	}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           otelhttp.NewHandler(server.NewRouter(deps), "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(c)
	}()

	log.Log.WithField("addr", cfg.AppPort).Info("foodie-finder listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Log.WithError(err).Fatal("server")
	}
}
