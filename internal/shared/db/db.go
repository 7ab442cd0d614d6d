package db

import (
	"database/sql"
	"time"

	"github.com/fp-foodie-finder/server/configs"
	"github.com/fp-foodie-finder/server/internal/shared/log"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
	"gorm.io/plugin/opentelemetry/tracing"
)

type Store struct{ Base *gorm.DB }

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
}

// Open connects to the primary with retries, then registers read replicas
// and tracing.
func Open(cfg *configs.Config) (*Store, error) {
	base, err := openWithRetry(cfg.DSN(), 8)
	if err != nil {
		return nil, err
	}

	sqlDB, _ := base.DB()
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if len(cfg.DBReplicas) > 0 {
		var readers []gorm.Dialector
		for _, dsn := range cfg.DBReplicas {
			readers = append(readers, postgres.Open(dsn))
		}
		err := base.Use(dbresolver.Register(dbresolver.Config{
			Replicas: readers,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, errors.Wrap(err, "dbresolver")
		}
		log.Log.WithField("replicas", len(readers)).Info("read replicas registered")
	}

	if err := base.Use(tracing.NewPlugin()); err != nil {
		return nil, errors.Wrap(err, "gorm tracing")
	}
	return &Store{Base: base}, nil
}

// OpenSQLite opens an sqlite database, e.g. "file::memory:?cache=shared" or a
// per-test "file:<name>?mode=memory&cache=shared".
func OpenSQLite(dsn string) (*Store, error) {
	base, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	sqlDB, _ := base.DB()
	sqlDB.SetMaxOpenConns(1)
	// sqlite leaves foreign keys unenforced per connection unless asked.
	if err := base.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, errors.Wrap(err, "sqlite pragma")
	}
	return &Store{Base: base}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.Base.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func openWithRetry(dsn string, attempts int) (*gorm.DB, error) {
	var last error
	sleep := time.Second
	for i := 1; i <= attempts; i++ {
		g, err := gorm.Open(postgres.Open(dsn), gormConfig())
		if err == nil {
			sqlDB, _ := g.DB()
			if err = pingWithTimeout(sqlDB, 2*time.Second); err == nil {
				return g, nil
			}
		}
		last = err
		log.Log.WithError(err).WithField("attempt", i).Warn("db not ready")
		time.Sleep(sleep)
		if sleep < 8*time.Second {
			sleep *= 2
		}
	}
	return nil, errors.Wrapf(last, "db open after %d attempts", attempts)
}

func pingWithTimeout(sqlDB *sql.DB, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- sqlDB.Ping() }()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return errors.Errorf("db ping timeout after %s", timeout)
	}
}
