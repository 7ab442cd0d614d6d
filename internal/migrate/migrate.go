package migrate

import (
	"github.com/fp-foodie-finder/server/internal/model"
	"github.com/fp-foodie-finder/server/internal/shared/db"
)

func AutoMigrateAll(store *db.Store) error {
	return store.Base.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Reaction{},
		&model.Favorite{},
	)
}
