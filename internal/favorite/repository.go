package favorite

import (
	"context"

	"github.com/fp-foodie-finder/server/internal/model"
	"github.com/fp-foodie-finder/server/internal/shared/apperr"
	"github.com/fp-foodie-finder/server/internal/shared/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	AddFavorite(ctx context.Context, f *model.Favorite) (string, error)
	ListFavoritesByUser(ctx context.Context, userID string) ([]model.Favorite, error)
	FindByID(ctx context.Context, id string) (*model.Favorite, error)
	DeleteOne(ctx context.Context, id string) error
}

type repo struct {
	store *db.Store
}

func NewRepository(store *db.Store) Repository { return &repo{store: store} }

func (r *repo) AddFavorite(ctx context.Context, f *model.Favorite) (string, error) {
	if err := r.store.Base.WithContext(ctx).Omit(clause.Associations).Create(f).Error; err != nil {
		return "", errors.Wrap(err, "add favorite")
	}
	return f.ID, nil
}

func (r *repo) ListFavoritesByUser(ctx context.Context, userID string) ([]model.Favorite, error) {
	favs := make([]model.Favorite, 0)
	err := r.store.Base.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favs).Error
	if err != nil {
		return nil, errors.Wrap(err, "list favorites")
	}
	return favs, nil
}

func (r *repo) FindByID(ctx context.Context, id string) (*model.Favorite, error) {
	var f model.Favorite
	err := r.store.Base.WithContext(ctx).Where("id = ?", id).Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find favorite")
	}
	return &f, nil
}

func (r *repo) DeleteOne(ctx context.Context, id string) error {
	res := r.store.Base.WithContext(ctx).Where("id = ?", id).Delete(&model.Favorite{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete favorite")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound)
	}
	return nil
}
