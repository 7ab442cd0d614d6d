package user

import (
	"context"

	"github.com/fp-foodie-finder/server/internal/model"
	"github.com/fp-foodie-finder/server/internal/shared/apperr"
	"github.com/fp-foodie-finder/server/internal/shared/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Repository interface {
	CreateOne(ctx context.Context, u *model.User) (string, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdatePreference(ctx context.Context, id, preference string) error
	FindPostsByUserID(ctx context.Context, id string) ([]model.UserPostRow, error)
}

type repo struct {
	store *db.Store
}

func NewRepository(store *db.Store) Repository { return &repo{store: store} }

func (r *repo) CreateOne(ctx context.Context, u *model.User) (string, error) {
	err := r.store.Base.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", apperr.Wrap(apperr.ExistEmail, err)
	}
	if err != nil {
		return "", errors.Wrap(err, "create user")
	}
	return u.ID, nil
}

func (r *repo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *repo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repo) first(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.store.Base.WithContext(ctx).Where(query, arg).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return &u, nil
}

func (r *repo) UpdatePreference(ctx context.Context, id, preference string) error {
	res := r.store.Base.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("preference", preference)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update preference")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound)
	}
	return nil
}

// FindPostsByUserID returns one row per authored post, newest first. A user
// without posts yields a single row with no post; an unknown user yields none.
func (r *repo) FindPostsByUserID(ctx context.Context, id string) ([]model.UserPostRow, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil || u == nil {
		return []model.UserPostRow{}, err
	}

	var posts []model.Post
	err = r.store.Base.WithContext(ctx).
		Preload("Reactions", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		Preload("Reactions.User").
		Where("author_id = ?", id).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "find user posts")
	}
	if len(posts) == 0 {
		return []model.UserPostRow{{User: *u}}, nil
	}

	rows := make([]model.UserPostRow, 0, len(posts))
	for i := range posts {
		p := posts[i]
		p.FillReactions()
		rows = append(rows, model.UserPostRow{User: *u, Post: &p})
	}
	return rows, nil
}
