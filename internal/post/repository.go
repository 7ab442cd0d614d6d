package post

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
	CreateOne(ctx context.Context, p *model.Post) (string, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	FindAllFeed(ctx context.Context) ([]model.Post, error)
	ApplyReaction(ctx context.Context, postID, userID string, a Action) (State, error)
	DeleteOne(ctx context.Context, id string) error
}

type repo struct {
	store *db.Store
}

func NewRepository(store *db.Store) Repository { return &repo{store: store} }

func (r *repo) CreateOne(ctx context.Context, p *model.Post) (string, error) {
	if err := r.store.Base.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return "", errors.Wrap(err, "create post")
	}
	return p.ID, nil
}

// FindByID returns nil, nil when the post does not exist.
func (r *repo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.store.Base.WithContext(ctx).Preload("Reactions.User").Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find post")
	}
	p.FillReactions()
	return &p, nil
}

func (r *repo) FindAllFeed(ctx context.Context) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	err := r.store.Base.WithContext(ctx).
		Preload("Author").
		Preload("Reactions", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		Preload("Reactions.User").
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "find feed")
	}
	for i := range posts {
		posts[i].FillReactions()
	}
	return posts, nil
}

func (r *repo) ApplyReaction(ctx context.Context, postID, userID string, a Action) (State, error) {
	var next State
	err := r.store.Base.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Post{}).Where("id = ?", postID).Count(&n).Error; err != nil {
			return errors.Wrap(err, "lookup post")
		}
		if n == 0 {
			return apperr.New(apperr.NotFound)
		}

		var rows []model.Reaction
		if err := tx.Where("post_id = ? AND user_id = ?", postID, userID).Limit(1).Find(&rows).Error; err != nil {
			return errors.Wrap(err, "read reaction")
		}
		cur := Neutral
		if len(rows) > 0 {
			cur = stateOf(rows[0].Kind)
		}

		next = Next(cur, a)
		switch {
		case next == cur:
			return nil
		case next == Neutral:
			err := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.Reaction{}).Error
			return errors.Wrap(err, "delete reaction")
		default:
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
			}).Create(&model.Reaction{PostID: postID, UserID: userID, Kind: kindOf(next)}).Error
			return errors.Wrap(err, "upsert reaction")
		}
	})
	if err != nil {
		return Neutral, err
	}
	return next, nil
}

func (r *repo) DeleteOne(ctx context.Context, id string) error {
	return r.store.Base.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Reaction{}).Error; err != nil {
			return errors.Wrap(err, "delete reactions")
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete post")
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.NotFound)
		}
		return nil
	})
}
