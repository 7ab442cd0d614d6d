package favorite

import (
	"context"

	"github.com/fp-foodie-finder/server/internal/model"
	"github.com/fp-foodie-finder/server/internal/shared/apperr"
	"github.com/fp-foodie-finder/server/internal/shared/jwt"
)

type AddReq struct {
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

type Service interface {
	Add(ctx context.Context, caller jwt.Identity, targetID string, req AddReq) (*model.Favorite, error)
	List(ctx context.Context, caller jwt.Identity) ([]model.Favorite, error)
	Remove(ctx context.Context, caller jwt.Identity, id string) error
}

type service struct {
	repo Repository
}

func NewService(r Repository) Service { return &service{repo: r} }

func (s *service) Add(ctx context.Context, caller jwt.Identity, targetID string, req AddReq) (*model.Favorite, error) {
	kind := model.FavoriteKind(req.Kind)
	switch kind {
	case "":
		kind = model.FavoritePost
	case model.FavoritePost, model.FavoritePlace:
	default:
		return nil, apperr.New(apperr.BadRequest)
	}
	if targetID == "" {
		return nil, apperr.New(apperr.BadRequest)
	}
	f := &model.Favorite{
		UserID:   caller.ID,
		TargetID: targetID,
		Kind:     kind,
		Title:    req.Title,
		ImageURL: req.ImageURL,
	}
	if _, err := s.repo.AddFavorite(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) List(ctx context.Context, caller jwt.Identity) ([]model.Favorite, error) {
	return s.repo.ListFavoritesByUser(ctx, caller.ID)
}

// Remove deletes a favorite owned by the caller.
func (s *service) Remove(ctx context.Context, caller jwt.Identity, id string) error {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return apperr.New(apperr.NotFound)
	}
	if f.UserID != caller.ID {
		return apperr.New(apperr.Forbidden)
	}
	return s.repo.DeleteOne(ctx, id)
}
