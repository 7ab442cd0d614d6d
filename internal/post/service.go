package post

import (
	"context"
	"time"

	"github.com/fp-foodie-finder/server/internal/feedcache"
	"github.com/fp-foodie-finder/server/internal/model"
	"github.com/fp-foodie-finder/server/internal/shared/apperr"
	"github.com/fp-foodie-finder/server/internal/shared/jwt"
	"github.com/fp-foodie-finder/server/internal/shared/log"
	"github.com/fp-foodie-finder/server/internal/shared/validate"
)

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type Service interface {
	Create(ctx context.Context, caller jwt.Identity, req CreateReq) (*model.Post, error)
	Feed(ctx context.Context) ([]model.Post, error)
	React(ctx context.Context, caller jwt.Identity, postID string, a Action) error
	Delete(ctx context.Context, caller jwt.Identity, postID string) error
}

type service struct {
	repo   Repository
	users  UserFinder
	cache  feedcache.Cache
	events Publisher
	now    func() time.Time
}

func NewService(r Repository, users UserFinder, cache feedcache.Cache, events Publisher) Service {
	if events == nil {
		events = NewPublisher(nil)
	}
	return &service{repo: r, users: users, cache: cache, events: events, now: time.Now}
}

func (s *service) Create(ctx context.Context, caller jwt.Identity, req CreateReq) (*model.Post, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	author, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, apperr.New(apperr.InvalidToken)
	}

	p := &model.Post{
		ImageURL:    req.ImageURL,
		Description: req.Description,
		AuthorID:    author.ID,
		Like:        []string{},
		Dislike:     []string{},
	}
	if _, err := s.repo.CreateOne(ctx, p); err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx); err != nil {
		return nil, err
	}
	s.publish(ctx, EventCreated, p.ID, caller.ID, "")
	return p, nil
}

func (s *service) Feed(ctx context.Context) ([]model.Post, error) {
	return s.cache.GetOrCompute(ctx, s.repo.FindAllFeed)
}

// React moves the caller's reaction on the post one step. State is kept per
// user id; usernames only appear in the projected like and dislike sets.
func (s *service) React(ctx context.Context, caller jwt.Identity, postID string, a Action) error {
	who, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return err
	}
	if who == nil {
		return apperr.New(apperr.InvalidToken)
	}
	if _, err := s.repo.ApplyReaction(ctx, postID, who.ID, a); err != nil {
		return err
	}
	if err := s.invalidate(ctx); err != nil {
		return err
	}
	s.publish(ctx, EventReacted, postID, caller.ID, a.String())
	return nil
}

// Delete removes a post owned by the caller together with its reactions.
func (s *service) Delete(ctx context.Context, caller jwt.Identity, postID string) error {
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.New(apperr.NotFound)
	}
	if p.AuthorID != caller.ID {
		return apperr.New(apperr.Forbidden)
	}
	if err := s.repo.DeleteOne(ctx, postID); err != nil {
		return err
	}
	if err := s.invalidate(ctx); err != nil {
		return err
	}
	s.publish(ctx, EventDeleted, postID, caller.ID, "")
	return nil
}

func (s *service) invalidate(ctx context.Context) error {
	err := s.cache.Invalidate(ctx)
	if err != nil {
		log.Log.WithError(err).Error("feed cache left stale after post write")
	}
	return err
}

func (s *service) publish(ctx context.Context, typ, postID, userID, reaction string) {
	s.events.Publish(ctx, Event{
		Type:     typ,
		PostID:   postID,
		UserID:   userID,
		Reaction: reaction,
		At:       s.now().UTC(),
	})
}
