package user

import (
	"context"

	"github.com/fp-foodie-finder/server/internal/model"
	"github.com/fp-foodie-finder/server/internal/shared/apperr"
	"github.com/fp-foodie-finder/server/internal/shared/jwt"
	"github.com/fp-foodie-finder/server/internal/shared/validate"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type TokenMaker interface {
	Make(id jwt.Identity) (string, error)
}

type Service interface {
	Register(ctx context.Context, req RegisterReq) (*model.User, error)
	Login(ctx context.Context, req LoginReq) (string, error)
	UpdatePreference(ctx context.Context, caller jwt.Identity, id string, req PreferenceReq) (string, error)
	Profile(ctx context.Context, id string) ([]model.UserPostRow, error)
}

type service struct {
	repo   Repository
	tokens TokenMaker
	cost   int
}

func NewService(r Repository, tokens TokenMaker) Service {
	return &service{repo: r, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (s *service) Register(ctx context.Context, req RegisterReq) (*model.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	exist, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, apperr.New(apperr.ExistEmail)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	u := &model.User{
		Fullname:   req.Fullname,
		Username:   req.Username,
		Email:      req.Email,
		Password:   string(hash),
		Preference: req.Preference,
	}
	if _, err := s.repo.CreateOne(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, req LoginReq) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", err
	}
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", apperr.New(apperr.InvalidLogin)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return "", apperr.New(apperr.InvalidLogin)
	}
	return s.tokens.Make(jwt.Identity{ID: u.ID, Username: u.Username})
}

// UpdatePreference lets a user change only their own preference.
func (s *service) UpdatePreference(ctx context.Context, caller jwt.Identity, id string, req PreferenceReq) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", err
	}
	if caller.ID != id {
		return "", apperr.New(apperr.Forbidden)
	}
	if err := s.repo.UpdatePreference(ctx, id, req.Preference); err != nil {
		return "", err
	}
	return req.Preference, nil
}

func (s *service) Profile(ctx context.Context, id string) ([]model.UserPostRow, error) {
	return s.repo.FindPostsByUserID(ctx, id)
}
