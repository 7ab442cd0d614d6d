package favorite

import (
	"context"
	"testing"
	"time"

	"github.com/fp-foodie-finder/server/internal/model"
	"github.com/fp-foodie-finder/server/internal/shared/apperr"
	"github.com/fp-foodie-finder/server/internal/shared/db/dbtest"
	"github.com/fp-foodie-finder/server/internal/shared/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()

	alice := &model.User{Fullname: "Alice", Username: "alice", Email: "alice@a.com", Password: "x"}
	bob := &model.User{Fullname: "Bob", Username: "bob", Email: "bob@a.com", Password: "x"}
	require.NoError(t, store.Base.Create(alice).Error)
	require.NoError(t, store.Base.Create(bob).Error)
	me := jwt.Identity{ID: alice.ID, Username: alice.Username}
	other := jwt.Identity{ID: bob.ID, Username: bob.Username}

	svc := NewService(NewRepository(store))

	post, err := svc.Add(ctx, me, "post-1", AddReq{})
	require.NoError(t, err)
	assert.Equal(t, model.FavoritePost, post.Kind)
	assert.Equal(t, "post-1", post.TargetID)

	require.NoError(t, store.Base.Model(post).Update("created_at", time.Now().Add(-time.Hour)).Error)

	place, err := svc.Add(ctx, me, "ChIJ-place", AddReq{Kind: "place", Title: "Warung", ImageURL: "https://img"})
	require.NoError(t, err)

	_, err = svc.Add(ctx, me, "x", AddReq{Kind: "restaurant"})
	assert.Equal(t, apperr.BadRequest, apperr.KindOf(err))

	_, err = svc.Add(ctx, other, "post-2", AddReq{})
	require.NoError(t, err)

	favs, err := svc.List(ctx, me)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, place.ID, favs[0].ID)
	assert.Equal(t, "Warung", favs[0].Title)
	require.NotNil(t, favs[0].User)
	assert.Equal(t, "alice", favs[0].User.Username)
	assert.Equal(t, post.ID, favs[1].ID)

	err = svc.Remove(ctx, other, place.ID)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	require.NoError(t, svc.Remove(ctx, me, place.ID))
	err = svc.Remove(ctx, me, place.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	favs, err = svc.List(ctx, me)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	favs, err = svc.List(ctx, jwt.Identity{ID: "nobody", Username: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, favs)
	assert.Empty(t, favs)
}
