package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fp-foodie-finder/server/internal/favorite"
	"github.com/fp-foodie-finder/server/internal/feedcache"
	"github.com/fp-foodie-finder/server/internal/model"
	"github.com/fp-foodie-finder/server/internal/post"
	"github.com/fp-foodie-finder/server/internal/ratelimit"
	"github.com/fp-foodie-finder/server/internal/shared/db"
	"github.com/fp-foodie-finder/server/internal/shared/db/dbtest"
	"github.com/fp-foodie-finder/server/internal/shared/jwt"
	"github.com/fp-foodie-finder/server/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlaces struct{}

func (stubPlaces) Search(_ context.Context, q string) (json.RawMessage, error) {
	return json.RawMessage(`{"places":[{"displayName":{"text":"` + q + `"}}]}`), nil
}

type stubAssistant struct{}

func (stubAssistant) Ask(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`"eat ramen"`), nil
}

type countingLimiter struct{ n map[string]int64 }

func (c *countingLimiter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.n[key]++
	return c.n[key], nil
}

type app struct {
	h     http.Handler
	store *db.Store
}

func newApp(t *testing.T) *app {
	t.Helper()
	store := dbtest.New(t)
	signer := jwt.New("test-secret", time.Hour)
	mem, err := feedcache.NewMemoryBackend(4)
	require.NoError(t, err)

	users := user.NewRepository(store)
	h := NewRouter(Deps{
		Users:      user.NewService(users, signer),
		Posts:      post.NewService(post.NewRepository(store), users, feedcache.New(mem), nil),
		Favorites:  favorite.NewService(favorite.NewRepository(store)),
		Places:     stubPlaces{},
		Assistant:  stubAssistant{},
		Tokens:     signer,
		Limiter:    ratelimit.NewWithCounter(&countingLimiter{n: map[string]int64{}}),
		ProxyLimit: 2,
	})
	return &app{h: h, store: store}
}

func (a *app) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, r)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func (a *app) signup(t *testing.T, username, email string) (id, token string) {
	t.Helper()
	rec, out := a.do(t, http.MethodPost, "/register", "", map[string]string{
		"fullname": username, "username": username, "email": email, "password": "p", "preference": "x",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id = out["user"].(map[string]any)["id"].(string)

	rec, out = a.do(t, http.MethodPost, "/login", "", map[string]string{"email": email, "password": "p"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "login success", out["message"])
	return id, out["token"].(string)
}

func TestHome(t *testing.T) {
	a := newApp(t)
	rec, out := a.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to our api", out["message"])

	rec, _ = a.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoutesAnswerJSON(t *testing.T) {
	a := newApp(t)
	for _, c := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/register"},
		{http.MethodPatch, "/post"},
	} {
		rec, out := a.do(t, c.method, c.path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, c.path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "Data not found", out["message"])
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := newApp(t)
	body := map[string]string{"fullname": "A", "username": "a", "email": "a@a.com", "password": "p", "preference": "x"}
	rec, out := a.do(t, http.MethodPost, "/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user created", out["message"])
	u := out["user"].(map[string]any)
	assert.NotContains(t, u, "password")

	body["username"] = "b"
	rec, out = a.do(t, http.MethodPost, "/register", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists", out["message"])
}

func TestLoginFailures(t *testing.T) {
	a := newApp(t)
	a.signup(t, "a", "a@a.com")

	rec, out := a.do(t, http.MethodPost, "/login", "", map[string]string{"email": "a@a.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email/password", out["message"])

	rec, out = a.do(t, http.MethodPost, "/login", "", map[string]string{"email": "x@a.com", "password": "p"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email/password", out["message"])
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	a := newApp(t)
	_, token := a.signup(t, "a", "a@a.com")

	for _, tok := range []string{"", "garbage", token + "x"} {
		rec, out := a.do(t, http.MethodPost, "/post", tok, map[string]string{"imageUrl": "i", "description": "d"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid Token", out["message"])
	}

	r := httptest.NewRequest(http.MethodGet, "/favorite", nil)
	r.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var n int64
	require.NoError(t, a.store.Base.Model(&model.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestBadTokensLeaveStoreUntouched(t *testing.T) {
	a := newApp(t)
	aliceID, alice := a.signup(t, "alice", "alice@a.com")

	rec, out := a.do(t, http.MethodPost, "/post", alice, map[string]string{"imageUrl": "https://img/1", "description": "soto"})
	require.Equal(t, http.StatusOK, rec.Code)
	postID := out["newPost"].(map[string]any)["id"].(string)
	rec, out = a.do(t, http.MethodPost, "/favorite/"+postID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	favID := out["favorite"].(map[string]any)["id"].(string)

	forged, err := jwt.New("other-secret", time.Hour).Make(jwt.Identity{ID: aliceID, Username: "alice"})
	require.NoError(t, err)

	routes := []struct{ method, path string }{
		{http.MethodPut, "/like/" + postID},
		{http.MethodPut, "/dislike/" + postID},
		{http.MethodDelete, "/post/" + postID},
		{http.MethodPost, "/favorite/" + postID},
		{http.MethodDelete, "/favorite/" + favID},
		{http.MethodPut, "/user/" + aliceID},
	}
	for _, tok := range []string{"", "garbage", alice + "x", forged} {
		for _, rt := range routes {
			rec, out := a.do(t, rt.method, rt.path, tok, map[string]string{"preference": "changed"})
			assert.Equal(t, http.StatusUnauthorized, rec.Code, rt.method+" "+rt.path)
			assert.Equal(t, "Invalid Token", out["message"])
		}
	}

	var reactions, posts, favs int64
	require.NoError(t, a.store.Base.Model(&model.Reaction{}).Count(&reactions).Error)
	require.NoError(t, a.store.Base.Model(&model.Post{}).Count(&posts).Error)
	require.NoError(t, a.store.Base.Model(&model.Favorite{}).Count(&favs).Error)
	assert.Zero(t, reactions)
	assert.Equal(t, int64(1), posts)
	assert.Equal(t, int64(1), favs)

	var u model.User
	require.NoError(t, a.store.Base.Where("id = ?", aliceID).Take(&u).Error)
	assert.Equal(t, "x", u.Preference)
}

func TestSameUsernameReactsIndependently(t *testing.T) {
	a := newApp(t)
	_, author := a.signup(t, "alice", "alice@a.com")
	_, sam1 := a.signup(t, "sam", "sam1@a.com")
	_, sam2 := a.signup(t, "sam", "sam2@a.com")

	rec, out := a.do(t, http.MethodPost, "/post", author, map[string]string{"imageUrl": "https://img/1", "description": "soto"})
	require.Equal(t, http.StatusOK, rec.Code)
	postID := out["newPost"].(map[string]any)["id"].(string)

	feedPost := func() model.Post {
		rec, _ := a.do(t, http.MethodGet, "/post", author, nil)
		var feed []model.Post
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
		require.Len(t, feed, 1)
		return feed[0]
	}

	rec, _ = a.do(t, http.MethodPut, "/like/"+postID, sam1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = a.do(t, http.MethodPut, "/unlike/"+postID, sam2, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sam"}, feedPost().Like)

	rec, _ = a.do(t, http.MethodPut, "/dislike/"+postID, sam2, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := feedPost()
	assert.Equal(t, []string{"sam"}, got.Like)
	assert.Equal(t, []string{"sam"}, got.Dislike)

	rec, _ = a.do(t, http.MethodPut, "/unlike/"+postID, sam1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = feedPost()
	assert.Equal(t, []string{}, got.Like)
	assert.Equal(t, []string{"sam"}, got.Dislike)
}

func TestPostFlow(t *testing.T) {
	a := newApp(t)
	aliceID, alice := a.signup(t, "alice", "alice@a.com")
	_, bob := a.signup(t, "bob", "bob@a.com")

	rec, out := a.do(t, http.MethodPost, "/post", alice, map[string]string{"description": "no image"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Image URL is required", out["message"])

	rec, out = a.do(t, http.MethodGet, "/post", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec, out = a.do(t, http.MethodPost, "/post", alice, map[string]string{"imageUrl": "https://img/1", "description": "soto"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post created", out["message"])
	postID := out["newPost"].(map[string]any)["id"].(string)

	// the earlier empty read was cached; creation must invalidate it
	rec, _ = a.do(t, http.MethodGet, "/post", bob, nil)
	var feed []model.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "soto", feed[0].Description)
	require.NotNil(t, feed[0].Author)
	assert.Equal(t, "alice", feed[0].Author.Username)

	rec, out = a.do(t, http.MethodPut, "/like/"+postID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post liked", out["message"])
	rec, out = a.do(t, http.MethodPut, "/dislike/"+postID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post disliked", out["message"])

	rec, _ = a.do(t, http.MethodGet, "/post", bob, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Equal(t, []string{}, feed[0].Like)
	assert.Equal(t, []string{"bob"}, feed[0].Dislike)

	rec, out = a.do(t, http.MethodPut, "/undislike/"+postID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post undisliked", out["message"])
	rec, out = a.do(t, http.MethodPut, "/unlike/"+postID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post unliked", out["message"])

	rec, _ = a.do(t, http.MethodPut, "/like/missing", bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = a.do(t, http.MethodGet, "/post/"+aliceID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []model.UserPostRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, postID, rows[0].Post.ID)
	assert.Empty(t, rows[0].Post.Like)
	assert.Empty(t, rows[0].Post.Dislike)

	rec, out = a.do(t, http.MethodDelete, "/post/"+postID, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, out = a.do(t, http.MethodDelete, "/post/"+postID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post deleted", out["message"])

	rec, _ = a.do(t, http.MethodGet, "/post", bob, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestFavoritesAndProfile(t *testing.T) {
	a := newApp(t)
	aliceID, alice := a.signup(t, "alice", "alice@a.com")
	_, bob := a.signup(t, "bob", "bob@a.com")

	rec, out := a.do(t, http.MethodPost, "/favorite/ChIJplace", alice, map[string]string{"kind": "place", "title": "Warung"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Favorite added", out["message"])
	favID := out["favorite"].(map[string]any)["id"].(string)

	rec, _ = a.do(t, http.MethodGet, "/favorite", alice, nil)
	var favs []model.Favorite
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &favs))
	require.Len(t, favs, 1)
	assert.Equal(t, "ChIJplace", favs[0].TargetID)
	assert.Equal(t, "alice", favs[0].User.Username)

	rec, _ = a.do(t, http.MethodDelete, "/favorite/"+favID, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, out = a.do(t, http.MethodDelete, "/favorite/"+favID, alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Favorite deleted", out["message"])

	rec, out = a.do(t, http.MethodPut, "/user/"+aliceID, alice, map[string]string{"preference": "spicy"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "spicy", out["newPrefer"])

	rec, _ = a.do(t, http.MethodPut, "/user/"+aliceID, bob, map[string]string{"preference": "bland"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = a.do(t, http.MethodGet, "/user", alice, nil)
	var rows []model.UserPostRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "spicy", rows[0].Preference)
	assert.Nil(t, rows[0].Post)
}

func TestProxiesAreRateLimited(t *testing.T) {
	a := newApp(t)

	rec, out := a.do(t, http.MethodPost, "/maps", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Text query is required", out["message"])

	rec, out = a.do(t, http.MethodPost, "/maps", "", map[string]string{"textQuery": "bakso"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, out, "data")

	rec, out = a.do(t, http.MethodPost, "/maps", "", map[string]string{"textQuery": "bakso"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", out["message"])

	rec, out = a.do(t, http.MethodPost, "/ai", "", map[string]string{"input": "hungry"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "eat ramen", out["result"])
}
