package assistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fp-foodie-finder/server/internal/shared/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskProxiesUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rapid-key", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "open-ai21.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))

		var got conversation
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, []message{{Role: "user", Content: "what should I eat?"}}, got.Messages)
		assert.False(t, got.WebAccess)
		assert.Equal(t, 0.9, got.Temperature)
		assert.Equal(t, 5, got.TopK)
		assert.Equal(t, 256, got.MaxTokens)

		_, _ = w.Write([]byte(`{"result":"Try the nasi goreng.","status":true}`))
	}))
	defer upstream.Close()

	h := NewHandler(NewClient(upstream.URL, "rapid-key", "open-ai21.p.rapidapi.com", upstream.Client()))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ai", strings.NewReader(`{"input":"what should I eat?"}`))
	require.NoError(t, h.Ask(rec, req))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":"Try the nasi goreng."}`, rec.Body.String())
}

func TestAskRequiresInput(t *testing.T) {
	h := NewHandler(NewClient("http://unused", "k", "h", nil))
	err := h.Ask(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/ai", strings.NewReader(`{"input":""}`)))
	assert.Equal(t, apperr.InputRequired, apperr.KindOf(err))
}

func TestAskUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	_, err := NewClient(upstream.URL, "k", "h", upstream.Client()).Ask(t.Context(), "hi")
	require.Error(t, err)
	assert.ErrorContains(t, err, "upstream status 429")
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))
}
