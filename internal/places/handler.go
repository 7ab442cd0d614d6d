package places

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fp-foodie-finder/server/internal/shared/httpx"
	"github.com/fp-foodie-finder/server/internal/shared/validate"
)

type Searcher interface {
	Search(ctx context.Context, textQuery string) (json.RawMessage, error)
}

type SearchReq struct {
	TextQuery string `json:"textQuery" validate:"required"`
}

type Handler struct{ places Searcher }

func NewHandler(s Searcher) *Handler { return &Handler{places: s} }

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[SearchReq](r)
	if err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		return err
	}
	data, err := h.places.Search(r.Context(), body.TextQuery)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"data": data}, http.StatusOK)
	return nil
}
