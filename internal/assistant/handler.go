package assistant

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fp-foodie-finder/server/internal/shared/httpx"
	"github.com/fp-foodie-finder/server/internal/shared/validate"
)

type Asker interface {
	Ask(ctx context.Context, input string) (json.RawMessage, error)
}

type AskReq struct {
	Input string `json:"input" validate:"required"`
}

type Handler struct{ ai Asker }

func NewHandler(a Asker) *Handler { return &Handler{ai: a} }

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[AskReq](r)
	if err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		return err
	}
	result, err := h.ai.Ask(r.Context(), body.Input)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"result": result}, http.StatusOK)
	return nil
}
