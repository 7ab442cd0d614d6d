package favorite

import (
	"net/http"

	"github.com/fp-foodie-finder/server/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) error {
	caller, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	body, err := httpx.Decode[AddReq](r)
	if err != nil {
		return err
	}
	f, err := h.svc.Add(r.Context(), caller, r.PathValue("idx"), body)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"message": "Favorite added", "favorite": f}, http.StatusOK)
	return nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	caller, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	favs, err := h.svc.List(r.Context(), caller)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, favs, http.StatusOK)
	return nil
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) error {
	caller, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	if err := h.svc.Remove(r.Context(), caller, r.PathValue("id")); err != nil {
		return err
	}
	httpx.Message(w, "Favorite deleted", http.StatusOK)
	return nil
}
