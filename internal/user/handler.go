package user

import (
	"net/http"

	"github.com/fp-foodie-finder/server/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[RegisterReq](r)
	if err != nil {
		return err
	}
	u, err := h.svc.Register(r.Context(), body)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"message": "user created", "user": u}, http.StatusCreated)
	return nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[LoginReq](r)
	if err != nil {
		return err
	}
	token, err := h.svc.Login(r.Context(), body)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"message": "login success", "token": token}, http.StatusOK)
	return nil
}

func (h *Handler) UpdatePreference(w http.ResponseWriter, r *http.Request) error {
	caller, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	body, err := httpx.Decode[PreferenceReq](r)
	if err != nil {
		return err
	}
	pref, err := h.svc.UpdatePreference(r.Context(), caller, r.PathValue("id"), body)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"newPrefer": pref}, http.StatusCreated)
	return nil
}

// Me is the caller's own user+posts join.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) error {
	caller, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	rows, err := h.svc.Profile(r.Context(), caller.ID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, rows, http.StatusOK)
	return nil
}

func (h *Handler) PostsOf(w http.ResponseWriter, r *http.Request) error {
	if _, err := httpx.UserFromCtx(r); err != nil {
		return err
	}
	rows, err := h.svc.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, rows, http.StatusOK)
	return nil
}
