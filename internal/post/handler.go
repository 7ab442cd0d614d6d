package post

import (
	"net/http"

	"github.com/fp-foodie-finder/server/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	caller, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	body, err := httpx.Decode[CreateReq](r)
	if err != nil {
		return err
	}
	p, err := h.svc.Create(r.Context(), caller, body)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"message": "Post created", "newPost": p}, http.StatusOK)
	return nil
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) error {
	if _, err := httpx.UserFromCtx(r); err != nil {
		return err
	}
	posts, err := h.svc.Feed(r.Context())
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, posts, http.StatusOK)
	return nil
}

var reactionMessages = map[Action]string{
	Like:      "Post liked",
	Unlike:    "Post unliked",
	Dislike:   "Post disliked",
	Undislike: "Post undisliked",
}

// React returns the handler for one of the four reaction routes.
func (h *Handler) React(a Action) httpx.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		caller, err := httpx.UserFromCtx(r)
		if err != nil {
			return err
		}
		if err := h.svc.React(r.Context(), caller, r.PathValue("id"), a); err != nil {
			return err
		}
		httpx.Message(w, reactionMessages[a], http.StatusOK)
		return nil
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	caller, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(r.Context(), caller, r.PathValue("id")); err != nil {
		return err
	}
	httpx.Message(w, "Post deleted", http.StatusOK)
	return nil
}
