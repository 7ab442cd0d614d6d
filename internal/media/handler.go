package media

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/fp-foodie-finder/server/internal/shared/apperr"
	"github.com/fp-foodie-finder/server/internal/shared/httpx"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const maxUploadSize = 10 << 20

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error
	URL(ctx context.Context, key string) (string, error)
}

type Handler struct{ store ObjectStore }

func NewHandler(s ObjectStore) *Handler { return &Handler{store: s} }

// Upload stores a multipart "file" image and returns the URL to use as a
// post's imageUrl.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) error {
	caller, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return apperr.Wrap(apperr.BadRequest, err)
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		return apperr.New(apperr.ImageUrlRequired)
	}
	defer file.Close()

	ct := hdr.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return apperr.New(apperr.BadRequest)
	}

	key := path.Join("posts", caller.ID, uuid.NewString()+strings.ToLower(path.Ext(hdr.Filename)))
	if err := h.store.Put(r.Context(), key, ct, file, hdr.Size); err != nil {
		return errors.Wrap(err, "upload image")
	}
	url, err := h.store.URL(r.Context(), key)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"message": "Image uploaded", "imageUrl": url}, http.StatusCreated)
	return nil
}
