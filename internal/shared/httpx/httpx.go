package httpx

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fp-foodie-finder/server/internal/shared/apperr"
	"github.com/fp-foodie-finder/server/internal/shared/jwt"
	"github.com/fp-foodie-finder/server/internal/shared/log"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type HandlerFunc func(http.ResponseWriter, *http.Request) error

func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			WriteError(w, r, err)
		}
	})
}

// WriteError answers with the message of the apperr kind found in err.
// Errors without a kind are logged and hidden behind a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		log.Log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
	}
	Message(w, kind.Message(), kind.Status())
}

func Message(w http.ResponseWriter, msg string, code int) {
	WriteJSON(w, map[string]any{"message": msg}, code)
}

// Decode reads a JSON body into T. An empty body yields the zero value so
// that required-field validation reports the missing field.
func Decode[T any](r *http.Request) (T, error) {
	var t T
	if r.Body == nil {
		return t, nil
	}
	err := json.NewDecoder(r.Body).Decode(&t)
	if err != nil && !errors.Is(err, io.EOF) {
		return t, apperr.Wrap(apperr.BadRequest, err)
	}
	return t, nil
}

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type ctxKey struct{}

type TokenParser interface {
	Parse(tok string) (jwt.Identity, error)
}

// Auth rejects requests without a valid bearer token before the wrapped
// handler runs.
func Auth(p TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := BearerToken(r)
			if !ok {
				WriteError(w, r, apperr.New(apperr.InvalidToken))
				return
			}
			id, err := p.Parse(tok)
			if err != nil {
				WriteError(w, r, apperr.New(apperr.InvalidToken))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[len("Bearer "):])
	return tok, tok != ""
}

func WithIdentity(ctx context.Context, id jwt.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func UserFromCtx(r *http.Request) (jwt.Identity, error) {
	id, _ := r.Context().Value(ctxKey{}).(jwt.Identity)
	if id.ID == "" || id.Username == "" {
		return jwt.Identity{}, apperr.New(apperr.InvalidToken)
	}
	return id, nil
}

// ClientIP prefers the first X-Forwarded-For hop set by the ingress.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}
