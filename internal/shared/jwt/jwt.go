package jwt

import (
	"time"

	jw "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var ErrInvalid = errors.New("invalid token")

type Identity struct {
	ID       string
	Username string
}

type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Signer) Make(id Identity) (string, error) {
	now := s.now()
	claims := jw.MapClaims{
		"sub": id.ID,
		"usr": id.Username,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	tok, err := jw.NewWithClaims(jw.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return tok, nil
}

func (s *Signer) Parse(tok string) (Identity, error) {
	t, err := jw.Parse(tok,
		func(t *jw.Token) (any, error) { return s.secret, nil },
		jw.WithValidMethods([]string{jw.SigningMethodHS256.Alg()}),
		jw.WithTimeFunc(s.now),
	)
	if err != nil || !t.Valid {
		return Identity{}, ErrInvalid
	}
	mc, ok := t.Claims.(jw.MapClaims)
	if !ok {
		return Identity{}, ErrInvalid
	}
	uid, _ := mc["sub"].(string)
	name, _ := mc["usr"].(string)
	if uid == "" || name == "" {
		return Identity{}, ErrInvalid
	}
	return Identity{ID: uid, Username: name}, nil
}
