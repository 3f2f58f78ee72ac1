package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrAnonymous    = errors.New("cannot issue a token for an anonymous session")
	ErrInvalidToken = errors.New("invalid token")
)

// Token is a signed bearer token and its expiry.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Claims represents JWT payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	issuer string
	key    []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(issuer, key string, ttl time.Duration) *Issuer {
	return &Issuer{issuer: issuer, key: []byte(key), ttl: ttl, now: time.Now}
}

// Issue signs a token carrying s.
func (i *Issuer) Issue(s Session) (Token, error) {
	if !s.IsAuthenticated() {
		return Token{}, ErrAnonymous
	}
	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		Role: s.Kind.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   s.Username,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, ExpiresAt: exp}, nil
}

// Parse validates a token and returns the session it carries.
func (i *Issuer) Parse(tokenStr string) (Session, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Session{}, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}
	kind, ok := parseKind(claims.Role)
	if !ok {
		return Session{}, ErrInvalidToken
	}
	return Session{Kind: kind, Username: claims.Subject}, nil
}
