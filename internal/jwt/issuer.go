package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token (claim "token_type").
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid_jwt")
	ErrExpiredToken  = errors.New("expired")
	ErrWrongType     = errors.New("wrong_token_type")
	ErrInvalidIssuer = errors.New("invalid_issuer")
)

// Claims del par access/refresh. sub = user id, jti = id único del token.
type Claims struct {
	TokenType string `json:"token_type"`
	jwtv5.RegisteredClaims
}

// Issuer firma y valida tokens EdDSA con un KeySet.
type Issuer struct {
	Iss        string        // "iss"
	Keys       *KeySet       // clave activa
	AccessTTL  time.Duration // default 15m
	RefreshTTL time.Duration // default 24h
	Leeway     time.Duration // tolerancia de reloj al validar exp/nbf

	now func() time.Time
}

func NewIssuer(iss string, keys *KeySet) *Issuer {
	return &Issuer{
		Iss:        iss,
		Keys:       keys,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

func (i *Issuer) clock() time.Time {
	if i.now == nil {
		return time.Now()
	}
	return i.now()
}

// Issue firma un token del tipo dado para sub. Devuelve el JWT y sus claims.
func (i *Issuer) Issue(sub, tokenType string) (string, *Claims, error) {
	ttl := i.AccessTTL
	if tokenType == TypeRefresh {
		ttl = i.RefreshTTL
	}

	now := i.clock().UTC().Truncate(time.Second)
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.Iss,
			Subject:   sub,
			ID:        uuid.NewString(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
		},
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	tk.Header["kid"] = i.Keys.KID
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.Keys.Priv)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}
