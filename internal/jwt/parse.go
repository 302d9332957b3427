package jwt

import (
	"errors"
	"fmt"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Parse valida firma EdDSA (kid debe coincidir con la clave activa), iss,
// exp/nbf y el token_type esperado. Errores: ErrInvalidToken, ErrExpiredToken,
// ErrInvalidIssuer, ErrWrongType.
func (i *Issuer) Parse(raw, wantType string) (*Claims, error) {
	keyfunc := func(t *jwtv5.Token) (any, error) {
		if kid, _ := t.Header["kid"].(string); kid != "" && kid != i.Keys.KID {
			return nil, fmt.Errorf("unknown kid %q", kid)
		}
		return i.Keys.Pub, nil
	}

	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodEdDSA.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithLeeway(i.Leeway),
		jwtv5.WithTimeFunc(i.clock),
	}
	if i.Iss != "" {
		opts = append(opts, jwtv5.WithIssuer(i.Iss))
	}

	var claims Claims
	tok, err := jwtv5.ParseWithClaims(raw, &claims, keyfunc, opts...)
	switch {
	case err == nil && tok.Valid:
	case errors.Is(err, jwtv5.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwtv5.ErrTokenInvalidIssuer):
		return nil, ErrInvalidIssuer
	default:
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if wantType != "" && claims.TokenType != wantType {
		return nil, ErrWrongType
	}
	return &claims, nil
}
