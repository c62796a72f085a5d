package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/ProNexus-Startup/ProjectHub/backend/errs"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Audience is the "aud" Supabase puts on access tokens of signed-in users.
const Audience = "authenticated"

// Verifier checks Supabase access tokens, signed HS256 with the project's JWT secret.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
	now    func() time.Time
}

func NewVerifier(secret string) *Verifier {
	v := &Verifier{secret: []byte(secret), now: time.Now}
	v.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return v.now() }),
	)
	return v
}

// Verify validates token and returns the session it carries together with
// the raw claims, which are forwarded to the backend as the caller identity.
func (v *Verifier) Verify(token string) (*Session, backend.Claims, error) {
	if token == "" {
		return nil, nil, errs.NewTokenError(errs.ErrMissingToken, nil)
	}

	claims := jwt.MapClaims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil, errs.NewTokenError(errs.ErrExpiredToken, err)
		}
		return nil, nil, errs.NewTokenError(errs.ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, nil, errs.NewTokenError(errs.ErrInvalidToken, err)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, nil, errs.NewTokenError(errs.ErrInvalidToken, fmt.Errorf("subject %q: %w", sub, err))
	}

	session := &Session{
		AccessToken: token,
		User: User{
			ID:           userID,
			Email:        stringClaim(claims, "email"),
			Role:         stringClaim(claims, "role"),
			AppMetadata:  mapClaim(claims, "app_metadata"),
			UserMetadata: mapClaim(claims, "user_metadata"),
		},
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	return session, backend.Claims(claims), nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return s
}

func mapClaim(claims jwt.MapClaims, name string) map[string]any {
	m, _ := claims[name].(map[string]any)
	return m
}
