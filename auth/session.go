// Package auth resolves who the caller is. Sessions come from Supabase
// access tokens; roles come from the backend's user_roles table.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Event string

const (
	EventInitialSession Event = "INITIAL_SESSION"
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
	EventUserUpdated    Event = "USER_UPDATED"
)

// User is the identity carried by a session.
type User struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Profile is the session's user extended with its role names.
type Profile struct {
	User
	Roles []string `json:"roles"`
}

func (p *Profile) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Subscription is returned by OnAuthStateChange.
type Subscription interface {
	Unsubscribe()
}

// SessionSource is where sessions come from: the current one, and a push
// feed of changes. The callback receives nil on sign out.
type SessionSource interface {
	GetSession(ctx context.Context) (*Session, error)
	OnAuthStateChange(fn func(event Event, session *Session)) Subscription
}

type sessionKeyType string

const (
	sessionKey sessionKeyType = "authSession"
	profileKey sessionKeyType = "authProfile"
)

func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionKey).(*Session)
	return session, ok && session != nil
}

func WithProfile(ctx context.Context, profile *Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

func ProfileFromContext(ctx context.Context) (*Profile, bool) {
	profile, ok := ctx.Value(profileKey).(*Profile)
	return profile, ok && profile != nil
}
