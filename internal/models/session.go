// Package models defines data structures and domain types.
package models

import "time"

// Credential is an opaque access token issued by the identity provider.
// It only ever lives in memory.
type Credential struct {
	ExpiresAt time.Time
	Token     string
}

// IsZero reports whether no credential is held.
func (c Credential) IsZero() bool {
	return c.Token == ""
}

// Expired reports whether the credential carries an expiry that has passed.
// A zero ExpiresAt means the provider did not report one.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Profile is the minimal user profile returned on login.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	PictureURL string `json:"pictureUrl,omitempty"`
}

// DisplayName returns the best available label for the user.
func (p Profile) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Email != "":
		return p.Email
	default:
		return p.ID
	}
}

// Session pairs a credential with the profile it was issued for.
// Either both are set or the user is logged out.
type Session struct {
	StartedAt  time.Time
	Profile    Profile
	Credential Credential
}

// Active reports whether the session holds a credential.
func (s *Session) Active() bool {
	return s != nil && !s.Credential.IsZero()
}
