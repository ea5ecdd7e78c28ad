package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/runoshun/taskdesk/internal/domain"
)

// TokenExpiry reads the exp claim of a JWT. The signature is not checked.
// ok is false for opaque tokens and tokens without exp.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0), true
	case int64:
		return time.Unix(exp, 0), true
	default:
		return time.Time{}, false
	}
}

// sessionExpired reports whether the session's token has a past exp claim.
func sessionExpired(s *domain.Session, now time.Time) bool {
	exp, ok := TokenExpiry(s.Token)
	return ok && !now.Before(exp)
}

// requireSession returns the saved session, failing when nobody is logged in
// or the token has expired.
func requireSession(sessions domain.SessionStore, clock domain.Clock) (*domain.Session, error) {
	s, err := sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s.IsAnonymous() {
		return nil, domain.ErrNotLoggedIn
	}
	if sessionExpired(s, clock.Now()) {
		return nil, domain.ErrSessionExpired
	}
	return s, nil
}

// viewerSession returns the saved session, or nil for an anonymous viewer.
// An expired session views the board anonymously.
func viewerSession(sessions domain.SessionStore, clock domain.Clock) (*domain.Session, error) {
	s, err := sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s.IsAnonymous() || sessionExpired(s, clock.Now()) {
		return nil, nil
	}
	return s, nil
}
