package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskdesk/internal/domain"
)

// WhoamiInput is empty.
type WhoamiInput struct{}

// WhoamiOutput describes the saved session.
// Fields are ordered to minimize memory padding.
type WhoamiOutput struct {
	ExpiresAt time.Time    // Zero when unknown
	User      *domain.User // Profile, when the server could provide it
	Session   domain.Session
	Expired   bool
}

// Whoami reports the logged-in user.
type Whoami struct {
	sessions domain.SessionStore
	users    domain.UserAPI
	clock    domain.Clock
	logger   domain.Logger
}

// NewWhoami creates a new Whoami use case.
func NewWhoami(sessions domain.SessionStore, users domain.UserAPI, clock domain.Clock, logger domain.Logger) *Whoami {
	return &Whoami{sessions: sessions, users: users, clock: clock, logger: logger}
}

// Execute loads the session and, if still valid, the user's profile.
// A failed profile lookup is logged and leaves User nil.
func (uc *Whoami) Execute(ctx context.Context, _ WhoamiInput) (*WhoamiOutput, error) {
	s, err := uc.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s.IsAnonymous() {
		return nil, domain.ErrNotLoggedIn
	}

	out := &WhoamiOutput{Session: *s}
	if exp, ok := TokenExpiry(s.Token); ok {
		out.ExpiresAt = exp
		out.Expired = !uc.clock.Now().Before(exp)
	}
	if out.Expired {
		return out, nil
	}

	user, err := uc.users.GetUser(ctx, s.UUID)
	if err != nil {
		uc.logger.Warn(0, "auth", fmt.Sprintf("profile lookup for %s failed: %v", s.UUID, err))
		return out, nil
	}
	out.User = user
	return out, nil
}
