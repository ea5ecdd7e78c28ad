package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/taskdesk/internal/domain"
)

// LoginInput contains the credentials.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput contains the saved session.
type LoginOutput struct {
	ExpiresAt time.Time // Zero when the token carries no exp claim
	Session   domain.Session
}

// Login exchanges credentials for a session and saves it.
type Login struct {
	auth     domain.AuthAPI
	sessions domain.SessionStore
	clock    domain.Clock
	logger   domain.Logger
}

// NewLogin creates a new Login use case.
func NewLogin(auth domain.AuthAPI, sessions domain.SessionStore, clock domain.Clock, logger domain.Logger) *Login {
	return &Login{auth: auth, sessions: sessions, clock: clock, logger: logger}
}

// Execute logs in.
func (uc *Login) Execute(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	form := domain.LoginForm{Username: strings.TrimSpace(in.Username), Password: in.Password}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	session, err := uc.auth.Login(ctx, form.Username, form.Password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if session.Username == "" {
		session.Username = form.Username
	}

	exp, hasExp := TokenExpiry(session.Token)
	if hasExp && !uc.clock.Now().Before(exp) {
		return nil, fmt.Errorf("login: server issued a token that is already expired: %w", domain.ErrSessionExpired)
	}

	if err := uc.sessions.Save(*session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	uc.logger.Info(0, "auth", fmt.Sprintf("logged in as %s", session.Username))

	out := &LoginOutput{Session: *session}
	if hasExp {
		out.ExpiresAt = exp
	}
	return out, nil
}
