package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
)

// LogoutInput is empty.
type LogoutInput struct{}

// LogoutOutput reports who was logged out.
type LogoutOutput struct {
	Username    string
	WasLoggedIn bool
}

// Logout forgets the saved session.
type Logout struct {
	sessions domain.SessionStore
	logger   domain.Logger
}

// NewLogout creates a new Logout use case.
func NewLogout(sessions domain.SessionStore, logger domain.Logger) *Logout {
	return &Logout{sessions: sessions, logger: logger}
}

// Execute clears the session. Logging out twice is not an error.
func (uc *Logout) Execute(_ context.Context, _ LogoutInput) (*LogoutOutput, error) {
	s, err := uc.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if err := uc.sessions.Clear(); err != nil {
		return nil, fmt.Errorf("clear session: %w", err)
	}
	if s.IsAnonymous() {
		return &LogoutOutput{}, nil
	}
	uc.logger.Info(0, "auth", fmt.Sprintf("logged out %s", s.Username))
	return &LogoutOutput{Username: s.Username, WasLoggedIn: true}, nil
}
