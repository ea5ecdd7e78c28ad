package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
)

// RegisterInput contains the new account.
type RegisterInput struct {
	Form domain.UserForm
}

// RegisterOutput contains the created account.
type RegisterOutput struct {
	User domain.User
}

// Register creates an account. It does not log in.
type Register struct {
	auth   domain.AuthAPI
	logger domain.Logger
}

// NewRegister creates a new Register use case.
func NewRegister(auth domain.AuthAPI, logger domain.Logger) *Register {
	return &Register{auth: auth, logger: logger}
}

// Execute validates the form and registers the account.
func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	form := in.Form
	form.PasswordOptional = false
	user, err := form.Validate()
	if err != nil {
		return nil, err
	}

	created, err := uc.auth.Register(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	uc.logger.Info(0, "auth", fmt.Sprintf("registered %s", created.Username))
	return &RegisterOutput{User: *created}, nil
}
