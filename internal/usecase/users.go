package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/runoshun/taskdesk/internal/domain"
)

// ListUsersInput is empty.
type ListUsersInput struct{}

// ListUsersOutput contains every user, ordered by username.
type ListUsersOutput struct {
	Users []domain.User
}

// ListUsers lists every account.
type ListUsers struct {
	users domain.UserAPI
}

// NewListUsers creates a new ListUsers use case.
func NewListUsers(users domain.UserAPI) *ListUsers {
	return &ListUsers{users: users}
}

// Execute fetches the users.
func (uc *ListUsers) Execute(ctx context.Context, _ ListUsersInput) (*ListUsersOutput, error) {
	users, err := uc.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	slices.SortFunc(users, func(a, b domain.User) int {
		return strings.Compare(a.Username, b.Username)
	})
	return &ListUsersOutput{Users: users}, nil
}

// CreateUserInput contains the user form.
type CreateUserInput struct {
	Form domain.UserForm
}

// CreateUserOutput contains the created user.
type CreateUserOutput struct {
	User domain.User
}

// CreateUser creates an account as an administrator.
type CreateUser struct {
	users  domain.UserAPI
	logger domain.Logger
}

// NewCreateUser creates a new CreateUser use case.
func NewCreateUser(users domain.UserAPI, logger domain.Logger) *CreateUser {
	return &CreateUser{users: users, logger: logger}
}

// Execute validates the form and creates the user.
func (uc *CreateUser) Execute(ctx context.Context, in CreateUserInput) (*CreateUserOutput, error) {
	form := in.Form
	form.PasswordOptional = false
	user, err := form.Validate()
	if err != nil {
		return nil, err
	}
	created, err := uc.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	uc.logger.Info(0, "user", fmt.Sprintf("created user %s", created.Username))
	return &CreateUserOutput{User: *created}, nil
}

// EditUserInput contains the fields to change. Nil fields keep their value.
type EditUserInput struct {
	Username *string
	Name     *string
	Email    *string
	Password *string
	UserID   string
}

// EditUserOutput contains the updated user.
type EditUserOutput struct {
	User domain.User
}

// EditUser updates an account.
type EditUser struct {
	users  domain.UserAPI
	logger domain.Logger
}

// NewEditUser creates a new EditUser use case.
func NewEditUser(users domain.UserAPI, logger domain.Logger) *EditUser {
	return &EditUser{users: users, logger: logger}
}

// Execute merges the changes onto the current record, validates and saves.
// An empty password keeps the current one.
func (uc *EditUser) Execute(ctx context.Context, in EditUserInput) (*EditUserOutput, error) {
	if in.Username == nil && in.Name == nil && in.Email == nil && in.Password == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	current, err := uc.users.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", in.UserID, err)
	}

	form := domain.UserForm{
		Username:         current.Username,
		Name:             current.Name,
		Email:            current.Email,
		PasswordOptional: true,
	}
	if in.Username != nil {
		form.Username = *in.Username
	}
	if in.Name != nil {
		form.Name = *in.Name
	}
	if in.Email != nil {
		form.Email = *in.Email
	}
	if in.Password != nil {
		form.Password = *in.Password
	}

	user, err := form.Validate()
	if err != nil {
		return nil, err
	}
	updated, err := uc.users.UpdateUser(ctx, in.UserID, user)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", in.UserID, err)
	}
	uc.logger.Info(0, "user", fmt.Sprintf("updated user %s", updated.Username))
	return &EditUserOutput{User: *updated}, nil
}

// DeleteUserInput contains the user.
type DeleteUserInput struct {
	UserID string
}

// DeleteUserOutput is empty.
type DeleteUserOutput struct{}

// DeleteUser removes an account.
type DeleteUser struct {
	users  domain.UserAPI
	logger domain.Logger
}

// NewDeleteUser creates a new DeleteUser use case.
func NewDeleteUser(users domain.UserAPI, logger domain.Logger) *DeleteUser {
	return &DeleteUser{users: users, logger: logger}
}

// Execute deletes the user.
func (uc *DeleteUser) Execute(ctx context.Context, in DeleteUserInput) (*DeleteUserOutput, error) {
	if err := uc.users.DeleteUser(ctx, in.UserID); err != nil {
		return nil, fmt.Errorf("delete user %s: %w", in.UserID, err)
	}
	uc.logger.Info(0, "user", fmt.Sprintf("deleted user %s", in.UserID))
	return &DeleteUserOutput{}, nil
}
