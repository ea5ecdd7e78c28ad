package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/runoshun/taskdesk/internal/domain"
)

type usersEnvelope struct {
	Users []domain.User `json:"users_all"`
}

type userEnvelope struct {
	User *domain.User `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (e userEnvelope) user(op string) (*domain.User, error) {
	if e.User == nil {
		return nil, fmt.Errorf("%s: %w: missing user", op, domain.ErrUnexpectedResponse)
	}
	return e.User, nil
}

func keyQuery(id string) url.Values {
	return url.Values{"id": []string{id}}
}

// ListUsers fetches every user.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var env usersEnvelope
	if err := c.do(ctx, http.MethodGet, "/users/", nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Users, nil
}

// GetUser fetches one user.
func (c *Client) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodGet, "/users/id", keyQuery(id), nil, &env); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrUserNotFound, err)
		}
		return nil, err
	}
	return env.user("get user")
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodPost, "/users/", nil, user, &env); err != nil {
		return nil, err
	}
	return env.user("create user")
}

// UpdateUser replaces a user.
func (c *Client) UpdateUser(ctx context.Context, id string, user domain.User) (*domain.User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodPut, "/users/id", keyQuery(id), user, &env); err != nil {
		return nil, err
	}
	return env.user("update user")
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/id", keyQuery(id), nil, nil)
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	var s domain.Session
	body := loginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/user/login", nil, body, &s); err != nil {
		return nil, err
	}
	if s.UUID == "" || s.Token == "" {
		return nil, fmt.Errorf("login: %w: missing uuid or token", domain.ErrUnexpectedResponse)
	}
	return &s, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, user domain.User) (*domain.User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodPost, "/user/register", nil, user, &env); err != nil {
		return nil, err
	}
	return env.user("register")
}
