// Package fakeapi is an in-memory implementation of the task REST API for
// local development and tests. It enforces team limits and the last-member
// rule the way a real server would.
package fakeapi

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/runoshun/taskdesk/internal/domain"
)

// TokenTTL is the lifetime of tokens issued by /user/login.
const TokenTTL = 24 * time.Hour

type userRecord struct {
	user     domain.User
	password string
}

// Server holds the fake API state.
// Fields are ordered to minimize memory padding.
type Server struct {
	logger    *log.Logger
	now       func() time.Time
	tasks     map[int]domain.Task
	teams     map[int]domain.Team
	users     map[string]*userRecord
	secret    []byte
	taskOrder []int
	assignees []domain.Assignee
	teamUsers []domain.TeamUser
	nextID    int
	mu        sync.Mutex

	// RequireAuth rejects requests without a valid bearer token, except
	// login and register.
	RequireAuth bool
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the HMAC secret used to sign tokens.
func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

// WithClock overrides the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithAuth makes every endpoint except login and register require a token.
func WithAuth() Option {
	return func(s *Server) { s.RequireAuth = true }
}

// New creates an empty Server. A nil logger discards request logs.
func New(logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New()
		logger.Out = discard{}
	}
	s := &Server{
		logger: logger,
		now:    time.Now,
		tasks:  make(map[int]domain.Task),
		teams:  make(map[int]domain.Team),
		users:  make(map[string]*userRecord),
		secret: []byte(uuid.NewString()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.Echo()
}

// Echo builds the echo instance with routes and middleware.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = s.errorHandler
	e.Use(s.requestLogger, s.authenticate)
	s.register(e)
	return e
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.WithFields(log.Fields{
			"method":     c.Request().Method,
			"path":       c.Request().URL.Path,
			"status":     c.Response().Status,
			"request_id": c.Request().Header.Get("X-Request-ID"),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("request")
		return nil
	}
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.RequireAuth || strings.HasPrefix(c.Path(), "/user/") {
			return next(c)
		}
		h := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}
		if _, err := s.verifyToken(token); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return next(c)
	}
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := any(http.StatusText(code))
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = he.Message
	}
	_ = c.JSON(code, map[string]any{"detail": msg})
}

func (s *Server) issueToken(u domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      u.UUID,
		"username": u.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) verifyToken(token string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	parsed, err := parser.Parse(token, func(*jwt.Token) (any, error) { return s.secret, nil })
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	if !claims.VerifyExpiresAt(s.now().Unix(), true) {
		return "", errors.New("token expired")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing sub")
	}
	return sub, nil
}

func (s *Server) allocID() int {
	s.nextID++
	return s.nextID
}

func (s *Server) putTask(t domain.Task) {
	if _, ok := s.tasks[t.ID]; !ok {
		s.taskOrder = append(s.taskOrder, t.ID)
	}
	s.tasks[t.ID] = t.Clone()
}

func (s *Server) removeTask(id int) {
	delete(s.tasks, id)
	s.taskOrder = slices.DeleteFunc(s.taskOrder, func(v int) bool { return v == id })
	s.assignees = slices.DeleteFunc(s.assignees, func(a domain.Assignee) bool { return a.TaskID == id })
}

func (s *Server) teamSize(teamID int) int {
	n := 0
	for _, tu := range s.teamUsers {
		if tu.TeamID == teamID {
			n++
		}
	}
	return n
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, name+" must be an integer")
	}
	return v, nil
}
