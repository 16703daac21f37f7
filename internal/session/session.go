// Package session owns the client's authentication state: the bearer token,
// the identity decoded from it, and their persistence across restarts. Every
// other component reads the token through the api.TokenSource interface so it
// can be tested without authentication wiring.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"showdown-client/internal/api"
	"showdown-client/internal/domain"
	"showdown-client/internal/logging"
)

// Routes handed to the navigator after auth transitions.
const (
	RoutePostAuth = "dashboard"
	RoutePreAuth  = "login"
)

// Navigator is informed when an auth transition should change screens. The
// UI layer implements it; tests use a recording fake.
type Navigator interface {
	NavigateTo(route string)
}

// Resetter clears dependent cached state; the game store implements it so a
// logout drops any held snapshot.
type Resetter interface {
	Reset()
}

// poster is the slice of the API client the session needs: the public
// (unauthenticated) login and registration legs.
type poster interface {
	PostPublic(ctx context.Context, path string, body, out any) error
}

// Config wires a session context.
type Config struct {
	Store     Store
	Navigator Navigator
	Logger    *slog.Logger
}

// Context holds the live session. Exactly one exists per client process; all
// requests read it immutably per call via Token().
type Context struct {
	store     Store
	navigator Navigator
	logger    *slog.Logger

	mu      sync.RWMutex
	session domain.Session

	client    poster
	resetters []Resetter
}

// New constructs a session context and restores any persisted session.
func New(cfg Config) *Context {
	c := &Context{
		store:     cfg.Store,
		navigator: cfg.Navigator,
		logger:    cfg.Logger,
	}
	if cfg.Store != nil {
		sess, err := cfg.Store.Load()
		if err != nil {
			logging.Warn(cfg.Logger, "failed to restore session", "error", err)
		} else {
			c.session = sess
		}
	}
	return c
}

// UseClient attaches the API client used for the login/registration legs.
// The client itself reads tokens back off this context, so the two are wired
// after construction.
func (c *Context) UseClient(client poster) {
	c.client = client
}

// AddResetter registers a dependent cache to clear on logout.
func (c *Context) AddResetter(r Resetter) {
	c.resetters = append(c.resetters, r)
}

// Token returns the current bearer token, or "" when logged out.
// Implements api.TokenSource.
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Token
}

// CurrentUser returns the identity decoded from the session token.
func (c *Context) CurrentUser() domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.User
}

// IsAuthenticated reports whether a live session exists.
func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Valid()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login authenticates against the server, decodes the display identity from
// the returned token, persists the session, and navigates post-auth.
func (c *Context) Login(ctx context.Context, email, password string) error {
	if c.client == nil {
		return fmt.Errorf("session: no api client attached")
	}

	var resp loginResponse
	err := c.client.PostPublic(ctx, "/api/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		logging.Warn(c.logger, "login failed", "error", err)
		return err
	}
	if resp.Token == "" {
		return &api.AuthError{Message: "login response carried no token"}
	}

	user, err := decodeUser(resp.Token)
	if err != nil {
		logging.Warn(c.logger, "login token unreadable", "error", err)
		return &api.DecodeError{Err: err}
	}

	c.install(domain.Session{Token: resp.Token, User: user})
	logging.Info(c.logger, "login successful", slog.String(logging.FieldUser, user.Username))
	if c.navigator != nil {
		c.navigator.NavigateTo(RoutePostAuth)
	}
	return nil
}

// Credentials carries a registration request.
type Credentials struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account. When the server answers with a token the new
// account is logged straight in; otherwise the caller lands on the login
// screen. Validation failures surface as a ServerRejection with every
// itemized message.
func (c *Context) Register(ctx context.Context, creds Credentials) error {
	if c.client == nil {
		return fmt.Errorf("session: no api client attached")
	}

	var resp loginResponse
	if err := c.client.PostPublic(ctx, "/api/register", creds, &resp); err != nil {
		logging.Warn(c.logger, "registration failed", "error", err)
		return err
	}

	if resp.Token != "" {
		if user, err := decodeUser(resp.Token); err == nil {
			c.install(domain.Session{Token: resp.Token, User: user})
			if c.navigator != nil {
				c.navigator.NavigateTo(RoutePostAuth)
			}
			return nil
		}
	}

	if c.navigator != nil {
		c.navigator.NavigateTo(RoutePreAuth)
	}
	return nil
}

// Logout clears the in-memory and persisted session, resets dependent
// caches, and navigates pre-auth. It is purely local; the server holds no
// session state beyond the token it signed.
func (c *Context) Logout() {
	c.mu.Lock()
	c.session = domain.Session{}
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			logging.Warn(c.logger, "failed to clear persisted session", "error", err)
		}
	}
	for _, r := range c.resetters {
		r.Reset()
	}
	logging.Info(c.logger, "logged out")
	if c.navigator != nil {
		c.navigator.NavigateTo(RoutePreAuth)
	}
}

func (c *Context) install(sess domain.Session) {
	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(sess); err != nil {
			logging.Warn(c.logger, "failed to persist session", "error", err)
		}
	}
}
