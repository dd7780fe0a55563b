// Package auth signs users in and out against the homeserv backend and keeps
// the resulting session in the session store.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/homeserv-dev/homeserv/internal/cli/session"
)

// ErrNoAccessToken is returned when the backend accepts a login but sends no token
var ErrNoAccessToken = errors.New("login response did not include an access token")

// Transport is the part of the API client the auth flows need
type Transport interface {
	DoPublic(ctx context.Context, method, path string, body, out any) error
}

// SessionStore is the persistence the auth client writes through
type SessionStore interface {
	Save(s *session.Session) error
	Clear() error
}

// Credentials are the login form fields
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the fixed field set sent to auth/register
type Registration struct {
	Email       string       `json:"email" validate:"required,email"`
	Password    string       `json:"password" validate:"required,min=6"`
	Name        string       `json:"name" validate:"required"`
	Role        session.Role `json:"role" validate:"required,oneof=customer professional"`
	Address     string       `json:"address" validate:"required_if=Role customer"`
	Pin         string       `json:"pin" validate:"omitempty,numeric"`
	ServiceType string       `json:"service_type" validate:"required_if=Role professional"`
	Experience  string       `json:"experience"`
}

// RegisterResponse is the backend's acknowledgement of a new account
type RegisterResponse struct {
	Message string       `json:"message"`
	UserID  int64        `json:"user_id"`
	Role    session.Role `json:"role"`
}

// Client performs login, registration and logout
type Client struct {
	transport Transport
	store     SessionStore
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewClient creates an auth client
func NewClient(transport Transport, store SessionStore, log zerolog.Logger) *Client {
	return &Client{
		transport: transport,
		store:     store,
		validate:  validator.New(),
		log:       log.With().Str("component", "auth").Logger(),
	}
}

// Login exchanges credentials for a session. The session is persisted before
// Login returns, so the next request or navigation sees it.
func (c *Client) Login(ctx context.Context, creds Credentials) (*session.Session, error) {
	if err := c.validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	var s session.Session
	if err := c.transport.DoPublic(ctx, http.MethodPost, "auth/login", creds, &s); err != nil {
		return nil, err
	}

	if s.AccessToken == "" {
		return nil, ErrNoAccessToken
	}
	if s.Email == "" {
		s.Email = creds.Email
	}

	if err := c.store.Save(&s); err != nil {
		return nil, err
	}

	c.log.Info().Int64("user_id", s.UserID).Str("role", s.Role.String()).Msg("Logged in")
	return &s, nil
}

// Register creates an account. It does not sign the user in.
func (c *Client) Register(ctx context.Context, reg Registration) (*RegisterResponse, error) {
	if err := c.validate.Struct(reg); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	body := registrationBody(reg)

	var resp RegisterResponse
	if err := c.transport.DoPublic(ctx, http.MethodPost, "auth/register", body, &resp); err != nil {
		return nil, err
	}

	c.log.Info().Str("role", reg.Role.String()).Msg("Registered account")
	return &resp, nil
}

// Logout forgets the local session. The backend keeps no session state.
func (c *Client) Logout() error {
	if err := c.store.Clear(); err != nil {
		return err
	}
	c.log.Info().Msg("Logged out")
	return nil
}

// registrationBody encodes pin as a number when it is one; the backend
// stores it as an integer column.
func registrationBody(reg Registration) map[string]any {
	var pin any = reg.Pin
	if reg.Pin != "" {
		n := json.Number(reg.Pin)
		if _, err := n.Int64(); err == nil {
			pin = n
		}
	}

	return map[string]any{
		"email":        reg.Email,
		"password":     reg.Password,
		"name":         reg.Name,
		"role":         reg.Role,
		"address":      reg.Address,
		"pin":          pin,
		"service_type": reg.ServiceType,
		"experience":   reg.Experience,
	}
}
