// Package session owns the persisted record of the signed-in user: identity,
// role and bearer token. Exactly one session exists per storage backend.
package session

import (
	"encoding/json"
	"fmt"
)

// Role determines both command routing and backend authorization
type Role string

const (
	RoleCustomer     Role = "customer"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleProfessional, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Session is the login payload as returned by the backend. Keys the client
// does not model are kept in Extra so the record round-trips unchanged.
type Session struct {
	AccessToken  string                     `json:"access_token"`
	RefreshToken string                     `json:"refresh_token,omitempty"`
	UserID       int64                      `json:"user_id,omitempty"`
	Role         Role                       `json:"role"`
	Email        string                     `json:"email,omitempty"`
	Name         string                     `json:"name,omitempty"`
	Extra        map[string]json.RawMessage `json:"-"`
}

var knownFields = map[string]bool{
	"access_token":  true,
	"refresh_token": true,
	"user_id":       true,
	"role":          true,
	"email":         true,
	"name":          true,
}

// sessionFields avoids recursion through the custom (un)marshalers
type sessionFields Session

// MarshalJSON writes the known fields and every Extra key as one object
func (s Session) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(sessionFields(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(s.Extra)+len(knownFields))
	for k, v := range s.Extra {
		if knownFields[k] {
			continue
		}
		merged[k] = v
	}
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

// UnmarshalJSON reads the known fields and stashes the rest in Extra
func (s *Session) UnmarshalJSON(data []byte) error {
	var fields sessionFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("session record is not an object")
	}

	fields.Extra = nil
	for k, v := range raw {
		if knownFields[k] {
			continue
		}
		if fields.Extra == nil {
			fields.Extra = make(map[string]json.RawMessage)
		}
		fields.Extra[k] = v
	}

	*s = Session(fields)
	return nil
}

// Clone returns a deep copy so callers cannot mutate shared state
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

// DisplayName returns the most human-friendly identifier available
func (s *Session) DisplayName() string {
	switch {
	case s.Name != "" && s.Email != "":
		return fmt.Sprintf("%s (%s)", s.Name, s.Email)
	case s.Email != "":
		return s.Email
	case s.Name != "":
		return s.Name
	case s.UserID != 0:
		return fmt.Sprintf("user #%d", s.UserID)
	default:
		return "unknown user"
	}
}
