// Package session persists the authenticated identity (token, role, user id)
// between screens.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
)

var (
	// ErrNoSession is returned by Load when the token or user id is missing.
	ErrNoSession = errors.New("no active session")
	// ErrNotFound is returned by a Store when nothing is stored under an id.
	ErrNotFound = errors.New("session not found")
)

// Session is the persisted triple. UserID is zero when the login response
// carried none of the identifier fields.
type Session struct {
	Token  string      `json:"token" yaml:"token"`
	Role   entity.Role `json:"role" yaml:"role"`
	UserID entity.ID   `json:"userId" yaml:"userId"`
}

// Complete reports whether the session can be used by a protected screen.
func (s *Session) Complete() bool {
	return s != nil && s.Token != "" && !s.UserID.IsZero()
}

// Store is a keyed session backend. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, id string, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Context binds one session id to a Store. The portal creates one per
// browser session; the CLI uses a single fixed id.
type Context struct {
	store Store
	id    string
}

func NewContext(store Store, id string) *Context {
	return &Context{store: store, id: id}
}

// ID returns the key this context reads and writes.
func (c *Context) ID() string {
	return c.id
}

// Save normalizes the role, resolves the user id from the login response
// fields (doctorID, then patientId, then id) and persists all three.
func (c *Context) Save(ctx context.Context, token, rawRole string, ids map[string]json.RawMessage) (*Session, error) {
	userID, _ := entity.ResolveID(entity.KindAccount, ids)
	s := &Session{
		Token:  token,
		Role:   entity.NormalizeRole(rawRole),
		UserID: userID,
	}
	if err := c.store.Put(ctx, c.id, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	log.Debug().Str("role", string(s.Role)).Str("userId", s.UserID.String()).Msg("session saved")
	return s, nil
}

// Load returns the stored session, or ErrNoSession when there is none or it
// lacks a token or user id.
func (c *Context) Load(ctx context.Context) (*Session, error) {
	s, err := c.store.Get(ctx, c.id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !s.Complete() {
		return nil, ErrNoSession
	}
	return s, nil
}

// Clear removes the session. Clearing an absent session is not an error.
func (c *Context) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when there is none. A stored
// token is returned even when the user id is missing, matching what the
// gateway would send on any request.
func (c *Context) Token(ctx context.Context) string {
	s, err := c.store.Get(ctx, c.id)
	if err != nil || s == nil {
		return ""
	}
	return s.Token
}
