// Package session persists conversation state between turns.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"finchat/internal/state"
)

// ErrNotFound is returned when a session id has no stored state.
var ErrNotFound = errors.New("session not found")

// Info is the listing view of a stored session.
type Info struct {
	ID        string    `json:"id"`
	Companies []string  `json:"companies"`
	Turns     int       `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store loads and saves conversation state. Round-trip fidelity of the
// state fields is the only schema requirement.
type Store interface {
	Load(ctx context.Context, id string) (*state.ConversationState, error)
	Save(ctx context.Context, st *state.ConversationState) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Info, error)
	Close() error
}

// NewSessionID mints a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}
