package store

import (
	"context"
	"errors"

	"github.com/codec25/Studio-flow/internal/model"
)

// ErrUnavailable marks a persistence backend that is unreachable or not
// configured. Loads that fail this way degrade to an empty state; saves
// are best-effort and surface the error to the caller to log.
var ErrUnavailable = errors.New("state store unavailable")

// Store persists the whole state document as a single snapshot.
type Store interface {
	// Load returns the current snapshot, or a normalized empty state when
	// nothing has been saved yet.
	Load(ctx context.Context) (*model.State, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, st *model.State) error
}
