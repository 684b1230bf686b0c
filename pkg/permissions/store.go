// pkg/permissions/store.go
package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidIdentifier marks a caller-supplied id that does not parse as a UUID.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrStoreUnavailable marks store connectivity or query failures.
	ErrStoreUnavailable = errors.New("permission store unavailable")
)

// Store loads permission aggregates for claims issuance. Implementations are
// read-only: records are written by the administrative workflow, never here.
// Both child sets must be fully materialized on return (no partial loads).
type Store interface {
	GetPermissions(ctx context.Context, userID uuid.UUID) ([]Record, error)
}

// ParseID parses a caller-supplied raw identifier, mapping failures to
// ErrInvalidIdentifier so handlers can translate them to a 400.
func ParseID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return id, nil
}
