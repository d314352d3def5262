package chat

import (
	"context"
	"errors"
)

// ErrStorage marks failures of the underlying persistence layer so handlers
// can map them without inspecting driver-specific errors.
var ErrStorage = errors.New("conversation storage failure")

// TurnStore abstracts turn persistence so the chat service can run against
// Postgres in production and the in-memory store in dev mode and tests.
type TurnStore interface {
	// Append durably writes one turn. ID and CreatedAt are assigned by the
	// caller; insertion order breaks CreatedAt ties.
	Append(ctx context.Context, turn Turn) error
	// RecentDesc returns up to limit turns for the session, newest first.
	RecentDesc(ctx context.Context, sessionID string, limit int) ([]Turn, error)
	// BySession returns every turn for the session, oldest first.
	BySession(ctx context.Context, sessionID string) ([]Turn, error)
}
