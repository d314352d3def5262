package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightcart/support-chat/backend/internal/model/chat"
)

// turns carries a bigserial seq column so that simultaneous writes with
// equal created_at timestamps still order by arrival at the store.
// pgx runs statements over the extended protocol one at a time.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS turns (
		id              UUID PRIMARY KEY,
		seq             BIGSERIAL,
		session_id      TEXT NOT NULL,
		user_message    TEXT NOT NULL,
		assistant_reply TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_turns_session_created ON turns (session_id, created_at, seq)`,
}

// TurnStore persists turns in PostgreSQL.
type TurnStore struct {
	pool *pgxpool.Pool
}

// NewTurnStore creates a Postgres-backed turn store.
func NewTurnStore(pool *pgxpool.Pool) *TurnStore {
	return &TurnStore{pool: pool}
}

// EnsureSchema creates the turns table and its index when missing.
func (s *TurnStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure turns schema: %w", err)
		}
	}
	return nil
}

// Append inserts one immutable turn record.
func (s *TurnStore) Append(ctx context.Context, turn chat.Turn) error {
	query := `
		INSERT INTO turns (id, session_id, user_message, assistant_reply, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		turn.ID,
		turn.SessionID,
		turn.UserMessage,
		turn.AssistantReply,
		turn.CreatedAt,
	)
	if err != nil {
		if isDuplicateError(err) {
			return fmt.Errorf("turn %s already exists: %w", turn.ID, chat.ErrStorage)
		}
		return fmt.Errorf("insert turn: %w: %w", chat.ErrStorage, err)
	}

	return nil
}

// RecentDesc fetches up to limit turns for the session, newest first.
func (s *TurnStore) RecentDesc(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	query := `
		SELECT id, session_id, user_message, assistant_reply, created_at
		FROM turns
		WHERE session_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent turns: %w: %w", chat.ErrStorage, err)
	}
	defer rows.Close()

	return scanTurns(rows)
}

// BySession fetches every turn for the session, oldest first.
func (s *TurnStore) BySession(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	query := `
		SELECT id, session_id, user_message, assistant_reply, created_at
		FROM turns
		WHERE session_id = $1
		ORDER BY created_at ASC, seq ASC
	`

	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session turns: %w: %w", chat.ErrStorage, err)
	}
	defer rows.Close()

	return scanTurns(rows)
}

func scanTurns(rows pgx.Rows) ([]chat.Turn, error) {
	turns := make([]chat.Turn, 0, 16)
	for rows.Next() {
		var turn chat.Turn
		err := rows.Scan(
			&turn.ID,
			&turn.SessionID,
			&turn.UserMessage,
			&turn.AssistantReply,
			&turn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan turn: %w: %w", chat.ErrStorage, err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w: %w", chat.ErrStorage, err)
	}
	return turns, nil
}
