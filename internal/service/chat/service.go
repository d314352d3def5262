package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightcart/support-chat/backend/internal/model/chat"
)

// PromptHistoryLimit bounds the turns included as model context. It exists
// for upstream cost and latency control only; FullHistory is unaffected.
const PromptHistoryLimit = 10

// Service manages the append-only conversation log.
type Service struct {
	store chat.TurnStore
}

// NewService wires the conversation service to a turn store.
func NewService(store chat.TurnStore) *Service {
	return &Service{store: store}
}

// AppendTurn persists one immutable turn with a server-assigned timestamp.
func (s *Service) AppendTurn(ctx context.Context, sessionID, userMessage, assistantReply string) (chat.Turn, error) {
	turn := chat.Turn{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		UserMessage:    userMessage,
		AssistantReply: assistantReply,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.Append(ctx, turn); err != nil {
		return chat.Turn{}, fmt.Errorf("append turn: %w", err)
	}
	return turn, nil
}

// RecentTurns returns up to limit of the most recent turns for the session
// in chronological order, ready for direct inclusion as prompt context.
func (s *Service) RecentTurns(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	newestFirst, err := s.store.RecentDesc(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent turns: %w", err)
	}

	return reverseChronological(newestFirst), nil
}

// FullHistory returns the complete renderable transcript for the session:
// two entries per turn, user then ai, turns in chronological order.
func (s *Service) FullHistory(ctx context.Context, sessionID string) ([]chat.TranscriptEntry, error) {
	turns, err := s.store.BySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	entries := make([]chat.TranscriptEntry, 0, len(turns)*2)
	for _, turn := range turns {
		entries = append(entries,
			chat.TranscriptEntry{Sender: chat.SenderUser, Text: turn.UserMessage},
			chat.TranscriptEntry{Sender: chat.SenderAI, Text: turn.AssistantReply},
		)
	}
	return entries, nil
}

// reverseChronological reorders a newest-first fetch into oldest-first.
// Skipping this step would hand the generator history in reverse order.
func reverseChronological(newestFirst []chat.Turn) []chat.Turn {
	chronological := make([]chat.Turn, len(newestFirst))
	for i, turn := range newestFirst {
		chronological[len(newestFirst)-1-i] = turn
	}
	return chronological
}
