package chat

import "time"

// Sender tags for transcript entries rendered by the widget.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Turn persists one request/response exchange. Turns are immutable once
// written; a session exists only as the set of turns sharing a SessionID.
type Turn struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"sessionId"`
	UserMessage    string    `json:"userMessage"`
	AssistantReply string    `json:"assistantReply"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TranscriptEntry is the shape the widget renders directly: one entry per
// user message and one per generated reply.
type TranscriptEntry struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}
