package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/brightcart/support-chat/backend/internal/model/chat"
)

// Service generates support replies by delegating to a hosted chat model.
// Each call is a single stateless round trip; no session state is held here.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the reply chain around the supplied chat model. The
// model is injected so tests can substitute a scripted fake.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile reply chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// GenerateReply produces one reply for the new message given the prior turns
// in chronological order. Failures are returned as typed categories; no
// retry is attempted here.
func (s *Service) GenerateReply(ctx context.Context, history []chat.Turn, message string) (string, error) {
	response, err := s.chain.Invoke(ctx, buildChainInput(history, message))
	if err != nil {
		return "", classify(err)
	}

	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", ErrEmptyGeneration
	}

	log.Printf("[ai] generated reply, history=%d turns, length=%d", len(history), len(response.Content))
	return response.Content, nil
}

func buildChainInput(history []chat.Turn, message string) map[string]any {
	return map[string]any{
		"system":  systemPrompt,
		"history": buildHistoryMessages(history),
		"query":   message,
	}
}

// buildHistoryMessages expands each turn into a user/assistant role pair,
// preserving input order exactly. Ordering correctness is the caller's
// responsibility.
func buildHistoryMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns)*2)
	for _, turn := range turns {
		history = append(history,
			schema.UserMessage(turn.UserMessage),
			schema.AssistantMessage(turn.AssistantReply, nil),
		)
	}
	return history
}
