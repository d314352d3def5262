package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/brightcart/support-chat/backend/internal/model/chat"
)

// scriptedModel returns a canned reply or error and records the prompt it
// was handed, so tests can assert on the assembled role sequence.
type scriptedModel struct {
	reply string
	err   error
	calls [][]*schema.Message
}

func (m *scriptedModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls = append(m.calls, input)
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *scriptedModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (m *scriptedModel) BindTools(_ []*schema.ToolInfo) error {
	return nil
}

func newTestService(t *testing.T, m *scriptedModel) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), m)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	return svc
}

func turn(user, assistant string) chat.Turn {
	return chat.Turn{UserMessage: user, AssistantReply: assistant}
}

func TestGenerateReplyPromptOrder(t *testing.T) {
	scripted := &scriptedModel{reply: "happy to help"}
	svc := newTestService(t, scripted)

	history := []chat.Turn{
		turn("u1", "a1"),
		turn("u2", "a2"),
		turn("u3", "a3"),
	}

	reply, err := svc.GenerateReply(context.Background(), history, "new question")
	if err != nil {
		t.Fatalf("GenerateReply err: %v", err)
	}
	if reply != "happy to help" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if len(scripted.calls) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(scripted.calls))
	}
	prompt := scripted.calls[0]

	wantRoles := []schema.RoleType{
		schema.System,
		schema.User, schema.Assistant,
		schema.User, schema.Assistant,
		schema.User, schema.Assistant,
		schema.User,
	}
	if len(prompt) != len(wantRoles) {
		t.Fatalf("expected %d prompt messages, got %d", len(wantRoles), len(prompt))
	}
	for i, want := range wantRoles {
		if prompt[i].Role != want {
			t.Fatalf("message %d: got role %q want %q", i, prompt[i].Role, want)
		}
	}

	wantContent := []string{"u1", "a1", "u2", "a2", "u3", "a3", "new question"}
	for i, want := range wantContent {
		if prompt[i+1].Content != want {
			t.Fatalf("message %d: got content %q want %q", i+1, prompt[i+1].Content, want)
		}
	}
	if prompt[0].Content != systemPrompt {
		t.Fatal("system message does not carry the persona preamble")
	}
}

func TestGenerateReplyEmptyHistory(t *testing.T) {
	scripted := &scriptedModel{reply: "welcome"}
	svc := newTestService(t, scripted)

	if _, err := svc.GenerateReply(context.Background(), nil, "hello"); err != nil {
		t.Fatalf("GenerateReply err: %v", err)
	}

	prompt := scripted.calls[0]
	if len(prompt) != 2 {
		t.Fatalf("expected system + user, got %d messages", len(prompt))
	}
	if prompt[0].Role != schema.System || prompt[1].Role != schema.User {
		t.Fatalf("unexpected roles: %q, %q", prompt[0].Role, prompt[1].Role)
	}
}

func TestGenerateReplyEmptyGeneration(t *testing.T) {
	svc := newTestService(t, &scriptedModel{reply: "   "})

	_, err := svc.GenerateReply(context.Background(), nil, "hello")
	if !errors.Is(err, ErrEmptyGeneration) {
		t.Fatalf("expected ErrEmptyGeneration, got %v", err)
	}
}

func TestGenerateReplyClassifiesModelError(t *testing.T) {
	svc := newTestService(t, &scriptedModel{err: fakeStatusError{status: 429}})

	_, err := svc.GenerateReply(context.Background(), nil, "hello")

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Category != CategoryRateLimit {
		t.Fatalf("expected rate limit category, got %q", upstream.Category)
	}
}

func TestSystemPromptIsStaticKnowledgeBase(t *testing.T) {
	text, version := SystemPrompt()
	if version == "" {
		t.Fatal("prompt version must not be empty")
	}
	for _, fact := range []string{"Support hours", "Payment", "Shipping", "Returns"} {
		if !strings.Contains(text, fact) {
			t.Fatalf("preamble is missing the %q knowledge-base section", fact)
		}
	}
}
