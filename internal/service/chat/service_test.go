package chat_test

import (
	"context"
	"fmt"
	"testing"

	model "github.com/brightcart/support-chat/backend/internal/model/chat"
	"github.com/brightcart/support-chat/backend/internal/repository/memory"
	chat "github.com/brightcart/support-chat/backend/internal/service/chat"
)

func seedTurns(t *testing.T, svc *chat.Service, sessionID string, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := svc.AppendTurn(context.Background(), sessionID,
			fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
		if err != nil {
			t.Fatalf("AppendTurn err: %v", err)
		}
	}
}

func TestRecentTurnsBoundedAndChronological(t *testing.T) {
	svc := chat.NewService(memory.NewTurnStore())
	ctx := context.Background()
	seedTurns(t, svc, "s1", 5)

	turns, err := svc.RecentTurns(ctx, "s1", 3)
	if err != nil {
		t.Fatalf("RecentTurns err: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	for i, want := range []string{"question 3", "question 4", "question 5"} {
		if turns[i].UserMessage != want {
			t.Fatalf("turn %d out of order: got %q want %q", i, turns[i].UserMessage, want)
		}
	}
}

func TestRecentTurnsFewerThanLimit(t *testing.T) {
	svc := chat.NewService(memory.NewTurnStore())
	ctx := context.Background()
	seedTurns(t, svc, "s1", 2)

	turns, err := svc.RecentTurns(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("RecentTurns err: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].UserMessage != "question 1" || turns[1].UserMessage != "question 2" {
		t.Fatalf("turns out of order: %q, %q", turns[0].UserMessage, turns[1].UserMessage)
	}
}

func TestRecentTurnsEmptySession(t *testing.T) {
	svc := chat.NewService(memory.NewTurnStore())

	turns, err := svc.RecentTurns(context.Background(), "unknown", 10)
	if err != nil {
		t.Fatalf("RecentTurns err: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected no turns, got %d", len(turns))
	}
}

func TestFullHistoryInterleavesSenders(t *testing.T) {
	svc := chat.NewService(memory.NewTurnStore())
	ctx := context.Background()
	seedTurns(t, svc, "s1", 3)

	entries, err := svc.FullHistory(ctx, "s1")
	if err != nil {
		t.Fatalf("FullHistory err: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		wantSender := model.SenderUser
		if i%2 == 1 {
			wantSender = model.SenderAI
		}
		if entry.Sender != wantSender {
			t.Fatalf("entry %d: got sender %q want %q", i, entry.Sender, wantSender)
		}
	}
	if entries[4].Text != "question 3" || entries[5].Text != "answer 3" {
		t.Fatalf("last turn text mismatch: %q, %q", entries[4].Text, entries[5].Text)
	}
}

func TestAppendThenHistoryRoundTrip(t *testing.T) {
	svc := chat.NewService(memory.NewTurnStore())
	ctx := context.Background()
	seedTurns(t, svc, "s1", 2)

	if _, err := svc.AppendTurn(ctx, "s1", "where is my parcel?", "it ships tomorrow"); err != nil {
		t.Fatalf("AppendTurn err: %v", err)
	}

	entries, err := svc.FullHistory(ctx, "s1")
	if err != nil {
		t.Fatalf("FullHistory err: %v", err)
	}

	last := entries[len(entries)-2:]
	if last[0].Sender != model.SenderUser || last[0].Text != "where is my parcel?" {
		t.Fatalf("unexpected user entry: %+v", last[0])
	}
	if last[1].Sender != model.SenderAI || last[1].Text != "it ships tomorrow" {
		t.Fatalf("unexpected ai entry: %+v", last[1])
	}
}

func TestReadsAreIdempotent(t *testing.T) {
	svc := chat.NewService(memory.NewTurnStore())
	ctx := context.Background()
	seedTurns(t, svc, "s1", 4)

	first, err := svc.RecentTurns(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("RecentTurns err: %v", err)
	}
	second, err := svc.RecentTurns(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("RecentTurns err: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("read lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("turn %d differs between reads", i)
		}
	}

	h1, _ := svc.FullHistory(ctx, "s1")
	h2, _ := svc.FullHistory(ctx, "s1")
	if len(h1) != len(h2) {
		t.Fatalf("history lengths differ: %d vs %d", len(h1), len(h2))
	}
}

func TestFullHistoryEmptySession(t *testing.T) {
	svc := chat.NewService(memory.NewTurnStore())

	entries, err := svc.FullHistory(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("FullHistory err: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil history, got %#v", entries)
	}
}
