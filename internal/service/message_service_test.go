package service

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"jobboard/internal/data"
	"jobboard/internal/entity"
)

func newTestStorage(t *testing.T) *data.Storage {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("could not open in-memory database: %v", err)
	}
	if err := data.AutoMigrate(db); err != nil {
		t.Fatalf("could not migrate: %v", err)
	}
	return data.NewStorage(db)
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var (
	alice = entity.Participant{Type: "user", ID: "1"}
	acme  = entity.Participant{Type: "company", ID: "5"}
	bob   = entity.Participant{Type: "user", ID: "2"}
)

func TestSendAndGetMessages(t *testing.T) {
	svc := NewMessageService(newTestStorage(t), newTestLogger())

	sent, err := svc.Send(alice, acme, "Hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if sent.ID == "" {
		t.Error("sent message has no id")
	}
	if sent.Seen {
		t.Error("freshly sent message is marked seen")
	}

	messages, err := svc.GetMessages(acme, alice)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if messages[0].Text != "Hello" {
		t.Errorf("got text %q, want %q", messages[0].Text, "Hello")
	}
	if messages[0].Sender() != alice || messages[0].Receiver() != acme {
		t.Errorf("sender/receiver mismatch: %+v", messages[0])
	}
}

func TestSendValidation(t *testing.T) {
	svc := NewMessageService(newTestStorage(t), newTestLogger())

	cases := []struct {
		name             string
		sender, receiver entity.Participant
		text             string
	}{
		{"empty text", alice, acme, ""},
		{"blank text", alice, acme, "   "},
		{"missing sender id", entity.Participant{Type: "user"}, acme, "hi"},
		{"missing receiver type", alice, entity.Participant{ID: "5"}, "hi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Send(tc.sender, tc.receiver, tc.text)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("got %v, want ValidationError", err)
			}
		})
	}
}

func TestMessageOrdering(t *testing.T) {
	svc := NewMessageService(newTestStorage(t), newTestLogger())

	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.Send(alice, acme, text); err != nil {
			t.Fatalf("Send(%q) failed: %v", text, err)
		}
	}
	if _, err := svc.Send(acme, alice, "reply"); err != nil {
		t.Fatalf("Send(reply) failed: %v", err)
	}

	messages, err := svc.GetMessages(alice, acme)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	want := []string{"first", "second", "third", "reply"}
	if len(messages) != len(want) {
		t.Fatalf("got %d messages, want %d", len(messages), len(want))
	}
	for i, text := range want {
		if messages[i].Text != text {
			t.Errorf("message %d: got %q, want %q", i, messages[i].Text, text)
		}
	}
}

func TestUnreadLifecycle(t *testing.T) {
	svc := NewMessageService(newTestStorage(t), newTestLogger())

	if _, err := svc.Send(alice, acme, "one"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := svc.UnreadCount(acme, alice); got != 1 {
		t.Errorf("after one send: unread = %d, want 1", got)
	}

	if _, err := svc.Send(alice, acme, "two"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := svc.UnreadCount(acme, alice); got != 2 {
		t.Errorf("after two sends: unread = %d, want 2", got)
	}
	// Sender side stays untouched.
	if got := svc.UnreadCount(alice, acme); got != 0 {
		t.Errorf("sender unread = %d, want 0", got)
	}

	updated, err := svc.MarkAsRead(acme, alice)
	if err != nil {
		t.Fatalf("MarkAsRead failed: %v", err)
	}
	if updated != 2 {
		t.Errorf("MarkAsRead flipped %d rows, want 2", updated)
	}
	if got := svc.UnreadCount(acme, alice); got != 0 {
		t.Errorf("after mark-read: unread = %d, want 0", got)
	}

	// Marking again is a no-op.
	updated, err = svc.MarkAsRead(acme, alice)
	if err != nil {
		t.Fatalf("second MarkAsRead failed: %v", err)
	}
	if updated != 0 {
		t.Errorf("second MarkAsRead flipped %d rows, want 0", updated)
	}
}

func TestTotalUnreadCountSpansSenders(t *testing.T) {
	svc := NewMessageService(newTestStorage(t), newTestLogger())

	if _, err := svc.Send(alice, acme, "from alice"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := svc.Send(bob, acme, "from bob"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if got := svc.TotalUnreadCount(acme); got != 2 {
		t.Errorf("TotalUnreadCount = %d, want 2", got)
	}
	if _, err := svc.MarkAsRead(acme, alice); err != nil {
		t.Fatalf("MarkAsRead failed: %v", err)
	}
	if got := svc.TotalUnreadCount(acme); got != 1 {
		t.Errorf("after reading alice: TotalUnreadCount = %d, want 1", got)
	}
}

func TestConversationSummaries(t *testing.T) {
	svc := NewMessageService(newTestStorage(t), newTestLogger())

	if _, err := svc.Send(alice, acme, "Hello"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	summaries, err := svc.GetConversations(acme)
	if err != nil {
		t.Fatalf("GetConversations failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d conversations, want 1", len(summaries))
	}
	summary := summaries[0]
	if summary.OtherType != "user" || summary.OtherID != "1" {
		t.Errorf("other party = %s_%s, want user_1", summary.OtherType, summary.OtherID)
	}
	if summary.LastMessage != "Hello" {
		t.Errorf("last message = %q, want %q", summary.LastMessage, "Hello")
	}
	if summary.UnreadCount != 1 {
		t.Errorf("unread = %d, want 1", summary.UnreadCount)
	}

	// The sender sees the same conversation with nothing unread.
	summaries, err = svc.GetConversations(alice)
	if err != nil {
		t.Fatalf("GetConversations failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("sender got %d conversations, want 1", len(summaries))
	}
	if summaries[0].OtherType != "company" || summaries[0].OtherID != "5" {
		t.Errorf("other party = %s_%s, want company_5", summaries[0].OtherType, summaries[0].OtherID)
	}
	if summaries[0].UnreadCount != 0 {
		t.Errorf("sender unread = %d, want 0", summaries[0].UnreadCount)
	}
}

func TestConversationUpsertKeepsOneRow(t *testing.T) {
	svc := NewMessageService(newTestStorage(t), newTestLogger())

	if _, err := svc.Send(alice, acme, "first"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := svc.Send(acme, alice, "latest"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	stats := svc.Stats()
	if stats.TotalConversations != 1 {
		t.Errorf("conversations = %d, want 1", stats.TotalConversations)
	}

	summaries, err := svc.GetConversations(alice)
	if err != nil {
		t.Fatalf("GetConversations failed: %v", err)
	}
	if summaries[0].LastMessage != "latest" {
		t.Errorf("last message = %q, want %q", summaries[0].LastMessage, "latest")
	}
}

func TestConversationsMostRecentFirst(t *testing.T) {
	svc := NewMessageService(newTestStorage(t), newTestLogger())

	if _, err := svc.Send(alice, acme, "older thread"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	time.Sleep(time.Millisecond) // distinct last_timestamp per conversation
	if _, err := svc.Send(bob, acme, "newer thread"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	summaries, err := svc.GetConversations(acme)
	if err != nil {
		t.Fatalf("GetConversations failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d conversations, want 2", len(summaries))
	}
	if summaries[0].OtherID != bob.ID || summaries[1].OtherID != alice.ID {
		t.Errorf("order = [%s, %s], want [%s, %s]",
			summaries[0].OtherID, summaries[1].OtherID, bob.ID, alice.ID)
	}

	// A new message in the older thread bumps it back to the top.
	time.Sleep(time.Millisecond)
	if _, err := svc.Send(alice, acme, "revived"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	summaries, err = svc.GetConversations(acme)
	if err != nil {
		t.Fatalf("GetConversations failed: %v", err)
	}
	if summaries[0].OtherID != alice.ID {
		t.Errorf("after revival: top conversation is %s_%s, want user_1",
			summaries[0].OtherType, summaries[0].OtherID)
	}
	if summaries[0].LastMessage != "revived" {
		t.Errorf("top last message = %q, want %q", summaries[0].LastMessage, "revived")
	}
}

func TestClearAndStats(t *testing.T) {
	svc := NewMessageService(newTestStorage(t), newTestLogger())

	if _, err := svc.Send(alice, acme, "one"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := svc.Send(bob, acme, "two"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	stats := svc.Stats()
	if stats.TotalMessages != 2 || stats.TotalConversations != 2 || stats.TotalUnreadCounts != 2 {
		t.Errorf("stats before clear = %+v", stats)
	}

	if err := svc.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	stats = svc.Stats()
	if stats.TotalMessages != 0 || stats.TotalConversations != 0 || stats.TotalUnreadCounts != 0 {
		t.Errorf("stats after clear = %+v", stats)
	}
	if got := svc.UnreadCount(acme, alice); got != 0 {
		t.Errorf("unread after clear = %d, want 0", got)
	}
}
