package discord

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/onnwee/quotecaster/quotes"
)

func testCommands(t *testing.T) (*Commands, string) {
	t.Helper()
	dir := t.TempDir()
	avatarDir := filepath.Join(dir, "avatars")
	if err := os.MkdirAll(avatarDir, 0o755); err != nil {
		t.Fatalf("mkdir avatars: %v", err)
	}
	c := &Commands{
		store:   quotes.NewStore(filepath.Join(dir, "quotes.json")),
		avatars: &quotes.Avatars{Dir: avatarDir, BaseURL: "http://localhost:8080/avatars"},
	}
	return c, avatarDir
}

func TestAddQuoteCommand(t *testing.T) {
	c, avatarDir := testCommands(t)
	if err := os.WriteFile(filepath.Join(avatarDir, "alice.png"), []byte("img"), 0o644); err != nil {
		t.Fatalf("write avatar: %v", err)
	}

	reply, err := c.addQuote("hello", "alice")
	if err != nil {
		t.Fatalf("addQuote error: %v", err)
	}
	if !strings.Contains(reply, "1 total") {
		t.Errorf("reply = %q, want count mention", reply)
	}
	if c.store.Len() != 1 {
		t.Errorf("store len = %d, want 1", c.store.Len())
	}
	// Persisted to disk as part of the command.
	fresh := quotes.NewStore(filepath.Join(filepath.Dir(avatarDir), "quotes.json"))
	fresh.Load()
	if fresh.Len() != 1 {
		t.Errorf("persisted len = %d, want 1", fresh.Len())
	}
}

func TestAddQuoteCommandValidation(t *testing.T) {
	c, _ := testCommands(t)

	cases := []struct {
		name   string
		text   string
		avatar string
	}{
		{"empty text", "   ", ""},
		{"unknown avatar", "hi", "ghost"},
		{"malformed avatar name", "hi", "../etc"},
	}
	for _, tc := range cases {
		_, err := c.addQuote(tc.text, tc.avatar)
		if !quotes.IsValidation(err) {
			t.Errorf("%s: err = %v, want ValidationError", tc.name, err)
		}
	}
	if c.store.Len() != 0 {
		t.Errorf("store mutated by rejected commands: len = %d", c.store.Len())
	}
}

func TestPostQuoteCommand(t *testing.T) {
	c, _ := testCommands(t)
	fake := &fakeWebhookAPI{}
	c.pub = &Publisher{api: fake}

	// Empty store: friendly reply, no error, nothing published.
	reply, err := c.postQuote(context.Background(), "chan-1")
	if err != nil {
		t.Fatalf("postQuote on empty store: err = %v, want nil", err)
	}
	if !strings.Contains(reply, "No quotes") {
		t.Errorf("reply = %q, want no-quotes message", reply)
	}
	if fake.created != 0 {
		t.Errorf("published %d messages from an empty store, want 0", fake.created)
	}

	if _, err := c.addQuote("hello", ""); err != nil {
		t.Fatalf("addQuote error: %v", err)
	}
	reply, err = c.postQuote(context.Background(), "chan-1")
	if err != nil {
		t.Fatalf("postQuote error: %v", err)
	}
	if reply != "Quote posted." {
		t.Errorf("reply = %q, want confirmation", reply)
	}
	if len(fake.executed) != 1 || fake.executed[0].Content != "hello" {
		t.Errorf("executed = %+v, want the stored quote", fake.executed)
	}
}

func TestListAvatarsCommand(t *testing.T) {
	c, avatarDir := testCommands(t)
	if got := c.listAvatars(); got != "No avatars available." {
		t.Errorf("listAvatars on empty dir = %q", got)
	}
	if err := os.WriteFile(filepath.Join(avatarDir, "bob.gif"), []byte("img"), 0o644); err != nil {
		t.Fatalf("write avatar: %v", err)
	}
	if got := c.listAvatars(); !strings.Contains(got, "bob") {
		t.Errorf("listAvatars = %q, want bob listed", got)
	}
}

func TestUserMessage(t *testing.T) {
	ve := &quotes.ValidationError{Reason: "quote text is empty"}
	if got := userMessage(ve); !strings.Contains(got, ve.Reason) {
		t.Errorf("userMessage(validation) = %q, want reason included", got)
	}
	if got := userMessage(&DeliveryError{Stage: "execute webhook", Err: errors.New("boom")}); got != genericErrorReply {
		t.Errorf("userMessage(delivery) = %q, want generic reply", got)
	}
	if got := userMessage(errors.New("weird")); got != genericErrorReply {
		t.Errorf("userMessage(unknown) = %q, want generic reply", got)
	}
}
