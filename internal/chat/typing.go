package chat

import (
	"context"
	"sync"
	"time"
)

// typingDebounce is the writer-side quiet period: a session with no
// keystrokes for this long deletes its own indicator row. Readers apply the
// larger model.TypingHorizon on top, so a writer that dies mid-debounce
// still expires.
const typingDebounce = 3 * time.Second

// TypingSession drives the typing indicator for one (conversation, user)
// pair. Keystroke refreshes the row and re-arms the local debounce timer;
// the timer, an explicit Stop, or sending a message deletes the row. The
// timer is local state owned by this session only.
type TypingSession struct {
	service        *Service
	conversationID string
	userID         string
	debounce       time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	typing bool
}

func (s *Service) NewTypingSession(conversationID, userID string) *TypingSession {
	return &TypingSession{
		service:        s,
		conversationID: conversationID,
		userID:         userID,
		debounce:       typingDebounce,
	}
}

// Keystroke transitions idle → typing (writing the row) or refreshes the
// debounce timer when already typing.
func (t *TypingSession) Keystroke(ctx context.Context) error {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.debounce, t.autoStop)
	t.typing = true
	t.mu.Unlock()

	// the row is refreshed on every keystroke, not only on the
	// idle → typing edge, so readers always see a fresh started_at
	return t.service.StartTyping(ctx, t.conversationID, t.userID)
}

// Stop transitions to idle: cancels the pending auto-stop and deletes the
// indicator row. Safe to call when already idle.
func (t *TypingSession) Stop(ctx context.Context) error {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	wasTyping := t.typing
	t.typing = false
	t.mu.Unlock()

	if !wasTyping {
		return nil
	}

	return t.service.StopTyping(ctx, t.conversationID, t.userID)
}

func (t *TypingSession) autoStop() {
	// fired from the timer goroutine; the originating request context is
	// long gone
	_ = t.Stop(context.Background())
}
