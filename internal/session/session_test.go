package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/auralab/companion/internal/backend"
	"github.com/auralab/companion/internal/conversation"
	"github.com/auralab/companion/internal/model/emotion"
	"github.com/auralab/companion/internal/model/persona"
	"github.com/auralab/companion/internal/service/drip"
	"github.com/auralab/companion/internal/storage"
)

type fixture struct {
	session  *Session
	state    *conversation.Store
	tokens   *storage.TokenStore
	requests *int64
	server   *httptest.Server
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	state := conversation.NewStore()
	scheduler := drip.New(drip.Config{
		DelayPerRune: time.Millisecond,
		MinDelay:     time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}, func(seg string) { state.AppendAI(seg) }, state.SetTyping)

	tokens := storage.NewTokenStore(filepath.Join(t.TempDir(), "sessions.json"))
	api := backend.NewClient(srv.URL, 2*time.Second)
	sess := New(api, tokens, func() string { return "user-1" }, state, scheduler)

	return &fixture{session: sess, state: state, tokens: tokens, requests: &requests, server: srv}
}

func (f *fixture) requestCount() int64 {
	return atomic.LoadInt64(f.requests)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func chatOK(response, sessionID string, emotions emotion.Vector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(backend.ChatResponse{
			Response:  response,
			SessionID: sessionID,
			Emotions:  emotions,
		})
	}
}

func TestSendEmptyTextIsNoop(t *testing.T) {
	f := newFixture(t, chatOK("never", "", nil))

	for _, text := range []string{"", "   ", "\n\t "} {
		if err := f.session.Send(context.Background(), text); err != nil {
			t.Fatalf("Send(%q) err: %v", text, err)
		}
	}

	if f.requestCount() != 0 {
		t.Fatalf("expected no network calls, got %d", f.requestCount())
	}
	if len(f.state.Messages()) != 0 {
		t.Fatalf("expected no messages, got %v", f.state.Messages())
	}
}

func TestSendAppendsUserMessageBeforeReply(t *testing.T) {
	f := newFixture(t, chatOK("hello back\nsecond line", "sess-1", emotion.Vector{"Joy": 30}))

	if err := f.session.Send(context.Background(), "  hi there  "); err != nil {
		t.Fatalf("Send err: %v", err)
	}

	msgs := f.state.Messages()
	if len(msgs) < 1 || !msgs[0].IsFromUser || msgs[0].Content != "hi there" {
		t.Fatalf("user message missing or untrimmed: %v", msgs)
	}

	waitFor(t, func() bool { return len(f.state.Messages()) == 3 && !f.state.Typing() })
	msgs = f.state.Messages()
	if msgs[1].Content != "hello back" || msgs[2].Content != "second line" {
		t.Fatalf("reply segments wrong: %v", msgs)
	}
	if msgs[1].IsFromUser || msgs[2].IsFromUser {
		t.Fatal("reply segments must be AI-authored")
	}

	if f.session.SessionID() != "sess-1" {
		t.Fatalf("session id = %q", f.session.SessionID())
	}
	if got := f.state.Emotions(); got["Joy"] != 30 {
		t.Fatalf("emotions = %v", got)
	}
}

func TestSendPersistsSessionID(t *testing.T) {
	f := newFixture(t, chatOK("ok", "sess-42", nil))

	if err := f.session.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send err: %v", err)
	}

	tok, ok := f.tokens.Load("user-1")
	if !ok || tok != "sess-42" {
		t.Fatalf("persisted token = %q, %v", tok, ok)
	}
}

func TestNewRestoresPersistedSessionID(t *testing.T) {
	f := newFixture(t, chatOK("ok", "", nil))
	f.tokens.Save("user-1", "cold-start-sess")

	restored := New(backend.NewClient(f.server.URL, time.Second), f.tokens,
		func() string { return "user-1" }, conversation.NewStore(),
		drip.New(drip.Config{DelayPerRune: time.Millisecond, MinDelay: time.Millisecond, MaxDelay: time.Millisecond}, func(string) {}, func(bool) {}))

	if restored.SessionID() != "cold-start-sess" {
		t.Fatalf("restored id = %q", restored.SessionID())
	}
}

func TestFailedSendLeavesSessionIDAndQueueUntouched(t *testing.T) {
	fail := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "backend down"})
	}
	f := newFixture(t, fail)
	f.tokens.Save("user-1", "existing")

	sess := New(backend.NewClient(f.server.URL, time.Second), f.tokens,
		func() string { return "user-1" }, f.state,
		drip.New(drip.Config{DelayPerRune: time.Millisecond, MinDelay: time.Millisecond, MaxDelay: time.Millisecond},
			func(seg string) { f.state.AppendAI(seg) }, f.state.SetTyping))

	err := sess.Send(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error")
	}

	if sess.SessionID() != "existing" {
		t.Fatalf("session id mutated on failure: %q", sess.SessionID())
	}
	if f.state.Typing() {
		t.Fatal("typing flag not cleared on failure")
	}

	time.Sleep(20 * time.Millisecond)
	msgs := f.state.Messages()
	if len(msgs) != 1 || !msgs[0].IsFromUser {
		t.Fatalf("expected only the user message, got %v", msgs)
	}
}

func TestEndChatSkippedWithoutSessionID(t *testing.T) {
	f := newFixture(t, chatOK("ok", "", nil))

	f.session.EndChat(context.Background())
	f.session.EndChat(context.Background())

	if f.requestCount() != 0 {
		t.Fatalf("expected no end-chat calls, got %d", f.requestCount())
	}
}

func TestEndChatFiresWithIdentity(t *testing.T) {
	var sawEndChat int64
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat":
			chatOK("bye", "sess-7", nil)(w, r)
		case "/end-chat":
			atomic.AddInt64(&sawEndChat, 1)
			var req backend.EndChatRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.SessionID != "sess-7" || req.UserID != "user-1" {
				t.Errorf("end-chat payload = %+v", req)
			}
			json.NewEncoder(w).Encode(backend.EndChatResponse{Success: true, MemorySaved: true})
		}
	})

	if err := f.session.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send err: %v", err)
	}
	f.session.EndChat(context.Background())
	f.session.EndChat(context.Background()) // repeated invocation is fine

	if atomic.LoadInt64(&sawEndChat) != 2 {
		t.Fatalf("end-chat calls = %d, want 2", sawEndChat)
	}
}

func TestResetSuccessClearsEverything(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat":
			chatOK("a\nb\nc\nd", "sess-1", emotion.Vector{"Joy": 50})(w, r)
		case "/reset":
			json.NewEncoder(w).Encode(backend.ResetResponse{Success: true, Message: "done", UserID: "user-1"})
		}
	})

	if err := f.session.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send err: %v", err)
	}
	if err := f.session.Reset(context.Background()); err != nil {
		t.Fatalf("Reset err: %v", err)
	}

	if f.session.SessionID() != "" {
		t.Fatalf("session id survived reset: %q", f.session.SessionID())
	}
	if _, ok := f.tokens.Load("user-1"); ok {
		t.Fatal("persisted token survived reset")
	}
	if len(f.state.Messages()) != 0 || f.state.Emotions() != nil {
		t.Fatal("local state survived reset")
	}
	if f.state.Typing() {
		t.Fatal("typing flag survived reset")
	}

	// No queued segment from before the reset may land afterwards.
	time.Sleep(30 * time.Millisecond)
	if len(f.state.Messages()) != 0 {
		t.Fatalf("drip delivered after reset: %v", f.state.Messages())
	}
}

func TestResetFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat":
			chatOK("reply", "sess-1", nil)(w, r)
		case "/reset":
			json.NewEncoder(w).Encode(backend.ResetResponse{Success: false, Message: "nothing to reset"})
		}
	})

	if err := f.session.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send err: %v", err)
	}
	waitFor(t, func() bool { return !f.state.Typing() })

	err := f.session.Reset(context.Background())
	if err == nil || err.Error() != "nothing to reset" {
		t.Fatalf("expected verbatim backend message, got %v", err)
	}

	if f.session.SessionID() != "sess-1" {
		t.Fatal("session id cleared on failed reset")
	}
	if len(f.state.Messages()) == 0 {
		t.Fatal("messages cleared on failed reset")
	}
}

func TestApplyPersonaCopiesWithoutAliasing(t *testing.T) {
	f := newFixture(t, chatOK("ok", "", nil))
	p := persona.Seed()[0]

	f.session.ApplyPersona(p)

	live := f.state.Emotions()
	if !live.Equal(p.BaseEmotions) {
		t.Fatalf("live emotions = %v, want %v", live, p.BaseEmotions)
	}

	// Mutating the document afterwards must not leak into the session.
	p.BaseEmotions["Joy"] = 999
	if f.session.AppliedPersona().BaseEmotions["Joy"] == 999 {
		t.Fatal("applied persona aliases the document")
	}
}

func TestFetchInitialEmotionsRequiresUser(t *testing.T) {
	f := newFixture(t, chatOK("ok", "", nil))
	anon := New(backend.NewClient(f.server.URL, time.Second), f.tokens,
		func() string { return "" }, f.state,
		drip.New(drip.Config{DelayPerRune: time.Millisecond, MinDelay: time.Millisecond, MaxDelay: time.Millisecond}, func(string) {}, func(bool) {}))

	if err := anon.FetchInitialEmotions(context.Background()); err != ErrNoUser {
		t.Fatalf("err = %v, want ErrNoUser", err)
	}
	if f.requestCount() != 0 {
		t.Fatal("network call made without user")
	}
}
