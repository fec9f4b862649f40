package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auralab/companion/internal/model/emotion"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 2*time.Second), srv
}

func TestChatSendsSessionAndUser(t *testing.T) {
	var got ChatRequest
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ChatResponse{
			Response:  "hello there",
			SessionID: "sess-1",
			Emotions:  emotion.Vector{"Joy": 42},
		})
	})
	defer srv.Close()

	resp, err := client.Chat(context.Background(), ChatRequest{
		Message:   "hi",
		SessionID: "prev-sess",
		UserID:    "user-1",
	})
	if err != nil {
		t.Fatalf("Chat err: %v", err)
	}

	if got.Message != "hi" || got.SessionID != "prev-sess" || got.UserID != "user-1" {
		t.Fatalf("request payload = %+v", got)
	}
	if resp.Response != "hello there" || resp.SessionID != "sess-1" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Emotions["Joy"] != 42 {
		t.Fatalf("emotions = %v", resp.Emotions)
	}
}

func TestChatSurfacesBackendError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "model unavailable"})
	})
	defer srv.Close()

	_, err := client.Chat(context.Background(), ChatRequest{Message: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "model unavailable"; !strings.Contains(err.Error(), want) {
		t.Fatalf("error %q does not mention %q", err, want)
	}
}

func TestChatMalformedResponseIsError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})
	defer srv.Close()

	if _, err := client.Chat(context.Background(), ChatRequest{Message: "hi"}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestResetRoundTrip(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reset" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(ResetResponse{
			Success:         true,
			Message:         "reset complete",
			EmotionsDeleted: true,
			MemoryDeleted:   true,
			UserID:          payload["userId"],
		})
	})
	defer srv.Close()

	resp, err := client.Reset(context.Background(), "user-9")
	if err != nil {
		t.Fatalf("Reset err: %v", err)
	}
	if !resp.Success || resp.UserID != "user-9" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestEmotionsQuery(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/config/emotions" || r.URL.Query().Get("userId") != "u1" {
			t.Fatalf("unexpected request %s", r.URL)
		}
		json.NewEncoder(w).Encode(map[string]any{"emotions": emotion.Vector{"Calm": 30}})
	})
	defer srv.Close()

	v, err := client.Emotions(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Emotions err: %v", err)
	}
	if v["Calm"] != 30 {
		t.Fatalf("vector = %v", v)
	}
}
