// Package session owns the client side of one backend conversation: the
// session identifier, the applied persona configuration, and the state
// transitions around send, reset, and end-of-chat.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/auralab/companion/internal/backend"
	"github.com/auralab/companion/internal/conversation"
	"github.com/auralab/companion/internal/model/emotion"
	"github.com/auralab/companion/internal/model/persona"
	"github.com/auralab/companion/internal/service/drip"
	"github.com/auralab/companion/internal/storage"
)

// ErrNoUser is returned by user-scoped operations when no user is
// authenticated. No network call is made in that case.
var ErrNoUser = errors.New("no authenticated user")

// UserIDFunc exposes the authentication collaborator: it returns the
// current user id, or "" when nobody is signed in.
type UserIDFunc func() string

// Session reconciles local conversation state with the backend. One live
// instance per authenticated user; the token store is the source of truth
// for the session id across restarts.
type Session struct {
	api    *backend.Client
	tokens *storage.TokenStore
	userID UserIDFunc
	state  *conversation.Store
	drip   *drip.Scheduler

	mu        sync.Mutex
	sessionID string
	applied   persona.Persona
}

// New wires a Session. The persisted session token for the current user,
// if any, is restored immediately.
func New(api *backend.Client, tokens *storage.TokenStore, userID UserIDFunc, state *conversation.Store, scheduler *drip.Scheduler) *Session {
	s := &Session{
		api:    api,
		tokens: tokens,
		userID: userID,
		state:  state,
		drip:   scheduler,
	}
	if uid := userID(); uid != "" {
		if token, ok := tokens.Load(uid); ok {
			s.sessionID = token
		}
	}
	return s
}

// SessionID returns the current backend session id, or "".
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Send submits a user message. Empty or whitespace-only text is a silent
// no-op. The user message is appended locally before the network call so
// it renders immediately even on a slow connection.
func (s *Session) Send(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	s.state.AppendUser(trimmed)
	s.state.SetInput("")
	s.state.SetTyping(true)

	req := backend.ChatRequest{Message: trimmed}
	if uid := s.userID(); uid != "" {
		req.UserID = uid
	}
	if sid := s.SessionID(); sid != "" {
		req.SessionID = sid
	}

	resp, err := s.api.Chat(ctx, req)
	if err != nil {
		s.state.SetTyping(false)
		return fmt.Errorf("send failed: %w", err)
	}

	if resp.SessionID != "" {
		s.adoptSessionID(resp.SessionID, req.UserID)
	}
	if resp.Emotions != nil {
		s.state.SetEmotions(emotion.ClampMood(resp.Emotions))
	}

	if strings.TrimSpace(resp.Response) == "" {
		s.state.SetTyping(false)
		return nil
	}
	s.drip.Enqueue(resp.Response)
	return nil
}

// adoptSessionID replaces the local session id and persists it. A
// successful send is one of only two places the persisted id changes.
func (s *Session) adoptSessionID(id, userID string) {
	s.mu.Lock()
	s.sessionID = id
	s.mu.Unlock()
	if userID == "" {
		return
	}
	if err := s.tokens.Save(userID, id); err != nil {
		log.Printf("[session] failed to persist session id: %v", err)
	}
}

// Reset asks the backend to wipe the conversation. Local state is cleared
// only after the backend confirms success; on any failure everything is
// left untouched and the backend message is surfaced verbatim.
func (s *Session) Reset(ctx context.Context) error {
	uid := s.userID()
	if uid == "" {
		return ErrNoUser
	}

	resp, err := s.api.Reset(ctx, uid)
	if err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	if !resp.Success {
		return errors.New(resp.Message)
	}

	s.drip.Cancel()
	s.state.Clear()

	s.mu.Lock()
	s.sessionID = ""
	s.mu.Unlock()
	if err := s.tokens.Clear(uid); err != nil {
		log.Printf("[session] failed to clear persisted session id: %v", err)
	}
	return nil
}

// EndChat signals that the conversation is over. Requires both a resolved
// session id and a user id; with either missing there is nothing to end
// and the call is skipped. Safe to invoke repeatedly; the response is
// logged, never acted on.
func (s *Session) EndChat(ctx context.Context) {
	uid := s.userID()
	sid := s.SessionID()
	if uid == "" || sid == "" {
		return
	}

	resp, err := s.api.EndChat(ctx, backend.EndChatRequest{SessionID: sid, UserID: uid})
	if err != nil {
		log.Printf("[session] end-chat call failed: %v", err)
		return
	}
	log.Printf("[session] chat ended: memory_saved=%v tracking_saved=%v", resp.MemorySaved, resp.TrackingSaved)
}

// FetchInitialEmotions loads the persisted mood snapshot on startup.
func (s *Session) FetchInitialEmotions(ctx context.Context) error {
	uid := s.userID()
	if uid == "" {
		return ErrNoUser
	}
	v, err := s.api.Emotions(ctx, uid)
	if err != nil {
		return fmt.Errorf("fetching emotions: %w", err)
	}
	s.state.SetEmotions(emotion.ClampMood(v))
	return nil
}

// ApplyPersona copies the persona's base emotions, sensitivity, and
// instructions into the live working configuration. The document itself
// is not mutated.
func (s *Session) ApplyPersona(p persona.Persona) {
	s.mu.Lock()
	s.applied = p.Clone()
	s.mu.Unlock()
	s.state.SetEmotions(p.BaseEmotions.Clone())
}

// AppliedPersona returns the working persona configuration.
func (s *Session) AppliedPersona() persona.Persona {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied.Clone()
}
