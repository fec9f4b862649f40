// Package chat implements the dev backend's conversation state: session
// identity, reply generation, and the simulated emotion snapshot returned
// with every exchange.
package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	analysis "github.com/auralab/companion/internal/analysis/emotion"
	"github.com/auralab/companion/internal/model/emotion"
	"github.com/auralab/companion/internal/model/persona"
	"github.com/auralab/companion/internal/service/ai"
)

var (
	ErrMessageRequired = errors.New("message is required")
	ErrUserRequired    = errors.New("userId is required")
	ErrSessionNotFound = errors.New("session not found")
)

// userState is one user's server-side conversation context.
type userState struct {
	sessionID string
	persona   persona.Persona
	mood      emotion.Vector
	base      emotion.Vector
	memory    string
	history   []ai.Exchange
}

// Service encapsulates per-user conversation state. Replies come from the
// AI service when one is configured and from the canned generator
// otherwise, with the keyword analyzer simulating mood either way.
type Service struct {
	mu       sync.RWMutex
	ai       *ai.Service
	personas *persona.Catalog
	users    map[string]*userState // keyed by userID, or sessionID for anonymous users
	sessions map[string]string     // sessionID -> users key
}

// NewService bootstraps the in-memory chat service. aiSvc may be nil.
func NewService(aiSvc *ai.Service, personas *persona.Catalog) *Service {
	return &Service{
		ai:       aiSvc,
		personas: personas,
		users:    make(map[string]*userState),
		sessions: make(map[string]string),
	}
}

// ChatResult is what one exchange hands back to the handler.
type ChatResult struct {
	Reply     string
	SessionID string
	Emotions  emotion.Vector
}

// Chat processes one user message and returns the reply, the session id
// (newly minted on the first exchange), and the updated mood snapshot.
func (s *Service) Chat(ctx context.Context, userID, sessionID, message string) (*ChatResult, error) {
	if message == "" {
		return nil, ErrMessageRequired
	}

	state := s.resolveState(userID, sessionID)

	s.mu.RLock()
	p := state.persona
	mood := state.mood.Clone()
	history := append([]ai.Exchange(nil), state.history...)
	sid := state.sessionID
	s.mu.RUnlock()

	reply := ""
	if s.ai != nil {
		generated, err := s.ai.GenerateReply(ctx, p, mood, history, message)
		if err == nil {
			reply = generated
		}
	}
	if reply == "" {
		reply = cannedReply(p, mood, message)
	}

	deltas := analysis.MoodDeltas(message, reply)

	s.mu.Lock()
	state.mood = analysis.Apply(state.mood, deltas, p.Sensitivity)
	state.history = append(state.history, ai.Exchange{UserText: message, AIText: reply})
	snapshot := state.mood.Clone()
	s.mu.Unlock()

	return &ChatResult{Reply: reply, SessionID: sid, Emotions: snapshot}, nil
}

// EndChatResult mirrors what the backend persists when a chat ends.
type EndChatResult struct {
	MemorySaved   bool
	TrackingSaved bool
	UpdatedMemory string
}

// EndChat consolidates the session's history into memory. Repeat calls
// for the same session are harmless.
func (s *Service) EndChat(sessionID, userID string) (*EndChatResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	state := s.users[key]

	saved := false
	if len(state.history) > 0 {
		state.memory = summarizeHistory(state.memory, state.history)
		state.history = nil
		saved = true
	}

	return &EndChatResult{
		MemorySaved:   saved,
		TrackingSaved: saved,
		UpdatedMemory: state.memory,
	}, nil
}

// Reset wipes the user's conversation state. Reports what was deleted.
func (s *Service) Reset(userID string) (emotionsDeleted, memoryDeleted bool, err error) {
	if userID == "" {
		return false, false, ErrUserRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.users[userID]
	if !ok {
		return false, false, nil
	}
	emotionsDeleted = !state.mood.IsZero()
	memoryDeleted = state.memory != ""

	delete(s.sessions, state.sessionID)
	delete(s.users, userID)
	return emotionsDeleted, memoryDeleted, nil
}

// Emotions returns the user's current mood snapshot.
func (s *Service) Emotions(userID string) emotion.Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.users[userID]; ok {
		return state.mood.Clone()
	}
	return emotion.Vector{}
}

// SetEmotions replaces the user's mood snapshot.
func (s *Service) SetEmotions(userID string, v emotion.Vector) {
	state := s.resolveState(userID, "")
	s.mu.Lock()
	state.mood = emotion.ClampMood(v)
	s.mu.Unlock()
}

// BaseEmotions returns the user's persisted base distribution.
func (s *Service) BaseEmotions(userID string) emotion.Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.users[userID]; ok && state.base != nil {
		return state.base.Clone()
	}
	return emotion.Vector{}
}

// SetBaseEmotions replaces the base distribution. Unnormalized
// distributions are rejected; clients normalize before writing.
func (s *Service) SetBaseEmotions(userID string, v emotion.Vector) error {
	if !emotion.IsNormalized(v) {
		return errors.New("base emotions must sum to 100")
	}
	state := s.resolveState(userID, "")
	s.mu.Lock()
	state.base = v.Clone()
	s.mu.Unlock()
	return nil
}

// ConfigAll returns the whole persisted configuration for a user.
func (s *Service) ConfigAll(userID string) (memory string, mood, base emotion.Vector) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.users[userID]; ok {
		return state.memory, state.mood.Clone(), state.base.Clone()
	}
	return "", emotion.Vector{}, emotion.Vector{}
}

// resolveState finds or creates the state for a user. Known session ids
// win over user ids so anonymous sessions keep working after sign-in.
func (s *Service) resolveState(userID, sessionID string) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID != "" {
		if key, ok := s.sessions[sessionID]; ok {
			return s.users[key]
		}
	}
	if userID != "" {
		if state, ok := s.users[userID]; ok {
			return state
		}
	}

	state := &userState{
		sessionID: uuid.NewString(),
		mood:      emotion.Vector{},
	}
	if list := s.personas.List(); len(list) > 0 {
		state.persona = list[0]
		state.base = list[0].BaseEmotions.Clone()
	}

	key := userID
	if key == "" {
		key = state.sessionID
	}
	s.users[key] = state
	s.sessions[state.sessionID] = key
	return state
}
