// Package conversation holds the observable client-side conversation state:
// the message list, the live emotion vector, the typing flag, and the input
// buffer. Views subscribe for change notifications instead of polling.
package conversation

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/auralab/companion/internal/model/emotion"
)

// Message is one rendered chat bubble. Immutable once created.
type Message struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsFromUser bool      `json:"isFromUser"`
}

// Event identifies which slice of state changed.
type Event int

const (
	EventMessages Event = iota
	EventEmotions
	EventTyping
	EventInput
)

// Store is the single source of truth for one conversation's UI state.
// All mutation happens through its methods; subscribers are notified
// synchronously after each change.
type Store struct {
	mu       sync.RWMutex
	messages []Message
	emotions emotion.Vector
	typing   bool
	input    string
	subs     map[int]func(Event)
	nextSub  int
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(Event))}
}

// Subscribe registers a change listener and returns an unsubscribe func.
// Listeners are invoked synchronously and must not call back into the Store.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notifyLocked(ev Event) {
	for _, fn := range s.subs {
		fn(ev)
	}
}

// AppendUser appends a user-authored message and returns it.
func (s *Store) AppendUser(content string) Message {
	return s.append(content, true)
}

// AppendAI appends an AI-authored message and returns it.
func (s *Store) AppendAI(content string) Message {
	return s.append(content, false)
}

func (s *Store) append(content string, fromUser bool) Message {
	msg := Message{
		ID:         uuid.NewString(),
		Content:    content,
		Timestamp:  time.Now().UTC(),
		IsFromUser: fromUser,
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.notifyLocked(EventMessages)
	s.mu.Unlock()
	return msg
}

// Messages returns the message list in timestamp order.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// SetEmotions replaces the live emotion vector.
func (s *Store) SetEmotions(v emotion.Vector) {
	s.mu.Lock()
	s.emotions = v.Clone()
	s.notifyLocked(EventEmotions)
	s.mu.Unlock()
}

// Emotions returns a copy of the live emotion vector; may be nil.
func (s *Store) Emotions() emotion.Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emotions.Clone()
}

// SetTyping sets the typing indicator. No notification fires when the
// value is unchanged.
func (s *Store) SetTyping(typing bool) {
	s.mu.Lock()
	if s.typing != typing {
		s.typing = typing
		s.notifyLocked(EventTyping)
	}
	s.mu.Unlock()
}

// Typing reports whether the AI is currently "typing".
func (s *Store) Typing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typing
}

// SetInput replaces the input buffer.
func (s *Store) SetInput(text string) {
	s.mu.Lock()
	if s.input != text {
		s.input = text
		s.notifyLocked(EventInput)
	}
	s.mu.Unlock()
}

// Input returns the current input buffer.
func (s *Store) Input() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input
}

// Clear drops messages, emotions, and the input buffer. Used on reset.
func (s *Store) Clear() {
	s.mu.Lock()
	s.messages = nil
	s.emotions = nil
	s.input = ""
	s.notifyLocked(EventMessages)
	s.notifyLocked(EventEmotions)
	s.notifyLocked(EventInput)
	s.mu.Unlock()
}
