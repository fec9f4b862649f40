// Package drip paces the delivery of multi-line AI replies so they land as
// separate messages with a simulated typing delay, the way a person sends
// several short texts instead of one wall of text.
package drip

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Config tunes delivery pacing. Delay per segment is
// clamp(runeCount*DelayPerRune, MinDelay, MaxDelay).
type Config struct {
	DelayPerRune time.Duration
	MinDelay     time.Duration
	MaxDelay     time.Duration
}

// DefaultConfig returns the production pacing: 0.1s per rune, clamped to
// one to five seconds per segment.
func DefaultConfig() Config {
	return Config{
		DelayPerRune: 100 * time.Millisecond,
		MinDelay:     1 * time.Second,
		MaxDelay:     5 * time.Second,
	}
}

// Scheduler drains queued reply segments one at a time. A single drain
// sequence runs per scheduler; Enqueue during a drain extends the queue
// tail, and Cancel halts everything before returning.
//
// The deliver and typing callbacks are invoked with the scheduler lock
// held and must not call back into the Scheduler.
type Scheduler struct {
	mu       sync.Mutex
	cfg      Config
	deliver  func(segment string)
	typing   func(active bool)
	pending  []string
	draining bool
	gen      int
	wake     chan struct{}
}

// New creates a scheduler delivering segments to deliver and reflecting
// its busy state through typing. Both callbacks are required.
func New(cfg Config, deliver func(string), typing func(bool)) *Scheduler {
	if cfg.DelayPerRune <= 0 {
		cfg = DefaultConfig()
	}
	return &Scheduler{
		cfg:     cfg,
		deliver: deliver,
		typing:  typing,
		wake:    make(chan struct{}),
	}
}

// Enqueue splits reply on line breaks, trims each segment, drops empties,
// and appends the survivors to the queue. Starts a drain if none is
// running; an active drain simply picks the new segments up in order.
func (s *Scheduler) Enqueue(reply string) {
	segments := splitReply(reply)
	if len(segments) == 0 {
		return
	}

	s.mu.Lock()
	s.pending = append(s.pending, segments...)
	if !s.draining {
		s.draining = true
		s.typing(true)
		go s.drain(s.gen)
	}
	s.mu.Unlock()
}

// Cancel empties the queue and revokes any scheduled delivery. After Cancel
// returns no further segment from before the call can land. Idempotent and
// safe to call while idle.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	s.gen++
	s.pending = nil
	if s.draining {
		s.draining = false
		close(s.wake)
		s.wake = make(chan struct{})
	}
	s.typing(false)
	s.mu.Unlock()
}

// Pending returns the number of queued segments.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// drain delivers queued segments until the queue empties or gen is revoked.
func (s *Scheduler) drain(gen int) {
	for {
		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			return
		}
		if len(s.pending) == 0 {
			s.draining = false
			s.typing(false)
			s.mu.Unlock()
			return
		}
		segment := s.pending[0]
		s.pending = s.pending[1:]
		delay := s.delayFor(segment)
		wake := s.wake
		s.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-wake:
			timer.Stop()
			return
		}

		s.mu.Lock()
		if gen != s.gen {
			// Cancelled while the timer was in flight; the segment is dropped.
			s.mu.Unlock()
			return
		}
		s.deliver(segment)
		s.mu.Unlock()
	}
}

func (s *Scheduler) delayFor(segment string) time.Duration {
	d := time.Duration(utf8.RuneCountInString(segment)) * s.cfg.DelayPerRune
	if d < s.cfg.MinDelay {
		d = s.cfg.MinDelay
	}
	if d > s.cfg.MaxDelay {
		d = s.cfg.MaxDelay
	}
	return d
}

func splitReply(reply string) []string {
	lines := strings.Split(reply, "\n")
	segments := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		segments = append(segments, trimmed)
	}
	return segments
}
