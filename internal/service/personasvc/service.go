// Package personasvc synchronizes the persona catalog with the backend
// and applies personas to the live conversation session.
package personasvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/auralab/companion/internal/backend"
	"github.com/auralab/companion/internal/model/emotion"
	"github.com/auralab/companion/internal/model/persona"
	"github.com/auralab/companion/internal/session"
)

var (
	// ErrNotNormalized rejects writes whose distribution does not sum to
	// 100. The store never normalizes on write so editing UIs can hold
	// un-normalized intermediate state and fix it before committing.
	ErrNotNormalized = errors.New("base emotions must be normalized before update")
	ErrNoUser        = errors.New("no authenticated user")
)

// Service owns persona CRUD. Every mutation goes through the backend
// first; the local catalog mirrors confirmed state only.
type Service struct {
	catalog *persona.Catalog
	api     *backend.Client
	userID  session.UserIDFunc
}

// New creates the persona service.
func New(catalog *persona.Catalog, api *backend.Client, userID session.UserIDFunc) *Service {
	return &Service{catalog: catalog, api: api, userID: userID}
}

// Catalog exposes the synced catalog for read access.
func (s *Service) Catalog() *persona.Catalog {
	return s.catalog
}

// Sync replaces the local catalog with the backend's.
func (s *Service) Sync(ctx context.Context) error {
	uid := s.userID()
	if uid == "" {
		return ErrNoUser
	}
	items, err := s.api.ListPersonas(ctx, uid)
	if err != nil {
		return fmt.Errorf("syncing personas: %w", err)
	}
	s.catalog.Replace(items)
	return nil
}

// Create asks the backend for a new persona and adds the returned document
// (with its backend-assigned id) to the catalog. The default distribution
// is normalized by construction.
func (s *Service) Create(ctx context.Context) (persona.Persona, error) {
	uid := s.userID()
	if uid == "" {
		return persona.Persona{}, ErrNoUser
	}

	draft := persona.Persona{
		Name: "New Persona",
		BaseEmotions: emotion.Normalize(emotion.Vector{
			"Joy": 20, "Affection": 20, "Curiosity": 20, "Energy": 20, "Calm": 20,
		}),
		Sensitivity: 50,
	}

	created, err := s.api.CreatePersona(ctx, uid, draft)
	if err != nil {
		return persona.Persona{}, fmt.Errorf("creating persona: %w", err)
	}
	s.catalog.Upsert(*created)
	return created.Clone(), nil
}

// Update replaces the persona document. Callers normalize BaseEmotions
// before calling; an unnormalized distribution is rejected, not fixed.
func (s *Service) Update(ctx context.Context, p persona.Persona) error {
	uid := s.userID()
	if uid == "" {
		return ErrNoUser
	}
	if !emotion.IsNormalized(p.BaseEmotions) {
		return ErrNotNormalized
	}

	if err := s.api.UpdatePersona(ctx, uid, p); err != nil {
		return fmt.Errorf("updating persona: %w", err)
	}
	s.catalog.Upsert(p)
	return nil
}

// Delete removes the persona. The catalog clears the applied pointer if
// it referenced this id.
func (s *Service) Delete(ctx context.Context, id string) error {
	uid := s.userID()
	if uid == "" {
		return ErrNoUser
	}
	if err := s.api.DeletePersona(ctx, uid, id); err != nil {
		return fmt.Errorf("deleting persona: %w", err)
	}
	s.catalog.Remove(id)
	return nil
}

// Apply copies the persona into the live session's working configuration
// and records the applied pointer. The document itself is untouched.
func (s *Service) Apply(p persona.Persona, sess *session.Session) {
	sess.ApplyPersona(p)
	s.catalog.SetApplied(p.ID)
}
