package backend

import (
	"context"
	"net/http"

	"github.com/auralab/companion/internal/model/persona"
)

// ListPersonas fetches the persona catalog for a user.
func (c *Client) ListPersonas(ctx context.Context, userID string) ([]persona.Persona, error) {
	var out []persona.Persona
	if err := c.do(ctx, http.MethodGet, "/personas?userId="+userID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePersona asks the backend to create a persona and returns the
// created document with its backend-assigned id.
func (c *Client) CreatePersona(ctx context.Context, userID string, p persona.Persona) (*persona.Persona, error) {
	payload := struct {
		UserID string `json:"userId"`
		persona.Persona
	}{UserID: userID, Persona: p}

	var out persona.Persona
	if err := c.do(ctx, http.MethodPost, "/personas", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePersona replaces the persona document on the backend.
func (c *Client) UpdatePersona(ctx context.Context, userID string, p persona.Persona) error {
	payload := struct {
		UserID string `json:"userId"`
		persona.Persona
	}{UserID: userID, Persona: p}
	return c.do(ctx, http.MethodPut, "/personas/"+p.ID, payload, nil)
}

// DeletePersona removes the persona from the backend catalog.
func (c *Client) DeletePersona(ctx context.Context, userID, id string) error {
	return c.do(ctx, http.MethodDelete, "/personas/"+id+"?userId="+userID, nil, nil)
}
