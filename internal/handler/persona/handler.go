// Package persona exposes the persona catalog CRUD endpoints.
package persona

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/auralab/companion/internal/model/persona"
	"github.com/auralab/companion/pkg/utils"
)

// Handler serves the /personas routes.
type Handler struct {
	personas *persona.Catalog
}

// New creates the persona handler.
func New(personas *persona.Catalog) *Handler {
	return &Handler{personas: personas}
}

// RegisterRoutes mounts the persona routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleList)
	r.Post("/personas", h.handleCreate)
	r.Put("/personas/{id}", h.handleUpdate)
	r.Delete("/personas/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.personas.List())
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
		persona.Persona
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}

	p := payload.Persona
	p.ID = uuid.NewString()
	h.personas.Upsert(p)
	utils.RespondJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.personas.FindByID(id); !ok {
		utils.RespondError(w, http.StatusNotFound, "persona not found")
		return
	}

	var payload struct {
		UserID string `json:"userId"`
		persona.Persona
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := payload.Persona
	p.ID = id
	h.personas.Upsert(p)
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.personas.Remove(id) {
		utils.RespondError(w, http.StatusNotFound, "persona not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
