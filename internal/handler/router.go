// Package handler wires the dev backend's HTTP surface.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/auralab/companion/internal/handler/chat"
	configHandler "github.com/auralab/companion/internal/handler/config"
	personaHandler "github.com/auralab/companion/internal/handler/persona"
	middlewarePkg "github.com/auralab/companion/internal/middleware"
	personaModel "github.com/auralab/companion/internal/model/persona"
	chatService "github.com/auralab/companion/internal/service/chat"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas *personaModel.Catalog, chatSvc *chatService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chat := chatHandler.New(chatSvc)
	config := configHandler.New(chatSvc)
	persona := personaHandler.New(personas)

	r.Route("/api", func(api chi.Router) {
		chat.RegisterRoutes(api)
		config.RegisterRoutes(api)
		persona.RegisterRoutes(api)
	})

	return r
}
