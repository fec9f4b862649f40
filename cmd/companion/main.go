// Command companion is the terminal chat client. It talks to the
// companion backend, drips replies into the conversation line by line,
// and paints an emotion gradient above the transcript.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/auralab/companion/internal/aura"
	"github.com/auralab/companion/internal/backend"
	"github.com/auralab/companion/internal/config"
	"github.com/auralab/companion/internal/conversation"
	"github.com/auralab/companion/internal/display"
	"github.com/auralab/companion/internal/model/persona"
	"github.com/auralab/companion/internal/service/drip"
	"github.com/auralab/companion/internal/service/personasvc"
	"github.com/auralab/companion/internal/session"
	"github.com/auralab/companion/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	tokenPath, err := storage.DefaultPath()
	if err != nil {
		log.Fatalf("failed to resolve token path: %v", err)
	}
	tokens := storage.NewTokenStore(tokenPath)

	userID := func() string { return cfg.Client.UserID }
	api := backend.NewClient(cfg.Client.BackendURL, cfg.Client.RequestTimeout)
	store := conversation.NewStore()

	scheduler := drip.New(drip.DefaultConfig(),
		func(segment string) { store.AppendAI(segment) },
		func(typing bool) { store.SetTyping(typing) },
	)
	defer scheduler.Cancel()

	sess := session.New(api, tokens, userID, store, scheduler)
	personas := personasvc.New(persona.NewCatalog(persona.Seed()), api, userID)

	// Startup sync is best effort; the seeded catalog and a neutral
	// gradient cover an unreachable backend.
	if err := personas.Sync(ctx); err != nil {
		log.Printf("[client] persona sync skipped: %v", err)
	}
	if err := sess.FetchInitialEmotions(ctx); err != nil {
		log.Printf("[client] initial emotions skipped: %v", err)
	}

	deriver := aura.New(aura.DefaultOptions())
	ui := display.NewUI(store, sess, personas, deriver)
	if err := ui.Run(ctx); err != nil {
		log.Fatalf("ui error: %v", err)
	}
}
