package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/audit"
	"github.com/acadcentral/acportal_backend/internal/config"
	"github.com/acadcentral/acportal_backend/internal/migrate"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/routes"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/syncer"
	"github.com/acadcentral/acportal_backend/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg := config.Load()

	st, err := store.Open(cfg.StatePath)
	if err != nil {
		log.Fatalf("opening local state failed: %v", err)
	}

	hub := ws.NewEventsHub()
	go hub.Run()

	rec := &audit.Recorder{Store: st, Broadcast: func(entry models.AuditEntry) {
		hub.Broadcast("audit", entry)
	}}

	sy := syncer.New(cfg.MirrorBaseURL, st, cfg.HydrateTimeout)
	state := sy.Run(context.Background(), func() {
		migrate.Run(st, cfg)
		migrate.Seed(st, cfg)
	})
	log.Println("sync state:", state)

	// Forward push outcomes to the admin event feed.
	go func() {
		for ev := range sy.Events() {
			if ev.Err != nil {
				hub.Broadcast("sync", gin.H{"key": ev.Key, "error": ev.Err.Error()})
				continue
			}
			hub.Broadcast("sync", gin.H{"key": ev.Key, "count": ev.Count})
		}
	}()

	r := gin.Default()
	routes.Portal(r, cfg, st, rec, hub)

	log.Println("portal listening on port", cfg.PortalPort)
	if err := r.Run(":" + cfg.PortalPort); err != nil {
		log.Println("server exited with error:", err)
		os.Exit(1)
	}
}
