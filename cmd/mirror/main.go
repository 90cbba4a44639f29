package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/config"
	"github.com/acadcentral/acportal_backend/internal/mirror"
	"github.com/acadcentral/acportal_backend/internal/routes"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := mirror.Connect(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := mirror.EnsureSchema(db); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}

	r := gin.Default()
	routes.Mirror(r, mirror.NewStore(db))

	log.Println("mirror listening on port", cfg.MirrorPort)
	if err := r.Run(":" + cfg.MirrorPort); err != nil {
		log.Println("server exited with error:", err)
		os.Exit(1)
	}
}
