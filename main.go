package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"easybus/pkg/app"
	"easybus/pkg/config"
)

func main() {
	cfg := config.Load()
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init failed: %v", err)
	}

	// The model loads in the background; until it is ready /analyze answers 503.
	a.Model.LoadAsync(context.Background())
	useApp(a)

	r := gin.Default()
	setupRoutes(r)

	log.Printf("easybus listening on :%s (ocr=%s threshold=%.0f)", cfg.Port, a.Engine.Name(), cfg.ConfidenceThreshold)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
