package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	log "github.com/sirupsen/logrus"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"moodboard/internal/board/export"
	"moodboard/internal/board/handlers"
	"moodboard/internal/board/render"
	"moodboard/internal/board/repository"
	"moodboard/internal/board/service"
	"moodboard/internal/common/config"
	"moodboard/internal/common/middleware"
)

// ============================================================
// Board Service
// ============================================================

func main() {
	cfg := config.Load()
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	store := repository.NewSQLite(db)
	if err := store.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	registry := service.NewRegistry(repository.NewPersistence(store))

	assets := service.NewAssetStorage(cfg.AssetsDir, "/assets")
	rasterizer, err := render.NewPNGRasterizer(assets)
	if err != nil {
		log.Fatalf("init rasterizer: %v", err)
	}
	exporter := export.NewExporter(rasterizer,
		export.WithArtifact(cfg.ExportArtifact),
		export.WithScale(cfg.ExportScale))

	boardHandler := handlers.NewBoardHandler(registry, assets, exporter, cfg.BoardWidth, cfg.BoardHeight)
	healthHandler := handlers.NewHealthHandler(store)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    16 * 1024 * 1024,
		AppName:      "Moodboard Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", healthHandler.LivenessProbe)
	app.Get("/health/ready", healthHandler.ReadinessProbe)

	// ============================================================
	// API Docs Routes
	// ============================================================

	app.Get("/docs", handlers.DocsPage)
	app.Get("/docs/openapi.yaml", handlers.OpenAPIDocument)

	// ============================================================
	// Board Routes
	// ============================================================

	boardHandler.Register(app)
	app.Get("/assets*", static.New(cfg.AssetsDir))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Infof("Starting Moodboard Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
