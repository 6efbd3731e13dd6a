package main

import (
	"context"
	"log"

	"course-assistant-be/internal/bootstrap"
	"course-assistant-be/internal/config"
	"course-assistant-be/internal/server"
	"course-assistant-be/internal/tracer"
	"course-assistant-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (skipped for the in-memory vector store)
	var gormDB *gorm.DB
	if cfg.Rag.VectorStore != "memory" {
		var err error
		gormDB, err = database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if err := database.EnsureSchema(gormDB); err != nil {
			log.Panicf("Unable to migrate schema: %v", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Enqueue startup indexing of the docs folder
	go func() {
		res, err := container.IngestionService.EnqueueFolder(context.Background(), cfg.App.DocsPath)
		if err != nil {
			log.Printf("Startup indexing skipped: %v", err)
			return
		}
		log.Printf("Startup indexing: %d course documents enqueued", len(res.Enqueued))
	}()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
