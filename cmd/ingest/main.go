package main

import (
	"context"
	"flag"
	"os"

	"course-assistant-be/internal/config"
	"course-assistant-be/internal/pkg/logger"
	"course-assistant-be/internal/repository/contract"
	"course-assistant-be/internal/repository/implementation"
	"course-assistant-be/internal/repository/memory"
	"course-assistant-be/internal/service"
	"course-assistant-be/pkg/database"
	"course-assistant-be/pkg/embedding"
	"course-assistant-be/pkg/rag/chunker"

	"github.com/fatih/color"
)

// ingest synchronously indexes every course document in a folder. Unlike the
// REST server's background consumer, failures here are visible immediately.
func main() {
	dir := flag.String("dir", "./docs", "folder with course documents")
	flag.Parse()

	cfg := config.Load()

	var chunkRepo contract.ChunkRepository
	if cfg.Rag.VectorStore == "memory" {
		color.Yellow("VECTOR_STORE=memory persists nothing; results are discarded when this process exits")
		chunkRepo = memory.NewChunkRepository()
	} else {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			color.Red("Database connection failed: %v", err)
			os.Exit(1)
		}
		if err := database.EnsureSchema(db); err != nil {
			color.Red("Schema migration failed: %v", err)
			os.Exit(1)
		}
		chunkRepo = implementation.NewChunkRepository(db)
	}

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	ingestion := service.NewIngestionService(
		chunkRepo,
		embeddingProvider,
		nil, // no queue, this tool indexes synchronously
		nil, // no event bus
		chunker.New(cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap),
		logger.NewNop(),
	)

	paths, err := service.ListCourseFiles(*dir)
	if err != nil {
		color.Red("Cannot read %s: %v", *dir, err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		color.Yellow("No course documents found in %s", *dir)
		return
	}

	ctx := context.Background()
	failures := 0
	for _, path := range paths {
		courseId, chunks, err := ingestion.IndexFile(ctx, path)
		if err != nil {
			color.Red("✗ %s: %v", path, err)
			failures++
			continue
		}
		color.Green("✓ %s (%d chunks)", courseId, chunks)
	}

	if failures > 0 {
		color.Red("%d of %d documents failed", failures, len(paths))
		os.Exit(1)
	}

	total, err := chunkRepo.Count(ctx)
	if err != nil {
		color.Cyan("Indexed %d courses", len(paths))
		return
	}
	color.Cyan("Indexed %d courses (%d chunks total)", len(paths), total)
}
