package search

import (
	"context"
	"fmt"

	"course-assistant-be/internal/pkg/logger"
	"course-assistant-be/internal/repository/contract"
	"course-assistant-be/pkg/embedding"
)

// Orchestrator handles vector search over the chunk index: it embeds the
// query, runs the filtered similarity search and applies the score threshold.
type Orchestrator struct {
	chunkRepo         contract.ChunkRepository
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewOrchestrator(chunkRepo contract.ChunkRepository, embeddingProvider embedding.EmbeddingProvider, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		chunkRepo:         chunkRepo,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

// Config encapsulates search parameters.
type Config struct {
	TopK      int
	Threshold float64
}

// Result is one ranked piece of evidence. Ephemeral: produced per query and
// never persisted.
type Result struct {
	CourseId string
	LessonId *int
	Content  string
	Score    float64
}

// Execute embeds the query and returns ranked, threshold-filtered results.
// An empty index yields an empty slice, not an error.
func (o *Orchestrator) Execute(ctx context.Context, query string, filter contract.ChunkFilter, config Config) ([]Result, error) {
	embeddingRes, err := o.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := o.chunkRepo.SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		config.TopK,
		filter,
	)
	if err != nil {
		o.logger.Error("search", "Vector search failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	o.logger.Debug("search", "Raw search results", map[string]interface{}{"count": len(scored)})

	results := make([]Result, 0, len(scored))
	for _, s := range scored {
		if s.Similarity < config.Threshold {
			continue
		}
		results = append(results, Result{
			CourseId: s.Chunk.CourseId,
			LessonId: s.Chunk.LessonId,
			Content:  s.Chunk.Content,
			Score:    s.Similarity,
		})
	}

	return results, nil
}
