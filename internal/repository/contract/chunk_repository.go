package contract

import (
	"context"

	"course-assistant-be/internal/entity"
)

// ChunkFilter is an exact-match conjunction over the chunk metadata
// dimensions. Zero values mean "no filter" for that dimension.
type ChunkFilter struct {
	CourseId string
	LessonId *int
}

// ScoredChunk pairs a chunk with its cosine similarity to the query vector.
type ScoredChunk struct {
	Chunk      *entity.CourseChunk
	Similarity float64
}

// ChunkRepository owns chunk and embedding storage. Implementations must
// apply filters before or fused into ranking, order results by descending
// similarity with ties broken by ascending position then course id, and
// return an empty slice (not an error) when nothing is indexed.
type ChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.CourseChunk) error

	// ReplaceCourse atomically swaps all chunks of one course. Readers never
	// observe a partially rebuilt course.
	ReplaceCourse(ctx context.Context, courseId string, chunks []*entity.CourseChunk) error

	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, filter ChunkFilter) ([]*ScoredChunk, error)

	ListCourses(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}
