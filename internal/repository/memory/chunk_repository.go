package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"course-assistant-be/internal/entity"
	"course-assistant-be/internal/repository/contract"
)

// ChunkRepository is an in-memory vector index. It backs local development
// without Postgres and the test suite. Reads share a RWMutex so concurrent
// queries never block each other; ReplaceCourse swaps a course's slice under
// the write lock, so readers see either the old or the new chunks.
type ChunkRepository struct {
	mu      sync.RWMutex
	courses map[string][]*entity.CourseChunk
}

func NewChunkRepository() *ChunkRepository {
	return &ChunkRepository{
		courses: make(map[string][]*entity.CourseChunk),
	}
}

func (r *ChunkRepository) CreateBulk(ctx context.Context, chunks []*entity.CourseChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range chunks {
		r.courses[c.CourseId] = append(r.courses[c.CourseId], c)
	}
	return nil
}

func (r *ChunkRepository) ReplaceCourse(ctx context.Context, courseId string, chunks []*entity.CourseChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(chunks) == 0 {
		delete(r.courses, courseId)
		return nil
	}
	replacement := make([]*entity.CourseChunk, len(chunks))
	copy(replacement, chunks)
	r.courses[courseId] = replacement
	return nil
}

func (r *ChunkRepository) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, filter contract.ChunkFilter) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var scored []*contract.ScoredChunk
	for courseId, chunks := range r.courses {
		if filter.CourseId != "" && filter.CourseId != courseId {
			continue
		}
		for _, c := range chunks {
			if filter.LessonId != nil {
				if c.LessonId == nil || *c.LessonId != *filter.LessonId {
					continue
				}
			}
			scored = append(scored, &contract.ScoredChunk{
				Chunk:      c,
				Similarity: cosineSimilarity(embedding, c.EmbeddingValue),
			})
		}
	}

	// Descending similarity; ties break by ascending position then course id
	// so results are deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		if scored[i].Chunk.Position != scored[j].Chunk.Position {
			return scored[i].Chunk.Position < scored[j].Chunk.Position
		}
		return scored[i].Chunk.CourseId < scored[j].Chunk.CourseId
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *ChunkRepository) ListCourses(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	titles := make([]string, 0, len(r.courses))
	for courseId := range r.courses {
		titles = append(titles, courseId)
	}
	sort.Strings(titles)
	return titles, nil
}

func (r *ChunkRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, chunks := range r.courses {
		count += int64(len(chunks))
	}
	return count, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
