package memory

import (
	"context"
	"testing"

	"course-assistant-be/internal/entity"
	"course-assistant-be/internal/repository/contract"
)

func lessonPtr(v int) *int { return &v }

func seedRepo(t *testing.T) *ChunkRepository {
	t.Helper()
	repo := NewChunkRepository()
	chunks := []*entity.CourseChunk{
		{CourseId: "Go Basics", LessonId: lessonPtr(1), Position: 0, Content: "goroutines", EmbeddingValue: []float32{1, 0, 0}},
		{CourseId: "Go Basics", LessonId: lessonPtr(2), Position: 0, Content: "channels", EmbeddingValue: []float32{0.8, 0.2, 0}},
		{CourseId: "Go Basics", LessonId: nil, Position: 0, Content: "course overview", EmbeddingValue: []float32{0, 0, 1}},
		{CourseId: "Python Basics", LessonId: lessonPtr(1), Position: 0, Content: "lists", EmbeddingValue: []float32{0, 1, 0}},
	}
	if err := repo.CreateBulk(context.Background(), chunks); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return repo
}

func TestSearchEmptyIndex(t *testing.T) {
	repo := NewChunkRepository()

	scored, err := repo.SearchSimilarWithScore(context.Background(), []float32{1, 0, 0}, 5, contract.ChunkFilter{})
	if err != nil {
		t.Fatalf("empty index must not error: %v", err)
	}
	if len(scored) != 0 {
		t.Errorf("empty index returned %d results", len(scored))
	}
}

func TestSearchOrdering(t *testing.T) {
	repo := seedRepo(t)

	scored, err := repo.SearchSimilarWithScore(context.Background(), []float32{1, 0, 0}, 10, contract.ChunkFilter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(scored) != 4 {
		t.Fatalf("results = %d, want 4", len(scored))
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Similarity > scored[i-1].Similarity {
			t.Errorf("results not sorted by descending similarity at %d", i)
		}
	}
	if scored[0].Chunk.Content != "goroutines" {
		t.Errorf("best match = %q", scored[0].Chunk.Content)
	}
}

func TestSearchCourseFilter(t *testing.T) {
	repo := seedRepo(t)

	scored, err := repo.SearchSimilarWithScore(context.Background(), []float32{1, 0, 0}, 10, contract.ChunkFilter{CourseId: "Python Basics"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(scored) != 1 || scored[0].Chunk.CourseId != "Python Basics" {
		t.Errorf("course filter leaked: %+v", scored)
	}
}

func TestSearchLessonFilter(t *testing.T) {
	repo := seedRepo(t)

	scored, err := repo.SearchSimilarWithScore(context.Background(), []float32{1, 0, 0}, 10, contract.ChunkFilter{CourseId: "Go Basics", LessonId: lessonPtr(2)})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(scored) != 1 || scored[0].Chunk.Content != "channels" {
		t.Errorf("lesson filter wrong: %+v", scored)
	}

	// Lesson filter excludes course-level chunks with no lesson.
	scored, err = repo.SearchSimilarWithScore(context.Background(), []float32{0, 0, 1}, 10, contract.ChunkFilter{LessonId: lessonPtr(1)})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, s := range scored {
		if s.Chunk.LessonId == nil {
			t.Errorf("course-level chunk matched a lesson filter")
		}
	}
}

func TestSearchLimit(t *testing.T) {
	repo := seedRepo(t)

	scored, err := repo.SearchSimilarWithScore(context.Background(), []float32{1, 0, 0}, 2, contract.ChunkFilter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(scored) != 2 {
		t.Errorf("limit not applied: got %d", len(scored))
	}
}

func TestSearchTieBreak(t *testing.T) {
	repo := NewChunkRepository()
	chunks := []*entity.CourseChunk{
		{CourseId: "B Course", LessonId: lessonPtr(1), Position: 0, Content: "b0", EmbeddingValue: []float32{1, 0}},
		{CourseId: "A Course", LessonId: lessonPtr(1), Position: 0, Content: "a0", EmbeddingValue: []float32{1, 0}},
		{CourseId: "A Course", LessonId: lessonPtr(1), Position: 1, Content: "a1", EmbeddingValue: []float32{1, 0}},
	}
	if err := repo.CreateBulk(context.Background(), chunks); err != nil {
		t.Fatalf("seed: %v", err)
	}

	scored, err := repo.SearchSimilarWithScore(context.Background(), []float32{1, 0}, 10, contract.ChunkFilter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	got := []string{scored[0].Chunk.Content, scored[1].Chunk.Content, scored[2].Chunk.Content}
	want := []string{"a0", "b0", "a1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie-break order = %v, want %v", got, want)
		}
	}
}

func TestReplaceCourse(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	replacement := []*entity.CourseChunk{
		{CourseId: "Go Basics", LessonId: lessonPtr(1), Position: 0, Content: "rewritten", EmbeddingValue: []float32{1, 0, 0}},
	}
	if err := repo.ReplaceCourse(ctx, "Go Basics", replacement); err != nil {
		t.Fatalf("replace: %v", err)
	}

	scored, err := repo.SearchSimilarWithScore(ctx, []float32{1, 0, 0}, 10, contract.ChunkFilter{CourseId: "Go Basics"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(scored) != 1 || scored[0].Chunk.Content != "rewritten" {
		t.Errorf("replace left stale chunks: %+v", scored)
	}

	// Replacing with nothing removes the course entirely.
	if err := repo.ReplaceCourse(ctx, "Go Basics", nil); err != nil {
		t.Fatalf("replace empty: %v", err)
	}
	titles, err := repo.ListCourses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(titles) != 1 || titles[0] != "Python Basics" {
		t.Errorf("ListCourses = %v", titles)
	}
}

func TestCount(t *testing.T) {
	repo := seedRepo(t)

	count, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 4 {
		t.Errorf("Count = %d, want 4", count)
	}
}
