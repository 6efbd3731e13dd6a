package entity

import (
	"time"

	"github.com/google/uuid"
)

// CourseChunk is one indexed slice of course text. Chunks are created at
// indexing time and immutable afterwards; a course reindex replaces them all.
type CourseChunk struct {
	Id       uuid.UUID
	CourseId string
	// LessonId is nil for course-level text that precedes the first lesson.
	LessonId *int
	// Position is strictly increasing within a (CourseId, LessonId) pair.
	Position int
	// Content is the raw chunk text as produced by the chunker.
	Content string
	// Document is the contextualized text actually embedded: the chunk
	// content prefixed with its course/lesson header.
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
