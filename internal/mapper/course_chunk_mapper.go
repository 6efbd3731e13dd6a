package mapper

import (
	"course-assistant-be/internal/entity"
	"course-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type CourseChunkMapper struct{}

func NewCourseChunkMapper() *CourseChunkMapper {
	return &CourseChunkMapper{}
}

func (m *CourseChunkMapper) ToModel(e *entity.CourseChunk) *model.CourseChunk {
	return &model.CourseChunk{
		Id:             e.Id,
		CourseId:       e.CourseId,
		LessonId:       e.LessonId,
		Position:       e.Position,
		Content:        e.Content,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *CourseChunkMapper) ToEntity(mo *model.CourseChunk) *entity.CourseChunk {
	return &entity.CourseChunk{
		Id:             mo.Id,
		CourseId:       mo.CourseId,
		LessonId:       mo.LessonId,
		Position:       mo.Position,
		Content:        mo.Content,
		Document:       mo.Document,
		EmbeddingValue: mo.EmbeddingValue.Slice(),
		CreatedAt:      mo.CreatedAt,
	}
}
