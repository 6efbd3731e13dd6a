package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type CourseChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseId       string          `gorm:"type:text;not null;index:idx_course_lesson,priority:1"`
	LessonId       *int            `gorm:"index:idx_course_lesson,priority:2"`
	Position       int             `gorm:"not null;default:0"` // 0-based, ordered within (course, lesson)
	Content        string          `gorm:"type:text"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text / text-embedding-004 use 768 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (CourseChunk) TableName() string {
	return "course_chunks"
}
