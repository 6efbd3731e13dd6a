package dto

type QueryRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
}

type SourceDTO struct {
	CourseId string `json:"course_id"`
	LessonId *int   `json:"lesson_id,omitempty"`
	Label    string `json:"label"`
}

type QueryResponse struct {
	Answer    string      `json:"answer"`
	Sources   []SourceDTO `json:"sources"`
	SessionId string      `json:"session_id"`
	Degraded  bool        `json:"degraded,omitempty"`
}

type CourseStatsResponse struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

type IndexFolderResponse struct {
	Enqueued []string `json:"enqueued"`
}

// PublishEmbedCourseMessage is the payload carried on the embed topic. The
// consumer re-reads and re-parses the file so the queue stays small.
type PublishEmbedCourseMessage struct {
	CourseId string `json:"course_id"`
	Path     string `json:"path"`
}
