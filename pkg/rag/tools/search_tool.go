package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"course-assistant-be/internal/repository/contract"
	"course-assistant-be/pkg/llm"
	"course-assistant-be/pkg/rag/search"
)

// CourseSearchTool exposes vector search over the course index to the model.
// One instance lives for one query turn; it accumulates the sources its
// searches touched so the service can attach citations to the final answer.
type CourseSearchTool struct {
	orchestrator *search.Orchestrator
	config       search.Config
	sources      []Source
	seen         map[string]bool
}

func NewCourseSearchTool(orchestrator *search.Orchestrator, config search.Config) *CourseSearchTool {
	return &CourseSearchTool{
		orchestrator: orchestrator,
		config:       config,
		seen:         make(map[string]bool),
	}
}

func (t *CourseSearchTool) Definition() llm.Tool {
	return llm.Tool{
		Name:        "search_course_content",
		Description: "Search course materials for content relevant to a question. Use this for questions about specific course topics or lesson content.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "What to search for in the course content",
				},
				"course_id": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the search to one course by its identifier (optional)",
				},
				"lesson_id": map[string]interface{}{
					"type":        "integer",
					"description": "Restrict the search to one lesson number within the course (optional)",
				},
			},
			"required": []string{"query"},
		},
	}
}

// Execute runs one search call issued by the model and formats the matches
// as evidence text. Results collapsing to the same (course, lesson) keep only
// the best-scoring chunk.
func (t *CourseSearchTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("missing required argument 'query'")
	}

	filter := contract.ChunkFilter{}
	if courseId, ok := args["course_id"].(string); ok {
		filter.CourseId = strings.TrimSpace(courseId)
	}
	// JSON numbers decode as float64, but models also send numbers as
	// quoted strings.
	switch raw := args["lesson_id"].(type) {
	case float64:
		lessonId := int(raw)
		filter.LessonId = &lessonId
	case string:
		if lessonId, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			filter.LessonId = &lessonId
		}
	}

	results, err := t.orchestrator.Execute(ctx, query, filter, t.config)
	if err != nil {
		return "", err
	}

	if len(results) == 0 {
		return t.emptyMessage(filter), nil
	}

	// Results arrive ordered by score, so the first chunk seen for a
	// (course, lesson) pair is its best one.
	var blocks []string
	dedup := make(map[string]bool)
	for _, r := range results {
		source := Source{CourseId: r.CourseId, LessonId: r.LessonId}
		if dedup[source.key()] {
			continue
		}
		dedup[source.key()] = true

		t.record(source)
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", source.Label(), r.Content))
	}

	return strings.Join(blocks, "\n\n"), nil
}

func (t *CourseSearchTool) Sources() []Source {
	return t.sources
}

func (t *CourseSearchTool) record(s Source) {
	if t.seen[s.key()] {
		return
	}
	t.seen[s.key()] = true
	t.sources = append(t.sources, s)
}

func (t *CourseSearchTool) emptyMessage(filter contract.ChunkFilter) string {
	msg := "No relevant course content found"
	if filter.CourseId != "" {
		msg += fmt.Sprintf(" in course '%s'", filter.CourseId)
	}
	if filter.LessonId != nil {
		msg += fmt.Sprintf(" in lesson %d", *filter.LessonId)
	}
	return msg + "."
}
