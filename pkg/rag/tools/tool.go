// Package tools holds the capabilities exposed to the generative model and
// the per-query bookkeeping of which sources they touched.
package tools

import (
	"context"
	"fmt"
	"strconv"

	"course-assistant-be/internal/pkg/logger"
	"course-assistant-be/pkg/llm"
)

// Source is a (course, lesson) citation reference.
type Source struct {
	CourseId string
	LessonId *int
}

// Label renders the citation text shown to users.
func (s Source) Label() string {
	if s.LessonId != nil {
		return s.CourseId + " - Lesson " + strconv.Itoa(*s.LessonId)
	}
	return s.CourseId
}

func (s Source) key() string {
	if s.LessonId != nil {
		return s.CourseId + "#" + strconv.Itoa(*s.LessonId)
	}
	return s.CourseId
}

// Tool is a capability callable by the model.
type Tool interface {
	Definition() llm.Tool
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
	// Sources lists the distinct sources touched so far, first-seen order.
	Sources() []Source
}

// Manager registers tools for one orchestration turn and mediates their
// execution. Create a fresh Manager per query so source tracking stays
// scoped to that turn.
type Manager struct {
	tools  map[string]Tool
	order  []string
	logger logger.ILogger
}

func NewManager(log logger.ILogger) *Manager {
	return &Manager{
		tools:  make(map[string]Tool),
		logger: log,
	}
}

func (m *Manager) Register(t Tool) {
	name := t.Definition().Name
	if _, exists := m.tools[name]; !exists {
		m.order = append(m.order, name)
	}
	m.tools[name] = t
}

func (m *Manager) Definitions() []llm.Tool {
	defs := make([]llm.Tool, 0, len(m.order))
	for _, name := range m.order {
		defs = append(defs, m.tools[name].Definition())
	}
	return defs
}

// Execute runs one requested tool call. Failures are absorbed and converted
// into model-visible evidence text so the loop can continue; only the model
// decides how to present a failed search to the user.
func (m *Manager) Execute(ctx context.Context, call llm.ToolCall) string {
	tool, found := m.tools[call.Name]
	if !found {
		return fmt.Sprintf("Tool '%s' is not available.", call.Name)
	}

	evidence, err := tool.Execute(ctx, call.Arguments)
	if err != nil {
		m.logger.Warn("tools", "Tool execution failed", map[string]interface{}{
			"tool":  call.Name,
			"error": err.Error(),
		})
		return fmt.Sprintf("The search could not be completed: %v.", err)
	}
	return evidence
}

// Sources unions every registered tool's touched sources across the whole
// turn, deduplicated in first-seen order.
func (m *Manager) Sources() []Source {
	var sources []Source
	seen := make(map[string]bool)
	for _, name := range m.order {
		for _, s := range m.tools[name].Sources() {
			if seen[s.key()] {
				continue
			}
			seen[s.key()] = true
			sources = append(sources, s)
		}
	}
	return sources
}
