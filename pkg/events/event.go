package events

import (
	"time"

	"course-assistant-be/internal/constant"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "COURSE_INDEXED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the standard Event implementation.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewCourseIndexed marks a course as (re)indexed with the given chunk count.
func NewCourseIndexed(courseId string, chunks int) Event {
	return BaseEvent{
		Type: constant.EventCourseIndexed,
		Data: map[string]interface{}{
			"course_id": courseId,
			"chunks":    chunks,
		},
		OccurredAt: time.Now(),
	}
}

// NewChatAnswered marks one completed query turn.
func NewChatAnswered(sessionId string, rounds int, degraded bool) Event {
	return BaseEvent{
		Type: constant.EventChatAnswered,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"rounds":     rounds,
			"degraded":   degraded,
		},
		OccurredAt: time.Now(),
	}
}
