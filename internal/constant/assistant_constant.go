package constant

const (
	// Event type codes published on the NATS bus.
	EventCourseIndexed = "COURSE_INDEXED"
	EventChatAnswered  = "CHAT_ANSWERED"

	// Context prefixes prepended to chunk text before embedding. Retrieval
	// quality depends on the chunk carrying its own course and lesson frame.
	ChunkContextWithLesson = "Course %s Lesson %d content: %s"
	ChunkContextCourseOnly = "Course %s content: %s"
)
