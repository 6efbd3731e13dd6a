// Package prompt assembles the system instructions and chat history sent to
// the generative model.
package prompt

import (
	"course-assistant-be/pkg/llm"
	"course-assistant-be/pkg/store"
)

// SystemInstructions frames the assistant persona and when to reach for the
// search tool. Course-specific questions go through search; general knowledge
// questions are answered directly.
const SystemInstructions = `You are a helpful assistant for course materials. You answer questions about course content and educational topics.

Tool usage:
- Use the search_course_content tool for questions about specific course content or lesson details.
- Answer general knowledge questions from your own knowledge without searching.
- If a search returns no relevant content, say so clearly instead of guessing.

Answer style:
- Be concise and factual.
- Base course-specific answers only on the search results.
- Do not mention the search process or the tools in your answer.`

// BuildHistory converts stored session turns plus the current question into
// the provider-agnostic message list. Turns arrive oldest first and keep
// their order.
func BuildHistory(turns []store.Turn, question string) []llm.Message {
	messages := make([]llm.Message, 0, len(turns)+1)
	for _, turn := range turns {
		messages = append(messages, llm.Message{
			Role:    turn.Role,
			Content: turn.Text,
		})
	}
	messages = append(messages, llm.Message{
		Role:    store.TurnRoleUser,
		Content: question,
	})
	return messages
}
