package service

import (
	"context"
	"errors"
	"testing"

	"course-assistant-be/internal/dto"
	"course-assistant-be/internal/entity"
	"course-assistant-be/internal/pkg/logger"
	"course-assistant-be/internal/repository/memory"
	"course-assistant-be/pkg/embedding"
	"course-assistant-be/pkg/llm"
	"course-assistant-be/pkg/rag/executor"
	"course-assistant-be/pkg/rag/search"
	"course-assistant-be/pkg/rag/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedEmbedder struct{}

func (fixedEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0}},
	}, nil
}

type fakeProvider struct {
	responses []*llm.Response
	errs      []error
	histories [][]llm.Message
}

func (p *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", nil
}

func (p *fakeProvider) ChatWithTools(ctx context.Context, system string, history []llm.Message, defs []llm.Tool, options ...llm.Option) (*llm.Response, error) {
	idx := len(p.histories)
	snapshot := make([]llm.Message, len(history))
	copy(snapshot, history)
	p.histories = append(p.histories, snapshot)

	if idx < len(p.errs) && p.errs[idx] != nil {
		return nil, p.errs[idx]
	}
	if idx >= len(p.responses) {
		return &llm.Response{Text: "out of script"}, nil
	}
	return p.responses[idx], nil
}

func newTestAssistant(t *testing.T, provider *fakeProvider) (IAssistantService, *memory.ChunkRepository, *session.Manager) {
	t.Helper()

	chunkRepo := memory.NewChunkRepository()
	sessionManager := session.NewManager(memory.NewSessionRepository(), 2)
	orchestrator := search.NewOrchestrator(chunkRepo, fixedEmbedder{}, logger.NewNop())
	loop := executor.NewLoop(provider, logger.NewNop(), 2, 1)

	svc := NewAssistantService(
		chunkRepo,
		sessionManager,
		orchestrator,
		search.Config{TopK: 5},
		loop,
		nil,
		logger.NewNop(),
	)
	return svc, chunkRepo, sessionManager
}

func TestAnswerCreatesSessionLazily(t *testing.T) {
	provider := &fakeProvider{responses: []*llm.Response{{Text: "hello"}}}
	svc, _, _ := newTestAssistant(t, provider)

	res, err := svc.Answer(context.Background(), &dto.QueryRequest{Query: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionId)
	assert.Equal(t, "hello", res.Answer)
	assert.Empty(t, res.Sources)
}

func TestAnswerCarriesPriorExchanges(t *testing.T) {
	provider := &fakeProvider{responses: []*llm.Response{
		{Text: "first answer"},
		{Text: "second answer"},
	}}
	svc, _, _ := newTestAssistant(t, provider)
	ctx := context.Background()

	first, err := svc.Answer(ctx, &dto.QueryRequest{Query: "first question"})
	require.NoError(t, err)

	second, err := svc.Answer(ctx, &dto.QueryRequest{Query: "second question", SessionId: first.SessionId})
	require.NoError(t, err)
	assert.Equal(t, first.SessionId, second.SessionId)

	// The second model call sees the first exchange verbatim before the new
	// question.
	require.Len(t, provider.histories, 2)
	history := provider.histories[1]
	require.Len(t, history, 3)
	assert.Equal(t, "first question", history[0].Content)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "first answer", history[1].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "second question", history[2].Content)
}

func TestAnswerWithToolUseReturnsSources(t *testing.T) {
	provider := &fakeProvider{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "search_course_content", Arguments: map[string]interface{}{"query": "goroutines"}}}},
		{Text: "Goroutines are lightweight."},
	}}
	svc, chunkRepo, _ := newTestAssistant(t, provider)
	ctx := context.Background()

	lesson := 1
	require.NoError(t, chunkRepo.CreateBulk(ctx, []*entity.CourseChunk{
		{CourseId: "Go Basics", LessonId: &lesson, Position: 0, Content: "Goroutines run concurrently.", EmbeddingValue: []float32{1, 0}},
	}))

	res, err := svc.Answer(ctx, &dto.QueryRequest{Query: "what are goroutines?"})
	require.NoError(t, err)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, "Go Basics", res.Sources[0].CourseId)
	assert.Equal(t, "Go Basics - Lesson 1", res.Sources[0].Label)
}

func TestAnswerFailureLeavesSessionUntouched(t *testing.T) {
	provider := &fakeProvider{errs: []error{errors.New("model down")}}
	svc, _, sessionManager := newTestAssistant(t, provider)

	_, err := svc.Answer(context.Background(), &dto.QueryRequest{Query: "q", SessionId: "s1"})
	require.Error(t, err)
	assert.Nil(t, sessionManager.GetHistory("s1"))
}

func TestCourseStats(t *testing.T) {
	provider := &fakeProvider{}
	svc, chunkRepo, _ := newTestAssistant(t, provider)
	ctx := context.Background()

	res, err := svc.CourseStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalCourses)

	require.NoError(t, chunkRepo.CreateBulk(ctx, []*entity.CourseChunk{
		{CourseId: "B Course", EmbeddingValue: []float32{1, 0}},
		{CourseId: "A Course", EmbeddingValue: []float32{0, 1}},
	}))

	res, err = svc.CourseStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalCourses)
	assert.Equal(t, []string{"A Course", "B Course"}, res.CourseTitles)
}

func TestClearSession(t *testing.T) {
	provider := &fakeProvider{responses: []*llm.Response{{Text: "a"}}}
	svc, _, sessionManager := newTestAssistant(t, provider)
	ctx := context.Background()

	res, err := svc.Answer(ctx, &dto.QueryRequest{Query: "q"})
	require.NoError(t, err)
	require.NotNil(t, sessionManager.GetHistory(res.SessionId))

	require.NoError(t, svc.ClearSession(ctx, res.SessionId))
	assert.Nil(t, sessionManager.GetHistory(res.SessionId))
}
