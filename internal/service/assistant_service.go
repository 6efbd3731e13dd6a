package service

import (
	"context"

	"course-assistant-be/internal/dto"
	"course-assistant-be/internal/pkg/logger"
	"course-assistant-be/internal/repository/contract"
	"course-assistant-be/pkg/events"
	pktNats "course-assistant-be/pkg/nats"
	"course-assistant-be/pkg/rag/executor"
	"course-assistant-be/pkg/rag/prompt"
	"course-assistant-be/pkg/rag/search"
	"course-assistant-be/pkg/rag/session"
	"course-assistant-be/pkg/rag/tools"

	"github.com/google/uuid"
)

type IAssistantService interface {
	Answer(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
	CourseStats(ctx context.Context) (*dto.CourseStatsResponse, error)
	ClearSession(ctx context.Context, sessionId string) error
}

type assistantService struct {
	chunkRepo          contract.ChunkRepository
	sessionManager     *session.Manager
	searchOrchestrator *search.Orchestrator
	searchConfig       search.Config
	loop               *executor.Loop
	eventPublisher     *pktNats.Publisher
	logger             logger.ILogger
}

func NewAssistantService(
	chunkRepo contract.ChunkRepository,
	sessionManager *session.Manager,
	searchOrchestrator *search.Orchestrator,
	searchConfig search.Config,
	loop *executor.Loop,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		chunkRepo:          chunkRepo,
		sessionManager:     sessionManager,
		searchOrchestrator: searchOrchestrator,
		searchConfig:       searchConfig,
		loop:               loop,
		eventPublisher:     eventPublisher,
		logger:             log,
	}
}

// Answer runs one full query turn: history load, tool-use loop, session
// append. A failed turn leaves the session history untouched.
func (s *assistantService) Answer(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	// Serialize turns within one session; other sessions proceed in parallel.
	release := s.sessionManager.Acquire(sessionId)
	defer release()

	turns := s.sessionManager.GetHistory(sessionId)
	history := prompt.BuildHistory(turns, req.Query)

	// A fresh tool manager per query keeps source tracking turn-scoped.
	manager := tools.NewManager(s.logger)
	manager.Register(tools.NewCourseSearchTool(s.searchOrchestrator, s.searchConfig))

	result, err := s.loop.Run(ctx, prompt.SystemInstructions, history, manager)
	if err != nil {
		s.logger.Error("assistant", "Query turn failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.sessionManager.AppendExchange(sessionId, req.Query, result.Answer)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewChatAnswered(sessionId, result.Rounds, result.Degraded)); err != nil {
			s.logger.Warn("assistant", "Failed to publish CHAT_ANSWERED event", map[string]interface{}{"error": err.Error()})
		}
	}

	sources := make([]dto.SourceDTO, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, dto.SourceDTO{
			CourseId: src.CourseId,
			LessonId: src.LessonId,
			Label:    src.Label(),
		})
	}

	return &dto.QueryResponse{
		Answer:    result.Answer,
		Sources:   sources,
		SessionId: sessionId,
		Degraded:  result.Degraded,
	}, nil
}

func (s *assistantService) CourseStats(ctx context.Context) (*dto.CourseStatsResponse, error) {
	titles, err := s.chunkRepo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CourseStatsResponse{
		TotalCourses: len(titles),
		CourseTitles: titles,
	}, nil
}

func (s *assistantService) ClearSession(ctx context.Context, sessionId string) error {
	release := s.sessionManager.Acquire(sessionId)
	defer release()
	s.sessionManager.Clear(sessionId)
	return nil
}
