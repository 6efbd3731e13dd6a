package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"course-assistant-be/internal/constant"
	"course-assistant-be/internal/dto"
	"course-assistant-be/internal/entity"
	"course-assistant-be/internal/pkg/logger"
	"course-assistant-be/internal/repository/contract"
	"course-assistant-be/pkg/embedding"
	"course-assistant-be/pkg/events"
	pktNats "course-assistant-be/pkg/nats"
	"course-assistant-be/pkg/rag/chunker"
	"course-assistant-be/pkg/rag/docparser"

	"github.com/google/uuid"
)

type IIngestionService interface {
	// IndexFile synchronously parses, chunks, embeds and stores one course
	// document, replacing any prior index for that course.
	IndexFile(ctx context.Context, path string) (string, int, error)

	// EnqueueFolder publishes one embed message per course document found in
	// dir. Indexing happens in the background consumer.
	EnqueueFolder(ctx context.Context, dir string) (*dto.IndexFolderResponse, error)
}

type ingestionService struct {
	chunkRepo         contract.ChunkRepository
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
	splitter          *chunker.Chunker
	logger            logger.ILogger
}

func NewIngestionService(
	chunkRepo contract.ChunkRepository,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	splitter *chunker.Chunker,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		chunkRepo:         chunkRepo,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		splitter:          splitter,
		logger:            log,
	}
}

func (s *ingestionService) IndexFile(ctx context.Context, path string) (string, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("read course document: %w", err)
	}

	defaultTitle := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := docparser.Parse(string(raw), defaultTitle)

	chunks, err := s.buildChunks(doc)
	if err != nil {
		return doc.Title, 0, err
	}

	if err := s.chunkRepo.ReplaceCourse(ctx, doc.Title, chunks); err != nil {
		return doc.Title, 0, fmt.Errorf("replace course index: %w", err)
	}

	s.logger.Info("ingestion", "Course indexed", map[string]interface{}{
		"course": doc.Title,
		"chunks": len(chunks),
	})

	// Lifecycle event is auxiliary, a publish failure never fails indexing.
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewCourseIndexed(doc.Title, len(chunks))); err != nil {
			s.logger.Warn("ingestion", "Failed to publish COURSE_INDEXED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return doc.Title, len(chunks), nil
}

func (s *ingestionService) buildChunks(doc *docparser.Document) ([]*entity.CourseChunk, error) {
	var out []*entity.CourseChunk
	now := time.Now()

	for _, section := range doc.Sections {
		pieces := s.splitter.Split(section.Content)
		for i, piece := range pieces {
			var document string
			if section.Lesson != nil {
				document = fmt.Sprintf(constant.ChunkContextWithLesson, doc.Title, *section.Lesson, piece)
			} else {
				document = fmt.Sprintf(constant.ChunkContextCourseOnly, doc.Title, piece)
			}

			res, err := s.embeddingProvider.Generate(document, "RETRIEVAL_DOCUMENT")
			if err != nil {
				return nil, fmt.Errorf("embed chunk %d of course %s: %w", i, doc.Title, err)
			}

			out = append(out, &entity.CourseChunk{
				Id:             uuid.New(),
				CourseId:       doc.Title,
				LessonId:       section.Lesson,
				Position:       i,
				Content:        piece,
				Document:       document,
				EmbeddingValue: res.Embedding.Values,
				CreatedAt:      now,
			})
		}
	}
	return out, nil
}

func (s *ingestionService) EnqueueFolder(ctx context.Context, dir string) (*dto.IndexFolderResponse, error) {
	paths, err := ListCourseFiles(dir)
	if err != nil {
		return nil, err
	}

	res := &dto.IndexFolderResponse{}
	for _, path := range paths {
		payload := dto.PublishEmbedCourseMessage{
			CourseId: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Path:     path,
		}
		payloadJson, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
			return nil, fmt.Errorf("enqueue %s: %w", path, err)
		}
		res.Enqueued = append(res.Enqueued, path)
	}

	s.logger.Info("ingestion", "Course documents enqueued", map[string]interface{}{
		"dir":   dir,
		"count": len(res.Enqueued),
	})
	return res, nil
}

// ListCourseFiles returns the course documents in dir, sorted by name.
func ListCourseFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read docs folder: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".md":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
