package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"course-assistant-be/internal/dto"
	"course-assistant-be/internal/entity"
	"course-assistant-be/internal/pkg/logger"
	"course-assistant-be/internal/repository/contract"
	"course-assistant-be/internal/repository/memory"
	"course-assistant-be/pkg/rag/chunker"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenChunkRepo struct {
	*memory.ChunkRepository
}

func (brokenChunkRepo) ReplaceCourse(ctx context.Context, courseId string, chunks []*entity.CourseChunk) error {
	return errors.New("storage offline")
}

func newTestConsumer(t *testing.T, chunkRepo contract.ChunkRepository) *consumerService {
	t.Helper()
	ingestion := NewIngestionService(
		chunkRepo,
		fixedEmbedder{},
		nil,
		nil,
		chunker.New(800, 100),
		logger.NewNop(),
	)
	return NewConsumerService(nil, "embed-topic", ingestion, logger.NewNop()).(*consumerService)
}

func embedMessage(t *testing.T, path string) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.PublishEmbedCourseMessage{
		CourseId: "test_course",
		Path:     path,
	})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func assertAcked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Acked():
	default:
		t.Fatal("message was not acked")
	}
}

func assertNacked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Nacked():
	default:
		t.Fatal("message was not nacked")
	}
}

func TestProcessMessageSuccess(t *testing.T) {
	repo := memory.NewChunkRepository()
	consumer := newTestConsumer(t, repo)
	path := writeDoc(t, t.TempDir(), "test_course.txt", ingestSample)

	msg := embedMessage(t, path)
	consumer.processMessage(context.Background(), msg)

	assertAcked(t, msg)
	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestProcessMessageInvalidPayloadIsAcked(t *testing.T) {
	consumer := newTestConsumer(t, memory.NewChunkRepository())

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	consumer.processMessage(context.Background(), msg)

	// Poison messages must not be retried forever.
	assertAcked(t, msg)
}

func TestProcessMessageMissingFileIsAcked(t *testing.T) {
	consumer := newTestConsumer(t, memory.NewChunkRepository())

	msg := embedMessage(t, filepath.Join(t.TempDir(), "gone.txt"))
	consumer.processMessage(context.Background(), msg)

	// A vanished document will never index; retrying cannot help.
	assertAcked(t, msg)
}

func TestProcessMessageStorageFailureIsNacked(t *testing.T) {
	consumer := newTestConsumer(t, brokenChunkRepo{memory.NewChunkRepository()})
	path := writeDoc(t, t.TempDir(), "test_course.txt", ingestSample)

	msg := embedMessage(t, path)
	consumer.processMessage(context.Background(), msg)

	assertNacked(t, msg)
}
