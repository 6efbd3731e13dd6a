package service

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"

	"course-assistant-be/internal/dto"
	"course-assistant-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	ingestionService IIngestionService
	logger           logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingestionService IIngestionService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		ingestionService: ingestionService,
		logger:           log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedCourseMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal embed message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	courseId, chunks, err := cs.ingestionService.IndexFile(ctx, payload.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cs.logger.Warn("consumer", "Course document no longer exists", map[string]interface{}{"path": payload.Path})
			msg.Ack()
			return
		}
		cs.logger.Error("consumer", "Failed to index course document", map[string]interface{}{
			"path":  payload.Path,
			"error": err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	cs.logger.Info("consumer", "Course document processed", map[string]interface{}{
		"course": courseId,
		"chunks": chunks,
	})
	msg.Ack()
}
