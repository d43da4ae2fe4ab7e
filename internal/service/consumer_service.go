package service

import (
	"context"
	"encoding/json"

	"ai-notecapture-be/internal/dto"
	"ai-notecapture-be/internal/pkg/logger"
	"ai-notecapture-be/internal/repository/contract"
	"ai-notecapture-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill/message"
)

const relatednessModule = "RELATEDNESS"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	notes       contract.NoteRepository
	structuring IStructuringService
	related     *memory.RelatedNotesRepository
	logger      logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	notes contract.NoteRepository,
	structuring IStructuringService,
	related *memory.RelatedNotesRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		notes:       notes,
		structuring: structuring,
		related:     related,
		logger:      log,
	}
}

// Consume subscribes to the relatedness topic and processes messages in the
// background until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	ctx := msg.Context()

	var payload dto.RelatednessMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.NoteId == "" {
		cs.logger.Warn(relatednessModule, "Dropping invalid relatedness message", map[string]interface{}{
			"message_id": msg.UUID,
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	note, err := cs.notes.FindOne(ctx, payload.NoteId)
	if err != nil || note == nil {
		// Note deleted before the worker got to it.
		msg.Ack()
		return
	}

	candidates, err := cs.notes.List(ctx)
	if err != nil {
		msg.Ack()
		return
	}

	ids := cs.structuring.FindRelatedNotes(ctx, note, candidates)
	cs.related.Save(note.Id, ids)

	cs.logger.Debug(relatednessModule, "Related notes cached", map[string]interface{}{
		"note_id": note.Id,
		"related": len(ids),
	})
	msg.Ack()
}
