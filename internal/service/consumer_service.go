package service

import (
	"context"
	"encoding/json"

	"deck-align-be/internal/dto"
	"deck-align-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the internal pubsub topics: alignment run triggers
// and card concept enrichment requests.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	runTopic          string
	enrichTopic       string
	alignmentService  IAlignmentService
	enrichmentService IEnrichmentService
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	runTopic string,
	enrichTopic string,
	alignmentService IAlignmentService,
	enrichmentService IEnrichmentService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		runTopic:          runTopic,
		enrichTopic:       enrichTopic,
		alignmentService:  alignmentService,
		enrichmentService: enrichmentService,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	runMessages, err := cs.pubSub.Subscribe(ctx, cs.runTopic)
	if err != nil {
		return err
	}
	enrichMessages, err := cs.pubSub.Subscribe(ctx, cs.enrichTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range runMessages {
			cs.processRunMessage(ctx, msg)
		}
	}()
	go func() {
		for msg := range enrichMessages {
			cs.processEnrichMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processRunMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RunAlignmentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "invalid run message, dropped", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack invalid messages to prevent infinite redelivery.
		msg.Ack()
		return
	}

	cs.log.Info("consumer", "alignment run picked up", map[string]interface{}{
		"job_id":     payload.JobId.String(),
		"lecture_id": payload.LectureId.String(),
	})

	if err := cs.alignmentService.RunAlignment(ctx, &payload); err != nil {
		// The run marks its own job failed; redelivering would start a
		// second run against a terminal job, so ack either way.
		cs.log.Error("consumer", "alignment run returned error", map[string]interface{}{
			"job_id": payload.JobId.String(),
			"error":  err.Error(),
		})
	}
	msg.Ack()
}

func (cs *consumerService) processEnrichMessage(ctx context.Context, msg *message.Message) {
	var payload dto.EnrichCardConceptMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "invalid enrich message, dropped", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	if err := cs.enrichmentService.EnrichCardConcept(ctx, &payload); err != nil {
		cs.log.Error("consumer", "card concept enrichment failed", map[string]interface{}{
			"card_concept_id": payload.CardConceptId.String(),
			"error":           err.Error(),
		})
		// Transient failures (embedding service down) are worth a retry.
		msg.Nack()
		return
	}
	msg.Ack()
}
