package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/code-gritt/maiden/internal/pkg/logger"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process event topic and writes each event to
// the structured audit log.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	log       logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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
	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.log.Error("events", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed payloads would just retry forever
		return
	}

	cs.log.Info("audit", envelope.Type, envelope.Data)
	msg.Ack()
}
