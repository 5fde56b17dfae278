package service

import (
	"context"
	"encoding/json"

	"synaptiq-be/internal/dto"
	"synaptiq-be/internal/pkg/logger"
	"synaptiq-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		log:        log,
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
	var payload dto.PublishPurgeSessionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal purge message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads never become valid, drop them
		return
	}

	cs.log.Info("consumer", "purging fragments", map[string]interface{}{"session_id": payload.SessionId})

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FragmentRepository().DeleteBySessionIdUnscoped(ctx, payload.SessionId); err != nil {
		cs.log.Error("consumer", "failed to purge fragments", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	cs.log.Info("consumer", "fragments purged", map[string]interface{}{"session_id": payload.SessionId})
	msg.Ack()
}
