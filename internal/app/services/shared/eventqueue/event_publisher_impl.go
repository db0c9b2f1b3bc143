// Package eventqueue publishes assessment lifecycle events to RabbitMQ.
// Durable queue plus publisher confirms: a confirmed publish survives a broker
// restart, and an unconfirmed one surfaces as an error instead of silently
// vanishing.
package eventqueue

import (
	"context"
	"fmt"
	"sync"

	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type eventPublisher struct {
	ch       *amqp.Channel
	log      *zap.Logger
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

// NewEventPublisher declares the durable events queue and enables publisher
// confirms on a dedicated channel.
func NewEventPublisher(conn *amqp.Connection, logger *zap.Logger) (contracts.EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		constvars.AssessmentEventsQueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &eventPublisher{
		ch:       ch,
		log:      logger,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

func (p *eventPublisher) Publish(ctx context.Context, event contracts.AssessmentEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	p.log.Info("eventPublisher.Publish called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventTypeKey, event.Type),
		zap.String(constvars.LoggingAssessmentIDKey, event.AssessmentID),
	)

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, constvars.AssessmentEventsQueueName)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := p.ch.PublishWithContext(ctx, "", constvars.AssessmentEventsQueueName, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, constvars.AssessmentEventsQueueName)
	}

	select {
	case confirmed := <-p.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), constvars.AssessmentEventsQueueName)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), constvars.AssessmentEventsQueueName)
	}

	p.log.Info("eventPublisher.Publish confirmed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, constvars.AssessmentEventsQueueName),
	)
	return nil
}
