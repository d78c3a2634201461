package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"myfitapp/internal/models"
	"myfitapp/internal/service"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var _ service.EmailPublisher = (*rabbitEmailPublisher)(nil)

type rabbitEmailPublisher struct {
	conn      *amqp.Connection
	logger    *zap.Logger
	queueName string
}

// NewRabbitEmailPublisher publishes email jobs to a durable queue, declaring it on start.
func NewRabbitEmailPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (service.EmailPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection is nil")
	}
	p := &rabbitEmailPublisher{
		conn:      conn,
		logger:    logger.Named("EmailPublisher").With(zap.String("queue", queueName)),
		queueName: queueName,
	}
	if err := p.declareQueue(); err != nil {
		return nil, fmt.Errorf("failed to verify queue %s on init: %w", queueName, err)
	}
	p.logger.Info("EmailPublisher initialized")
	return p, nil
}

func (p *rabbitEmailPublisher) declareQueue() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if _, err := declareEmailQueue(ch, p.queueName); err != nil {
		return err
	}
	return nil
}

func (p *rabbitEmailPublisher) PublishEmail(ctx context.Context, msg models.EmailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		p.logger.Error("Failed to open channel for publishing", zap.Error(err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx,
		"",          // default exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish email message", zap.String("kind", string(msg.Kind)), zap.Error(err))
		return fmt.Errorf("failed to publish email message: %w", err)
	}

	p.logger.Debug("Email message published", zap.String("kind", string(msg.Kind)))
	return nil
}

func declareEmailQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return q, fmt.Errorf("failed to declare queue '%s': %w", name, err)
	}
	return q, nil
}
