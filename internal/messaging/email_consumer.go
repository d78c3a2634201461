package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"myfitapp/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// sendTimeout bounds a single SMTP delivery.
const sendTimeout = 30 * time.Second

// EmailSender delivers a rendered email.
type EmailSender interface {
	Send(ctx context.Context, msg models.EmailMessage) error
}

// EmailConsumer reads email jobs with a fixed pool of workers.
type EmailConsumer struct {
	conn        *amqp.Connection
	logger      *zap.Logger
	queueName   string
	concurrency int
	processor   *EmailProcessor
	stopOnce    sync.Once
	stopChannel chan struct{}
	wg          sync.WaitGroup
}

func NewEmailConsumer(conn *amqp.Connection, queueName string, concurrency int, processor *EmailProcessor, logger *zap.Logger) *EmailConsumer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &EmailConsumer{
		conn:        conn,
		logger:      logger.Named("EmailConsumer"),
		queueName:   queueName,
		concurrency: concurrency,
		processor:   processor,
		stopChannel: make(chan struct{}),
	}
}

// Start blocks until Stop is called or the delivery channel closes. After
// Stop, workers finish the email they are sending and take no new ones.
func (c *EmailConsumer) Start() error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	defer ch.Close()

	q, err := declareEmailQueue(ch, c.queueName)
	if err != nil {
		return err
	}
	if err := ch.Qos(c.concurrency, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"email-consumer",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}
	c.logger.Info("Email consumer started", zap.String("queue", q.Name), zap.Int("concurrency", c.concurrency))

	done := make(chan struct{})
	c.wg.Add(c.concurrency)
	for i := 0; i < c.concurrency; i++ {
		go func(workerID int) {
			defer c.wg.Done()
			log := c.logger.With(zap.Int("worker_id", workerID))
			for {
				select {
				case <-c.stopChannel:
					return
				case d, ok := <-msgs:
					if !ok {
						log.Info("Delivery channel closed, worker exiting")
						return
					}
					c.processor.ProcessMessage(context.Background(), d)
				}
			}
		}(i)
	}
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-c.stopChannel:
		c.logger.Info("Stop requested, draining workers")
		<-done
	case <-done:
	}
	c.logger.Info("Email consumer stopped")
	return nil
}

// Stop signals Start to return. Safe to call more than once.
func (c *EmailConsumer) Stop() {
	c.stopOnce.Do(func() { close(c.stopChannel) })
}

// EmailProcessor decodes one delivery and hands it to the sender.
type EmailProcessor struct {
	logger *zap.Logger
	sender EmailSender
}

func NewEmailProcessor(sender EmailSender, logger *zap.Logger) *EmailProcessor {
	return &EmailProcessor{
		logger: logger.Named("EmailProcessor"),
		sender: sender,
	}
}

// ProcessMessage acks delivered emails. Bad payloads and send failures are
// nacked without requeue so a poison message cannot loop. A send interrupted
// by ctx cancellation is requeued.
func (p *EmailProcessor) ProcessMessage(ctx context.Context, d amqp.Delivery) {
	log := p.logger.With(zap.Uint64("delivery_tag", d.DeliveryTag))

	var msg models.EmailMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil || msg.To == "" {
		log.Error("Invalid email payload", zap.Error(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Error("Failed to nack invalid payload", zap.Error(nackErr))
		}
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := p.sender.Send(sendCtx, msg); err != nil {
		requeue := errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled)
		log.Error("Failed to send email", zap.String("kind", string(msg.Kind)), zap.Bool("requeue", requeue), zap.Error(err))
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			log.Error("Failed to nack message", zap.Error(nackErr))
		}
		return
	}

	if ackErr := d.Ack(false); ackErr != nil {
		log.Error("Failed to ack message", zap.Error(ackErr))
		return
	}
	log.Info("Email delivered", zap.String("kind", string(msg.Kind)))
}
