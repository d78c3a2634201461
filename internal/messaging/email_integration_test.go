package messaging

import (
	"context"
	"sync"
	"testing"
	"time"

	"myfitapp/internal/models"

	"github.com/docker/docker/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcrabbitmq "github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"go.uber.org/zap"
)

type channelSender struct {
	mu       sync.Mutex
	received chan models.EmailMessage
}

func (s *channelSender) Send(_ context.Context, msg models.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received <- msg
	return nil
}

func TestEmailQueueRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		t.Skipf("Docker client init error: %v", err)
	}
	defer cli.Close()
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Skipf("Docker daemon is not reachable: %v", err)
	}

	ctx := context.Background()
	container, err := tcrabbitmq.Run(ctx, "rabbitmq:3.13-management-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	amqpURL, err := container.AmqpURL(ctx)
	require.NoError(t, err)

	logger := zap.NewNop()
	conn, err := Connect(amqpURL, 10, time.Second, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	const queue = "email_notifications_test"
	publisher, err := NewRabbitEmailPublisher(conn, queue, logger)
	require.NoError(t, err)

	sender := &channelSender{received: make(chan models.EmailMessage, 1)}
	consumer := NewEmailConsumer(conn, queue, 2, NewEmailProcessor(sender, logger), logger)
	done := make(chan error, 1)
	go func() { done <- consumer.Start() }()

	msg := models.EmailMessage{To: "runner@gmail.com", Subject: "Welcome to MyFitApp", HTML: "<h2>123456</h2>", Kind: models.PurposeActivateAccount}
	require.NoError(t, publisher.PublishEmail(ctx, msg))

	select {
	case got := <-sender.received:
		assert.Equal(t, msg, got)
	case <-time.After(30 * time.Second):
		t.Fatal("email was not consumed in time")
	}

	consumer.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
