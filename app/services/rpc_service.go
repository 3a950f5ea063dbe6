package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okhira/mijikai/database"
	"github.com/okhira/mijikai/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RPCService performs request/reply calls over the message broker using a
// one-shot reply queue and a correlation ID per call, and publishes
// fire-and-forget click events.
type RPCService interface {
	Call(ctx context.Context, queueName string, payload any, timeout time.Duration) ([]byte, error)
	PublishClickEvent(ctx context.Context, queueName string, body []byte) error
}

type rpcService struct {
	rabbitmq *database.RabbitMQ

	// Publishes and consumer registrations share one channel and must be
	// serialized; deliveries themselves arrive on per-call queues.
	mu sync.Mutex
}

// NewRPCService creates the broker RPC client on the shared channel
func NewRPCService(rabbitmq *database.RabbitMQ) RPCService {
	return &rpcService{rabbitmq: rabbitmq}
}

func (s *rpcService) Call(ctx context.Context, queueName string, payload any, timeout time.Duration) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, models.ErrQueueError.Wrap(err).WithContext("queue", queueName)
	}

	correlationID := uuid.New().String()
	consumerTag := uuid.New().String()

	s.mu.Lock()
	replyQueue, err := s.rabbitmq.Channel.QueueDeclare(
		"",    // name (empty = server-generated)
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		s.mu.Unlock()
		return nil, models.ErrQueueError.Wrap(err).WithContext("queue", queueName)
	}

	msgs, err := s.rabbitmq.Channel.Consume(
		replyQueue.Name,
		consumerTag,
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		_, _ = s.rabbitmq.Channel.QueueDelete(replyQueue.Name, false, false, false)
		s.mu.Unlock()
		return nil, models.ErrQueueError.Wrap(err).WithContext("queue", queueName)
	}

	err = s.rabbitmq.Channel.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: correlationID,
			ReplyTo:       replyQueue.Name,
			DeliveryMode:  amqp.Transient, // RPC is latency- not durability-oriented
			Timestamp:     time.Now(),
			Body:          body,
		},
	)
	s.mu.Unlock()

	// Cancelling the consumer releases the auto-delete reply queue on every
	// exit path.
	defer func() {
		s.mu.Lock()
		if err := s.rabbitmq.Channel.Cancel(consumerTag, false); err != nil {
			log.Printf("Failed to cancel RPC reply consumer %s: %v", consumerTag, err)
		}
		s.mu.Unlock()
	}()

	if err != nil {
		return nil, models.ErrQueueError.Wrap(err).WithContext("queue", queueName)
	}

	select {
	case msg := <-msgs:
		if msg.CorrelationId != correlationID {
			return nil, models.ErrQueueError.
				WithMessage("RPC reply correlation mismatch").
				WithContext("queue", queueName).
				WithContext("correlationId", correlationID)
		}
		return msg.Body, nil

	case <-time.After(timeout):
		return nil, models.ErrTimeout.
			WithContext("queue", queueName).
			WithContext("timeout", timeout.String())

	case <-ctx.Done():
		return nil, models.ErrQueueError.Wrap(ctx.Err()).WithContext("queue", queueName)
	}
}

func (s *rpcService) PublishClickEvent(ctx context.Context, queueName string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.rabbitmq.Channel.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return models.ErrQueueError.Wrap(err).WithContext("queue", queueName)
	}

	return nil
}
