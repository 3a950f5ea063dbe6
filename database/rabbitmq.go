package database

import (
	"fmt"
	"log"

	"github.com/okhira/mijikai/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ holds the single broker connection and channel shared by the RPC
// client and the click-events publisher. Reply queues are declared per call.
type RabbitMQ struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
}

// NewRabbitMQ dials the broker, opens the shared channel, and declares the
// durable click-events queue. Failure to declare required queues is fatal to
// startup.
func NewRabbitMQ(cfg config.RabbitMQConfig) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.Queues.ClickEvents,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %q: %w", cfg.Queues.ClickEvents, err)
	}

	log.Printf("RabbitMQ connection established, queue %q declared", cfg.Queues.ClickEvents)

	return &RabbitMQ{
		Connection: conn,
		Channel:    ch,
	}, nil
}

// Close shuts the channel before the connection
func (r *RabbitMQ) Close() error {
	if err := r.Channel.Close(); err != nil {
		log.Printf("Error closing rabbitmq channel: %v", err)
	}
	if err := r.Connection.Close(); err != nil {
		return fmt.Errorf("failed to close rabbitmq connection: %w", err)
	}

	log.Println("RabbitMQ connection closed")
	return nil
}
