package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/mahirjain10/resize-uploader/internal/types"
	"github.com/mahirjain10/resize-uploader/internal/utils"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const StatusRoutingKey = "status"

const publishTimeout = 5 * time.Second

// Publisher is satisfied by *amqp.Channel.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMqPublisher sends pipeline status messages to a direct exchange.
type RabbitMqPublisher struct {
	channel  Publisher
	exchange string
	closer   func() error
}

func NewRabbitMqPublisher(channel Publisher, exchange string) *RabbitMqPublisher {
	return &RabbitMqPublisher{channel: channel, exchange: exchange}
}

// DialStatusPublisher connects, opens a channel and declares the status exchange.
func DialStatusPublisher(url string, exchange string) (*RabbitMqPublisher, error) {
	conn, err := NewRabbitMQClient(url)
	if err != nil {
		return nil, err
	}
	ch, err := NewChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := DeclareExchange(ch, exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	publisher := NewRabbitMqPublisher(ch, exchange)
	publisher.closer = func() error {
		ch.Close()
		return conn.Close()
	}
	return publisher, nil
}

func (rabbitMqPublisher *RabbitMqPublisher) Publish(ctx context.Context, message *types.StatusMessage) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	serializedMessage, err := utils.SerializeJSON(message)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	err = rabbitMqPublisher.channel.PublishWithContext(ctx,
		rabbitMqPublisher.exchange,
		StatusRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        serializedMessage,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (rabbitMqPublisher *RabbitMqPublisher) Close() error {
	if rabbitMqPublisher.closer == nil {
		return nil
	}
	return rabbitMqPublisher.closer()
}

// LogPublisher writes status messages to the diagnostic log instead of a broker.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (logPublisher *LogPublisher) Publish(ctx context.Context, message *types.StatusMessage) error {
	logPublisher.logger.Debug().
		Str("id", message.Data.ID).
		Str("status", message.Data.Status).
		Str("width", message.Data.Width).
		Str("height", message.Data.Height).
		Msg("upload status")
	return nil
}

func (logPublisher *LogPublisher) Close() error {
	return nil
}
