package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в указанный exchange.
// Routing key выводится из msg.Topic.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	routingKey := TopicToRoutingKey(msg.Topic)

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"topic", msg.Topic,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishProduct публикует уведомление о готовом AF-продукте.
// Потребители: downstream-системы (архивация, рассылка, визуализация).
func (p *Publisher) PublishProduct(ctx context.Context, topic string, data map[string]any) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeDataset,
		Topic:     topic,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	return p.Publish(ctx, ExchangeProducts, msg)
}

// PublishSDR публикует уведомление о наборе SDR-файлов.
// Используется wildfire-cli inject для smoke-тестов развёрнутой системы.
func (p *Publisher) PublishSDR(ctx context.Context, topic string, data map[string]any) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeDataset,
		Topic:     topic,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	return p.Publish(ctx, ExchangeSDR, msg)
}
