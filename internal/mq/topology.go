package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
//
// Оба обменника — topic: маршрутизация ведётся по posttroll-topic'ам,
// переведённым в routing keys (см. TopicToRoutingKey).
const (
	// ExchangeSDR — входящие уведомления о новых SDR-гранулах.
	ExchangeSDR Exchange = "wildfire.sdr"

	// ExchangeProducts — исходящие уведомления о готовых AF-продуктах.
	ExchangeProducts Exchange = "wildfire.products"
)

// SDRQueue возвращает имя очереди для сервиса.
// Каждый сервис (viirs-ibands, viirs-mbands) слушает свою очередь.
func SDRQueue(service string) Queue {
	return Queue("sdr." + service)
}

// SetupTopology объявляет обменники и очередь сервиса с привязками.
//
// subscribeTopics — posttroll-topic'и подписки из конфигурации;
// каждый транслируется в binding pattern на обменнике wildfire.sdr.
// Очереди для wildfire.products объявляют сами потребители продуктов.
func SetupTopology(ctx context.Context, conn *Connection, service string, subscribeTopics []string) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		// 1. Создаём exchanges
		if err := declareExchanges(ch); err != nil {
			return err
		}

		// 2. Создаём очередь сервиса
		queue := SDRQueue(service)
		_, err := ch.QueueDeclare(
			string(queue), // name
			true,          // durable
			false,         // delete when unused
			false,         // exclusive
			false,         // no-wait
			nil,           // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		// 3. Привязываем очередь к подписанным topic'ам
		for _, topic := range subscribeTopics {
			pattern := TopicToBindingKey(topic)
			err := ch.QueueBind(
				string(queue),      // queue name
				pattern,            // routing key pattern
				string(ExchangeSDR), // exchange
				false,              // no-wait
				nil,                // arguments
			)
			if err != nil {
				return fmt.Errorf("bind queue %s to %s (%s): %w", queue, ExchangeSDR, pattern, err)
			}
		}

		return nil
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	exchanges := []Exchange{ExchangeSDR, ExchangeProducts}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex), // name
			"topic",    // type
			true,       // durable
			false,      // auto-deleted
			false,      // internal
			false,      // no-wait
			nil,        // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex, err)
		}
	}

	return nil
}
