// Package rabbitmq публикует доменные события планировщика в RabbitMQ.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/surchef/internal/models"
)

// Channel — часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher публикует события в topic exchange, routing key равен типу события.
type Publisher struct {
	mu       sync.Mutex
	ch       Channel
	conn     *amqp.Connection
	exchange string
}

// Connect подключается к RabbitMQ с повторами и объявляет exchange.
func Connect(url, exchange string, retries int, delay time.Duration) (*Publisher, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	if retries < 1 {
		retries = 1
	}
	for range retries {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		time.Sleep(delay)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := NewPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

// NewPublisher создаёт Publisher поверх уже настроенного канала.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Publish публикует событие. amqp.Channel не потокобезопасен, поэтому вызовы сериализуются.
func (p *Publisher) Publish(ctx context.Context, event models.Event) error {
	const op = "rabbitmq.Publish"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(
		p.exchange,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// NopPublisher используется, когда RabbitMQ не настроен.
type NopPublisher struct{}

// Publish ничего не делает.
func (NopPublisher) Publish(context.Context, models.Event) error { return nil }
