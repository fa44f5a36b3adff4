// AngelaMos | 2026
// producer.go

package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Kukusha-yon/carecorner-sub000/internal/config"
)

// Producer publishes order lifecycle events through a buffered inbox so
// checkout latency never waits on the broker. A nil Producer is a valid
// no-op; callers don't branch on whether Kafka is configured.
type Producer struct {
	writer *kafka.Writer
	inbox  chan kafka.Message
	done   chan struct{}
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

func NewProducer(cfg config.KafkaConfig, logger *slog.Logger) *Producer {
	if !cfg.Enabled() {
		return nil
	}

	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = 256
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:  make(chan kafka.Message, buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start runs the drain loop. Must be called once before Publish.
func (p *Producer) Start() {
	if p == nil {
		return
	}

	go func() {
		defer close(p.done)
		for m := range p.inbox {
			if err := p.writer.WriteMessages(context.Background(), m); err != nil {
				p.logger.Error("event publish failed",
					"topic", p.writer.Topic,
					"key", string(m.Key),
					"error", err,
				)
			}
		}
		if err := p.writer.Close(); err != nil {
			p.logger.Error("kafka writer close failed", "error", err)
		}
	}()
}

// Publish enqueues an event keyed by orderID so one order's events stay
// on one partition. Drops with a log line when the inbox is full.
func (p *Producer) Publish(eventType, orderID string, payload any) {
	if p == nil {
		return
	}

	envelope := Envelope{
		Type:       eventType,
		Version:    1,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		p.logger.Error("event marshal failed", "type", eventType, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(orderID),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}

	// The read lock pairs with the write lock in Close: a publish that
	// races shutdown drops the event instead of hitting a closed channel.
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("event inbox closed, dropping",
			"type", eventType,
			"order_id", orderID,
		)
		return
	}

	select {
	case p.inbox <- msg:
	default:
		p.logger.Warn("event inbox full, dropping",
			"type", eventType,
			"order_id", orderID,
		)
	}
}

// Close flushes buffered events and waits for the drain loop, bounded
// by ctx.
func (p *Producer) Close(ctx context.Context) error {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
