// Package events moves change notifications over Kafka.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/pkg/config"
)

// Publisher sends a keyed payload to the change feed.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Close() error
}

// NewSaramaConfig returns the client configuration shared by producer and consumer.
func NewSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "resto-menu-api"
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true
	cfg.Net.DialTimeout = 10 * time.Second
	cfg.Net.ReadTimeout = 10 * time.Second
	cfg.Net.WriteTimeout = 10 * time.Second
	cfg.Consumer.Group.Session.Timeout = 45 * time.Second
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Return.Errors = true
	return cfg
}

// Producer publishes to a single topic with a synchronous producer so callers
// learn about delivery failures.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewProducer dials the configured brokers.
func NewProducer(cfg config.EventsConfig, logger *zap.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	sp, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewProducerWith(sp, cfg.Topic, logger), nil
}

// NewProducerWith wraps an existing producer.
func NewProducerWith(sp sarama.SyncProducer, topic string, logger *zap.Logger) *Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Producer{producer: sp, topic: topic, logger: logger}
}

// Publish sends payload keyed by key so one tenant's events stay ordered.
func (p *Producer) Publish(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("send to %s: %w", p.topic, err)
	}
	p.logger.Debug("event published", zap.String("topic", p.topic), zap.String("key", key), zap.Int32("partition", partition), zap.Int64("offset", offset))
	return nil
}

// Close flushes and closes the producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every payload. Used when the feed is disabled.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, []byte) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }

// MessageHandler processes one consumed payload.
type MessageHandler func(ctx context.Context, key, payload []byte) error

// Consumer reads the change feed as a member of a consumer group.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler MessageHandler
	logger  *zap.Logger
}

// NewConsumer joins the configured consumer group.
func NewConsumer(cfg config.EventsConfig, handler MessageHandler, logger *zap.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{group: group, topic: cfg.Topic, handler: handler, logger: logger}, nil
}

// Run consumes until ctx is cancelled, rejoining after every rebalance.
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Warn("consumer group error", zap.Error(err))
		}
	}()
	h := &groupHandler{handler: c.handler, logger: c.logger}
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return fmt.Errorf("consume %s: %w", c.topic, err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close leaves the group.
func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	handler MessageHandler
	logger  *zap.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks every message, including ones the handler rejects. A
// rejected message is logged; redelivery would not change the outcome.
func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.handler(session.Context(), msg.Key, msg.Value); err != nil {
				h.logger.Warn("event handling failed",
					zap.String("topic", msg.Topic),
					zap.Int32("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Error(err))
			}
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
