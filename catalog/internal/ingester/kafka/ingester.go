package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinevault/catalog/pkg/model"
	"cinevault/pkg/logging"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const pollTimeout = time.Second

// Ingester defines a Kafka ingester.
type Ingester struct {
	consumer *kafka.Consumer
	topic    string
	logger   *zap.Logger
}

// NewIngester creates a new Kafka ingester.
func NewIngester(addr string, groupID string, topic string, logger *zap.Logger) (*Ingester, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "kafka-ingester"),
		zap.String("topic", topic),
	)
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": addr,
		"group.id":          groupID,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		return nil, err
	}
	return &Ingester{consumer: consumer, topic: topic, logger: logger}, nil
}

// Ingest starts ingestion from Kafka and returns a channel containing
// review events consumed from the topic. The channel is closed and the
// consumer released once ctx is done.
func (i *Ingester) Ingest(ctx context.Context) (chan model.ReviewEvent, error) {
	i.logger.Info("Starting Kafka ingester")
	if err := i.consumer.SubscribeTopics([]string{i.topic}, nil); err != nil {
		return nil, err
	}

	ch := make(chan model.ReviewEvent, 1)
	go func() {
		defer func() {
			close(ch)
			if err := i.consumer.Close(); err != nil {
				i.logger.Warn("Failed to close consumer", zap.Error(err))
			}
		}()
		for ctx.Err() == nil {
			msg, err := i.consumer.ReadMessage(pollTimeout)
			if err != nil {
				var kerr kafka.Error
				if errors.As(err, &kerr) && kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				i.logger.Warn("Consumer error", zap.Error(err))
				continue
			}
			event, err := decodeEvent(msg.Value)
			if err != nil {
				i.logger.Warn("Skipping malformed message", zap.String("offset", msg.TopicPartition.Offset.String()), zap.Error(err))
				continue
			}
			select {
			case ch <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func decodeEvent(value []byte) (model.ReviewEvent, error) {
	var event model.ReviewEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return event, err
	}
	switch event.EventType {
	case model.ReviewEventTypePut:
	case model.ReviewEventTypeDelete:
		if event.ID <= 0 {
			return event, errors.New("delete event without review id")
		}
	default:
		return event, fmt.Errorf("unknown event type %q", event.EventType)
	}
	return event, nil
}
