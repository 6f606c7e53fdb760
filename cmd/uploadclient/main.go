package main

import (
	"flag"
	"fmt"
	"os"

	"cinevault/catalog/pkg/model"
	"cinevault/pkg/logging"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const flushTimeoutMs = 15 * 1000

func main() {
	addr := flag.String("addr", "localhost:9092", "kafka bootstrap servers")
	topic := flag.String("topic", "reviews", "review events topic")
	filePath := flag.String("file", "reviews.json", "JSON array of review events")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	logger = logger.With(zap.String(logging.FieldComponent, "uploadclient"))

	events, err := readEvents(*filePath)
	if err != nil {
		logger.Fatal("Failed to read review events", zap.String("file", *filePath), zap.Error(err))
	}
	producer, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": *addr})
	if err != nil {
		logger.Fatal("Failed to create producer", zap.Error(err))
	}
	defer producer.Close()

	logger.Info("Uploading review events", zap.Int("count", len(events)), zap.String("topic", *topic))
	if err := produce(producer, *topic, events); err != nil {
		logger.Fatal("Failed to upload review events", zap.Error(err))
	}
	if remaining := producer.Flush(flushTimeoutMs); remaining > 0 {
		logger.Fatal("Not all review events were delivered", zap.Int("remaining", remaining))
	}
	logger.Info("Review events uploaded")
}

func readEvents(filePath string) ([]model.ReviewEvent, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	var events []model.ReviewEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

func produce(producer *kafka.Producer, topic string, events []model.ReviewEvent) error {
	for _, event := range events {
		encoded, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := producer.Produce(&kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
			Key:            []byte(fmt.Sprintf("%d", event.MovieID)),
			Value:          encoded,
		}, nil); err != nil {
			return fmt.Errorf("failed to produce event: %w", err)
		}
	}
	return nil
}
