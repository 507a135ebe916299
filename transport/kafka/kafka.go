// Package kafka provides a Kafka transport for eventbridge.
package kafka

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/socialreel/eventbridge/transport"
)

// TransportName is the name used to register this transport.
const TransportName = "kafka"

// PublisherFactory allows overriding the publisher creation for testing.
var PublisherFactory = func(cfg kafka.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return kafka.NewPublisher(cfg, logger)
}

// SubscriberFactory allows overriding the subscriber creation for testing.
var SubscriberFactory = func(cfg kafka.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return kafka.NewSubscriber(cfg, logger)
}

func init() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.KafkaCapabilities)
}

// Register registers the Kafka transport with the default registry.
func Register() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.KafkaCapabilities)
}

// Build creates a new Kafka transport. Subscribers in the same consumer
// group share a topic's partitions, so each envelope is dispatched once
// per group rather than once per process.
func Build(ctx context.Context, cfg transport.Config, logger watermill.LoggerAdapter) (transport.Transport, error) {
	pubConfig := kafka.PublisherConfig{
		Brokers:   cfg.GetKafkaBrokers(),
		Marshaler: kafka.DefaultMarshaler{},
	}
	subConfig := kafka.SubscriberConfig{
		Brokers:       cfg.GetKafkaBrokers(),
		Unmarshaler:   kafka.DefaultMarshaler{},
		ConsumerGroup: cfg.GetKafkaConsumerGroup(),
	}

	publisher, err := PublisherFactory(pubConfig, logger)
	if err != nil {
		return transport.Transport{}, fmt.Errorf("kafka: creating publisher: %w", err)
	}

	subscriber, err := SubscriberFactory(subConfig, logger)
	if err != nil {
		return transport.Transport{}, fmt.Errorf("kafka: creating subscriber: %w", err)
	}

	return transport.Transport{
		Publisher:  publisher,
		Subscriber: subscriber,
	}, nil
}

// Capabilities returns the capabilities of this transport.
func Capabilities() transport.Capabilities {
	return transport.KafkaCapabilities
}
