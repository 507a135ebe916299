// Package nats provides a NATS Core transport for eventbridge.
//
// NATS Core delivers at most once: subscribers that are offline miss
// messages, which matches the fire-and-forget semantics of the bus.
package nats

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/socialreel/eventbridge/transport"
)

// TransportName is the name used to register this transport.
const TransportName = "nats"

// PublisherFactory allows overriding the publisher creation for testing.
var PublisherFactory = func(cfg nats.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return nats.NewPublisher(cfg, logger)
}

// SubscriberFactory allows overriding the subscriber creation for testing.
var SubscriberFactory = func(cfg nats.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return nats.NewSubscriber(cfg, logger)
}

func init() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.NATSCapabilities)
}

// Register registers the NATS transport with the default registry.
func Register() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.NATSCapabilities)
}

// Build creates a new NATS Core transport. The same marshaler is used
// on both sides so envelope bytes survive the round trip unchanged.
func Build(ctx context.Context, cfg transport.Config, logger watermill.LoggerAdapter) (transport.Transport, error) {
	marshaler := &nats.NATSMarshaler{}

	pubConfig := nats.PublisherConfig{
		URL:       cfg.GetNATSURL(),
		Marshaler: marshaler,
	}
	subConfig := nats.SubscriberConfig{
		URL:         cfg.GetNATSURL(),
		Unmarshaler: marshaler,
	}

	publisher, err := PublisherFactory(pubConfig, logger)
	if err != nil {
		return transport.Transport{}, fmt.Errorf("nats: creating publisher: %w", err)
	}

	subscriber, err := SubscriberFactory(subConfig, logger)
	if err != nil {
		return transport.Transport{}, fmt.Errorf("nats: creating subscriber: %w", err)
	}

	return transport.Transport{
		Publisher:  publisher,
		Subscriber: subscriber,
	}, nil
}

// Capabilities returns the capabilities of this transport.
func Capabilities() transport.Capabilities {
	return transport.NATSCapabilities
}
