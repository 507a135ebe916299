package transport

// Capabilities describes the delivery characteristics of a broker backend.
// The bus itself only promises best-effort, at-most-once notification; a
// durable broker strengthens that per deployment without changing the bus
// contract.
type Capabilities struct {
	// Name is the human-readable name of the broker.
	Name string

	// Durable indicates messages survive a broker restart. Non-durable
	// brokers drop anything in flight, which matches the bus's lossy
	// broadcast model.
	Durable bool

	// SupportsOrdering indicates the broker delivers messages to a single
	// subscriber in publish order.
	SupportsOrdering bool

	// SupportsAck indicates the broker supports explicit acknowledgment.
	SupportsAck bool

	// SupportsNack indicates the broker supports negative acknowledgment
	// (redelivery).
	SupportsNack bool

	// MaxMessageSize is the maximum message size in bytes (0 = unlimited or
	// unknown).
	MaxMessageSize int64
}

// AtMostOnce reports whether the broker can only deliver each message at most
// once (no ack means no redelivery).
func (c Capabilities) AtMostOnce() bool {
	return !c.SupportsAck
}

// MayRedeliver reports whether a subscriber can observe the same message
// twice. The bus does not deduplicate, so handlers behind such brokers must
// tolerate duplicates.
func (c Capabilities) MayRedeliver() bool {
	return c.SupportsNack
}

// Predefined capability sets for the built-in brokers.
var (
	// ChannelCapabilities for the in-memory Go channel broker.
	ChannelCapabilities = Capabilities{
		Name:             "channel",
		Durable:          false,
		SupportsOrdering: true,
		SupportsAck:      true,
		SupportsNack:     true,
	}

	// NATSCapabilities for the NATS Core broker. Fire-and-forget fan-out,
	// the closest analogue of a Redis-style pub/sub channel server.
	NATSCapabilities = Capabilities{
		Name:             "nats",
		Durable:          false,
		SupportsOrdering: false,
		SupportsAck:      false,
		SupportsNack:     false,
		MaxMessageSize:   1048576, // Default 1MB
	}

	// JetStreamCapabilities for the NATS JetStream broker.
	JetStreamCapabilities = Capabilities{
		Name:             "nats-jetstream",
		Durable:          true,
		SupportsOrdering: true,
		SupportsAck:      true,
		SupportsNack:     true,
		MaxMessageSize:   1048576, // Default 1MB
	}

	// KafkaCapabilities for the Apache Kafka broker.
	KafkaCapabilities = Capabilities{
		Name:             "kafka",
		Durable:          true,
		SupportsOrdering: true,
		SupportsAck:      true,
		SupportsNack:     false,
		MaxMessageSize:   1048576, // Default 1MB
	}

	// RabbitMQCapabilities for the RabbitMQ/AMQP broker.
	RabbitMQCapabilities = Capabilities{
		Name:             "rabbitmq",
		Durable:          true,
		SupportsOrdering: true,
		SupportsAck:      true,
		SupportsNack:     true,
	}

	// AWSCapabilities for the AWS SNS/SQS broker.
	AWSCapabilities = Capabilities{
		Name:             "aws",
		Durable:          true,
		SupportsOrdering: true,
		SupportsAck:      true,
		SupportsNack:     true,
		MaxMessageSize:   262144, // 256KB
	}
)

// GetCapabilities returns the capabilities for a broker by name, looked up in
// the default registry. Returns a zero Capabilities struct if the broker is
// unknown.
func GetCapabilities(name string) Capabilities {
	return DefaultRegistry.GetCapabilities(name)
}
