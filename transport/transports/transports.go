// Package transports imports all built-in transports for auto-registration.
// Import this package to have all transports registered with the default registry.
package transports

import (
	// Import all transports for side-effect registration
	_ "github.com/socialreel/eventbridge/transport/aws"
	_ "github.com/socialreel/eventbridge/transport/channel"
	_ "github.com/socialreel/eventbridge/transport/jetstream"
	_ "github.com/socialreel/eventbridge/transport/kafka"
	_ "github.com/socialreel/eventbridge/transport/nats"
	_ "github.com/socialreel/eventbridge/transport/rabbitmq"
)
