// Package eventbridge is a publish/subscribe bridge, built on Watermill,
// that lets independent services coordinate a multi-stage content
// pipeline (upload, caption, schedule, post, analyze) without direct
// coupling. It defines a stable JSON event envelope, keeps a long-lived
// dispatch loop that never crashes the host process, and mirrors every
// published envelope onto a broadcast channel for observers.
//
// A Bridge owns one broker connection. Construct it with a Config, a
// ServiceLogger, and an immutable handler Registry, then either call
// Start or just Publish (the first publish connects lazily). Every
// Publish writes the envelope to the channel named after its event type
// and then to the "events:all" broadcast channel; both copies carry
// identical bytes. Channel writes are fire-and-forget: the bus is a
// best-effort, at-most-once notification layer, and callers must not
// depend on delivery confirmation.
//
// # Transports
//
// The broker is selected by Config.Broker and resolved through the
// transport registry:
//   - channel: In-memory Go channels for testing
//   - nats: NATS Core, the closest match to the bus's lossy semantics
//   - nats-jetstream: NATS with stream persistence
//   - kafka: Consumer-group streaming
//   - rabbitmq: AMQP durable pub/sub topology
//   - aws: AWS SNS/SQS with LocalStack support
//
// Import github.com/socialreel/eventbridge/transport/transports to
// register all of them, or blank-import individual packages.
//
// # Handlers
//
// The Registry maps event types to handlers and is read-only after
// construction. PipelineHandlers returns the standard backend handler
// set: stage observers, forwarders that derive backend.* events from
// terminal pipeline events, and analytics recorders. Handler errors and
// panics are logged, counted, and swallowed; a failing handler never
// stops dispatch of subsequent messages.
//
// # Observability
//
// Metrics exposes Prometheus counters per failure kind (publish
// failures, decode failures, handler failures, silent drops) so
// operators can detect elevated drop rates that the swallow-and-log
// policy would otherwise hide. DispatchHooks provide OnDispatchStart,
// OnDispatchDone, and OnDispatchError callbacks for custom logging,
// metrics, and alerting around handler execution.
package eventbridge
