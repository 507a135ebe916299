package eventbridge

import (
	buspkg "github.com/socialreel/eventbridge/internal/bus"
	configpkg "github.com/socialreel/eventbridge/internal/bus/config"
	errspkg "github.com/socialreel/eventbridge/internal/bus/errors"
	idspkg "github.com/socialreel/eventbridge/internal/bus/ids"
	jsoncodec "github.com/socialreel/eventbridge/internal/bus/jsoncodec"
	loggingpkg "github.com/socialreel/eventbridge/internal/bus/logging"
	transportpkg "github.com/socialreel/eventbridge/transport"
)

type (
	Config       = configpkg.Config
	Bridge       = buspkg.Bridge
	Dependencies = buspkg.Dependencies
	State        = buspkg.State
	Health       = buspkg.Health

	Envelope = buspkg.Envelope
	Handler  = buspkg.Handler
	Registry = buspkg.Registry

	// Typed payload variants
	Payload                 = buspkg.Payload
	StartedPayload          = buspkg.StartedPayload
	StateChangedPayload     = buspkg.StateChangedPayload
	CompletedPayload        = buspkg.CompletedPayload
	FailedPayload           = buspkg.FailedPayload
	UploadCompletedPayload  = buspkg.UploadCompletedPayload
	CaptionGeneratedPayload = buspkg.CaptionGeneratedPayload
	ScheduledPayload        = buspkg.ScheduledPayload
	PostedPayload           = buspkg.PostedPayload
	AnalyzedPayload         = buspkg.AnalyzedPayload
	OpaquePayload           = buspkg.OpaquePayload

	// Handler collaborators
	EventPublisher = buspkg.EventPublisher
	PublisherFunc  = buspkg.PublisherFunc
	AnalyticsSink  = buspkg.AnalyticsSink

	// Dispatch lifecycle hooks
	DispatchInfo  = buspkg.DispatchInfo
	DispatchHooks = buspkg.DispatchHooks

	// Bus metrics
	Metrics         = buspkg.Metrics
	TopicMetrics    = buspkg.TopicMetrics
	MetricsSnapshot = buspkg.MetricsSnapshot

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger

	ConnectionError = errspkg.ConnectionError

	// Modular transport types
	Transport             = transportpkg.Transport
	TransportBuilder      = transportpkg.Builder
	TransportConfig       = transportpkg.Config
	TransportRegistry     = transportpkg.Registry
	TransportCapabilities = transportpkg.Capabilities
)

var (
	NewBridge      = buspkg.NewBridge
	NewRegistry    = buspkg.NewRegistry
	ValidateConfig = configpkg.ValidateConfig

	NewEnvelope    = buspkg.NewEnvelope
	DecodeEnvelope = buspkg.DecodeEnvelope
	DecodePayload  = buspkg.DecodePayload

	// Standard backend handler set
	PipelineHandlers = buspkg.PipelineHandlers

	// Dispatch lifecycle hooks
	LoggingHooks = buspkg.LoggingHooks
	MetricsHooks = buspkg.MetricsHooks

	// Bus metrics
	NewMetrics = buspkg.NewMetrics

	// Modular transport registry
	// Import individual transports via: _ "github.com/socialreel/eventbridge/transport/nats"
	DefaultTransportRegistry = transportpkg.DefaultRegistry
	RegisterTransport        = transportpkg.Register
	BuildTransport           = transportpkg.Build
	GetCapabilities          = transportpkg.GetCapabilities

	Marshal       = jsoncodec.Marshal
	MarshalIndent = jsoncodec.MarshalIndent
	Unmarshal     = jsoncodec.Unmarshal
	Encode        = jsoncodec.Encode
	Decode        = jsoncodec.Decode

	ErrConfigRequired    = errspkg.ErrConfigRequired
	ErrLoggerRequired    = errspkg.ErrLoggerRequired
	ErrRegistryRequired  = errspkg.ErrRegistryRequired
	ErrHandlerRequired   = errspkg.ErrHandlerRequired
	ErrEventTypeRequired = errspkg.ErrEventTypeRequired

	NewSlogServiceLogger      = loggingpkg.NewSlogServiceLogger
	NewWatermillServiceLogger = loggingpkg.NewWatermillServiceLogger

	// NewMessageID generates a unique broker message ID using ULID.
	NewMessageID = idspkg.NewMessageID
)

// Lifecycle states.
const (
	StateStopped  = buspkg.StateStopped
	StateStarting = buspkg.StateStarting
	StateRunning  = buspkg.StateRunning
	StateStopping = buspkg.StateStopping
)

// Channel names - wire-level contract, must stay stable.
const (
	BroadcastTopic = buspkg.BroadcastTopic

	EventPipelineStarted          = buspkg.EventPipelineStarted
	EventPipelineStateChanged     = buspkg.EventPipelineStateChanged
	EventPipelineCompleted        = buspkg.EventPipelineCompleted
	EventPipelineFailed           = buspkg.EventPipelineFailed
	EventPipelineUploadCompleted  = buspkg.EventPipelineUploadCompleted
	EventPipelineCaptionGenerated = buspkg.EventPipelineCaptionGenerated
	EventPipelineScheduled        = buspkg.EventPipelineScheduled
	EventPipelinePosted           = buspkg.EventPipelinePosted
	EventPipelineAnalyzed         = buspkg.EventPipelineAnalyzed

	EventBackendPipelineCompleted  = buspkg.EventBackendPipelineCompleted
	EventBackendPipelineFailed     = buspkg.EventBackendPipelineFailed
	EventBackendPostPublished      = buspkg.EventBackendPostPublished
	EventBackendVideoUploaded      = buspkg.EventBackendVideoUploaded
	EventBackendCaptionGenerated   = buspkg.EventBackendCaptionGenerated
	EventBackendPostScheduled      = buspkg.EventBackendPostScheduled
	EventBackendAnalyticsCollected = buspkg.EventBackendAnalyticsCollected
)

// Config defaults.
const (
	DefaultSource          = configpkg.DefaultSource
	DefaultPollTimeout     = configpkg.DefaultPollTimeout
	DefaultBackoffInterval = configpkg.DefaultBackoffInterval
)

// Message metadata keys set on every outgoing broker message.
const (
	MetadataEventType = buspkg.MetadataEventType
	MetadataSource    = buspkg.MetadataSource
)
