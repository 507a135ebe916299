package bus

import (
	"context"
	"fmt"

	"github.com/socialreel/eventbridge/internal/bus/errors"
	"github.com/socialreel/eventbridge/internal/bus/logging"
)

// Pipeline event types published by the orchestrator. The string
// values are the wire-level channel names and must stay stable.
const (
	EventPipelineStarted          = "pipeline.started"
	EventPipelineStateChanged     = "pipeline.state_changed"
	EventPipelineCompleted        = "pipeline.completed"
	EventPipelineFailed           = "pipeline.failed"
	EventPipelineUploadCompleted  = "pipeline.upload_completed"
	EventPipelineCaptionGenerated = "pipeline.caption_generated"
	EventPipelineScheduled        = "pipeline.scheduled"
	EventPipelinePosted           = "pipeline.posted"
	EventPipelineAnalyzed         = "pipeline.analyzed"
)

// Backend event types derived by the forwarding handlers and the
// convenience publishers.
const (
	EventBackendPipelineCompleted  = "backend.pipeline_completed"
	EventBackendPipelineFailed     = "backend.pipeline_failed"
	EventBackendPostPublished      = "backend.post_published"
	EventBackendVideoUploaded      = "backend.video_uploaded"
	EventBackendCaptionGenerated   = "backend.caption_generated"
	EventBackendPostScheduled      = "backend.post_scheduled"
	EventBackendAnalyticsCollected = "backend.analytics_collected"
)

// EventPublisher is the publish surface handlers use to forward
// derived events. *Bridge satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data map[string]any) error
}

// PublisherFunc adapts a plain function to the EventPublisher interface.
type PublisherFunc func(ctx context.Context, eventType string, data map[string]any) error

func (f PublisherFunc) Publish(ctx context.Context, eventType string, data map[string]any) error {
	return f(ctx, eventType, data)
}

// AnalyticsSink durably records caption and performance analytics
// observed on the bus. The bus only guarantees the sink was invoked,
// not that the record was stored.
type AnalyticsSink interface {
	StoreCaptionAnalytics(ctx context.Context, p CaptionGeneratedPayload) error
	StorePerformanceAnalytics(ctx context.Context, p AnalyzedPayload) error
}

// PipelineHandlers returns the standard backend handler set for the
// orchestrator's pipeline events. Stage events are observed and
// logged; terminal events are forwarded under the backend.* namespace;
// caption and analytics events are recorded in the sink when one is
// provided.
func PipelineHandlers(pub EventPublisher, sink AnalyticsSink, logger logging.ServiceLogger) map[string]Handler {
	return map[string]Handler{
		EventPipelineStarted:          observeStage(logger, "pipeline started"),
		EventPipelineStateChanged:     observeStateChange(logger),
		EventPipelineCompleted:        forward(pub, EventBackendPipelineCompleted),
		EventPipelineFailed:           forward(pub, EventBackendPipelineFailed),
		EventPipelineUploadCompleted:  observeStage(logger, "upload completed"),
		EventPipelineCaptionGenerated: recordCaption(sink, logger),
		EventPipelineScheduled:        observeStage(logger, "post scheduled"),
		EventPipelinePosted:           forward(pub, EventBackendPostPublished),
		EventPipelineAnalyzed:         recordAnalytics(sink, logger),
	}
}

// observeStage logs a pipeline stage event after validating its
// payload.
func observeStage(logger logging.ServiceLogger, msg string) Handler {
	return func(ctx context.Context, env Envelope) error {
		p, err := DecodePayload(env.EventType, env.Data)
		if err != nil {
			return err
		}
		fields := logging.LogFields{
			"event_type": env.EventType,
			"event_id":   env.EventID,
			"source":     env.Source,
		}
		switch v := p.(type) {
		case StartedPayload:
			fields["task_id"] = v.TaskID
		case UploadCompletedPayload:
			fields["task_id"] = v.TaskID
			fields["video_path"] = v.VideoPath
		case ScheduledPayload:
			fields["task_id"] = v.TaskID
			fields["scheduled_time"] = v.ScheduledTime
		}
		logger.Info(msg, fields)
		return nil
	}
}

func observeStateChange(logger logging.ServiceLogger) Handler {
	return func(ctx context.Context, env Envelope) error {
		p, err := DecodePayload(env.EventType, env.Data)
		if err != nil {
			return err
		}
		change := p.(StateChangedPayload)
		logger.Info("pipeline state changed", logging.LogFields{
			"task_id":    change.TaskID,
			"from_state": change.FromState,
			"to_state":   change.ToState,
		})
		return nil
	}
}

// forward validates the inbound payload and republishes the full data
// mapping under the derived event type. The derived type differs from
// the input channel, so no self-loop is possible.
func forward(pub EventPublisher, derivedType string) Handler {
	return func(ctx context.Context, env Envelope) error {
		if _, err := DecodePayload(env.EventType, env.Data); err != nil {
			return err
		}
		if err := pub.Publish(ctx, derivedType, env.Data); err != nil {
			return fmt.Errorf("forwarding %s as %s: %w", env.EventType, derivedType, err)
		}
		return nil
	}
}

func recordCaption(sink AnalyticsSink, logger logging.ServiceLogger) Handler {
	return func(ctx context.Context, env Envelope) error {
		p, err := DecodePayload(env.EventType, env.Data)
		if err != nil {
			return err
		}
		caption := p.(CaptionGeneratedPayload)
		if sink == nil {
			logger.Debug("caption generated; no analytics sink configured", logging.LogFields{
				"task_id": caption.TaskID,
			})
			return nil
		}
		if err := sink.StoreCaptionAnalytics(ctx, caption); err != nil {
			return fmt.Errorf("storing caption analytics for %s: %w", caption.TaskID, err)
		}
		return nil
	}
}

func recordAnalytics(sink AnalyticsSink, logger logging.ServiceLogger) Handler {
	return func(ctx context.Context, env Envelope) error {
		p, err := DecodePayload(env.EventType, env.Data)
		if err != nil {
			return err
		}
		analyzed := p.(AnalyzedPayload)
		if sink == nil {
			logger.Debug("analytics received; no analytics sink configured", logging.LogFields{
				"task_id": analyzed.TaskID,
			})
			return nil
		}
		if err := sink.StorePerformanceAnalytics(ctx, analyzed); err != nil {
			return fmt.Errorf("storing performance analytics for %s: %w", analyzed.TaskID, err)
		}
		return nil
	}
}

// Convenience publishers for the backend-originated event types.

// PublishVideoUploaded emits backend.video_uploaded.
func (b *Bridge) PublishVideoUploaded(ctx context.Context, taskID, videoPath string) error {
	return b.Publish(ctx, EventBackendVideoUploaded, map[string]any{
		"task_id":    taskID,
		"video_path": videoPath,
	})
}

// PublishCaptionGenerated emits backend.caption_generated.
func (b *Bridge) PublishCaptionGenerated(ctx context.Context, taskID, caption string, hashtags []string) error {
	return b.Publish(ctx, EventBackendCaptionGenerated, map[string]any{
		"task_id":  taskID,
		"caption":  caption,
		"hashtags": hashtags,
	})
}

// PublishPostScheduled emits backend.post_scheduled.
func (b *Bridge) PublishPostScheduled(ctx context.Context, taskID, scheduledTime string) error {
	return b.Publish(ctx, EventBackendPostScheduled, map[string]any{
		"task_id":        taskID,
		"scheduled_time": scheduledTime,
	})
}

// PublishAnalyticsCollected emits backend.analytics_collected.
func (b *Bridge) PublishAnalyticsCollected(ctx context.Context, taskID string, analytics map[string]any) error {
	return b.Publish(ctx, EventBackendAnalyticsCollected, map[string]any{
		"task_id":   taskID,
		"analytics": analytics,
	})
}

// PublishServiceEvent emits an event namespaced to a named service,
// on the channel "service.<service>.<eventType>".
func (b *Bridge) PublishServiceEvent(ctx context.Context, service, eventType string, data map[string]any) error {
	if service == "" || eventType == "" {
		return errors.ErrEventTypeRequired
	}
	return b.Publish(ctx, fmt.Sprintf("service.%s.%s", service, eventType), data)
}

// PublishSystemEvent emits a system-wide event on the channel
// "system.<eventType>".
func (b *Bridge) PublishSystemEvent(ctx context.Context, eventType string, data map[string]any) error {
	if eventType == "" {
		return errors.ErrEventTypeRequired
	}
	return b.Publish(ctx, "system."+eventType, data)
}
