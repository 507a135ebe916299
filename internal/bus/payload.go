package bus

import (
	"fmt"
)

// Payload is a typed view of an envelope's data mapping. Each known
// pipeline event type has its own variant; unknown event types decode
// to OpaquePayload.
type Payload interface {
	Validate() error
}

// StartedPayload is the data of a "pipeline.started" event.
type StartedPayload struct {
	TaskID string `json:"task_id"`
}

func (p StartedPayload) Validate() error {
	return requireTaskID(p.TaskID)
}

// StateChangedPayload is the data of a "pipeline.state_changed" event.
type StateChangedPayload struct {
	TaskID    string `json:"task_id"`
	FromState string `json:"from_state"`
	ToState   string `json:"to_state"`
}

func (p StateChangedPayload) Validate() error {
	return requireTaskID(p.TaskID)
}

// CompletedPayload is the data of a "pipeline.completed" event.
type CompletedPayload struct {
	TaskID         string         `json:"task_id"`
	CompletionTime float64        `json:"completion_time"`
	Analytics      map[string]any `json:"analytics,omitempty"`
}

func (p CompletedPayload) Validate() error {
	return requireTaskID(p.TaskID)
}

// FailedPayload is the data of a "pipeline.failed" event.
type FailedPayload struct {
	TaskID    string `json:"task_id"`
	Error     string `json:"error"`
	LastState string `json:"last_state"`
}

func (p FailedPayload) Validate() error {
	if err := requireTaskID(p.TaskID); err != nil {
		return err
	}
	if p.Error == "" {
		return fmt.Errorf("pipeline.failed payload missing error")
	}
	return nil
}

// UploadCompletedPayload is the data of a "pipeline.upload_completed" event.
type UploadCompletedPayload struct {
	TaskID    string `json:"task_id"`
	VideoPath string `json:"video_path"`
}

func (p UploadCompletedPayload) Validate() error {
	return requireTaskID(p.TaskID)
}

// CaptionGeneratedPayload is the data of a "pipeline.caption_generated" event.
type CaptionGeneratedPayload struct {
	TaskID   string   `json:"task_id"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags,omitempty"`
}

func (p CaptionGeneratedPayload) Validate() error {
	return requireTaskID(p.TaskID)
}

// ScheduledPayload is the data of a "pipeline.scheduled" event.
type ScheduledPayload struct {
	TaskID        string `json:"task_id"`
	ScheduledTime string `json:"scheduled_time"`
}

func (p ScheduledPayload) Validate() error {
	return requireTaskID(p.TaskID)
}

// PostedPayload is the data of a "pipeline.posted" event.
type PostedPayload struct {
	TaskID    string   `json:"task_id"`
	PostID    string   `json:"post_id"`
	Platforms []string `json:"platforms,omitempty"`
}

func (p PostedPayload) Validate() error {
	return requireTaskID(p.TaskID)
}

// AnalyzedPayload is the data of a "pipeline.analyzed" event.
type AnalyzedPayload struct {
	TaskID    string         `json:"task_id"`
	Analytics map[string]any `json:"analytics"`
}

func (p AnalyzedPayload) Validate() error {
	return requireTaskID(p.TaskID)
}

// OpaquePayload is the fallback variant for event types without a
// dedicated payload schema.
type OpaquePayload map[string]any

func (OpaquePayload) Validate() error { return nil }

// DecodePayload decodes and validates an envelope's data mapping
// against the variant for the given event type. Unknown event types
// decode to OpaquePayload without validation.
func DecodePayload(eventType string, data map[string]any) (Payload, error) {
	switch eventType {
	case EventPipelineStarted:
		return decodeAs[StartedPayload](eventType, data)
	case EventPipelineStateChanged:
		return decodeAs[StateChangedPayload](eventType, data)
	case EventPipelineCompleted:
		return decodeAs[CompletedPayload](eventType, data)
	case EventPipelineFailed:
		return decodeAs[FailedPayload](eventType, data)
	case EventPipelineUploadCompleted:
		return decodeAs[UploadCompletedPayload](eventType, data)
	case EventPipelineCaptionGenerated:
		return decodeAs[CaptionGeneratedPayload](eventType, data)
	case EventPipelineScheduled:
		return decodeAs[ScheduledPayload](eventType, data)
	case EventPipelinePosted:
		return decodeAs[PostedPayload](eventType, data)
	case EventPipelineAnalyzed:
		return decodeAs[AnalyzedPayload](eventType, data)
	default:
		if data == nil {
			return OpaquePayload{}, nil
		}
		return OpaquePayload(data), nil
	}
}

func decodeAs[T Payload](eventType string, data map[string]any) (Payload, error) {
	var v T
	env := Envelope{Data: data}
	if err := env.DecodeData(&v); err != nil {
		return nil, fmt.Errorf("%s: %w", eventType, err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", eventType, err)
	}
	return v, nil
}

func requireTaskID(taskID string) error {
	if taskID == "" {
		return fmt.Errorf("payload missing task_id")
	}
	return nil
}
