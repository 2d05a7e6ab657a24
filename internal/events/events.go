package events

import (
	"fmt"
	"time"

	"github.com/menulens/menulens-api/internal/domain"
)

// Stage identifies one pipeline phase.
type Stage string

// Pipeline stages in execution order.
const (
	StageExtraction  Stage = "extraction"
	StageTranslation Stage = "translation"
	StageSynthesis   Stage = "synthesis"
)

// Event is one progress notification for a session. Payload is marshaled
// as-is by the transport; the concrete payload types below document the
// wire shape per event type.
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressCounter reports completed work within a stage.
type ProgressCounter struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// StageProgressPayload is carried by {stage}_progress events.
type StageProgressPayload struct {
	Step     string           `json:"step"`
	Message  string           `json:"message"`
	Progress *ProgressCounter `json:"progress,omitempty"`
}

// StageErrorPayload is carried by {stage}_error events.
type StageErrorPayload struct {
	Error          string `json:"error"`
	Step           string `json:"step"`
	ProcessingTime int64  `json:"processingTime"`
}

// ExtractionCompletePayload is carried by extraction_complete events.
type ExtractionCompletePayload struct {
	Text           string  `json:"text"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime int64   `json:"processingTime"`
}

// TranslationCompletePayload is carried by translation_complete events.
type TranslationCompletePayload struct {
	Items          []domain.MenuItem `json:"items"`
	ItemCount      int               `json:"itemCount"`
	ProcessingTime int64             `json:"processingTime"`
}

// SynthesisCompletePayload is carried by synthesis_complete events.
type SynthesisCompletePayload struct {
	Items          []domain.MenuItem `json:"items"`
	ProcessingTime int64             `json:"processingTime"`
}

// ImageGeneratedPayload is carried by image_generated events, one per item.
type ImageGeneratedPayload struct {
	ImageURL       string          `json:"imageUrl"`
	ItemName       string          `json:"itemName"`
	ProcessingTime int64           `json:"processingTime"`
	Progress       ProgressCounter `json:"progress"`
	Fallback       bool            `json:"fallback,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// Summary aggregates per-stage timings for the terminal event.
type Summary struct {
	ExtractionTime  int64 `json:"extractionTime"`
	TranslationTime int64 `json:"translationTime"`
	SynthesisTime   int64 `json:"synthesisTime"`
	ItemCount       int   `json:"itemCount"`
}

// ProcessingCompletePayload is carried by processing_complete events.
type ProcessingCompletePayload struct {
	Success             bool    `json:"success"`
	TotalProcessingTime int64   `json:"totalProcessingTime"`
	Summary             Summary `json:"summary"`
}

// ProcessingErrorPayload is carried by processing_error events emitted for
// failures outside any stage (e.g. request validation).
type ProcessingErrorPayload struct {
	Error          string `json:"error"`
	ProcessingTime int64  `json:"processingTime"`
}

func newEvent(eventType string, payload any) Event {
	return Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// StageStarted builds a {stage}_started event.
func StageStarted(stage Stage) Event {
	return newEvent(fmt.Sprintf("%s_started", stage), nil)
}

// StageProgress builds a {stage}_progress event.
func StageProgress(stage Stage, step, message string, progress *ProgressCounter) Event {
	return newEvent(fmt.Sprintf("%s_progress", stage), StageProgressPayload{
		Step:     step,
		Message:  message,
		Progress: progress,
	})
}

// StageComplete builds a {stage}_complete event with a stage-specific payload.
func StageComplete(stage Stage, payload any) Event {
	return newEvent(fmt.Sprintf("%s_complete", stage), payload)
}

// StageError builds a {stage}_error event.
func StageError(stage Stage, message string, elapsed time.Duration) Event {
	return newEvent(fmt.Sprintf("%s_error", stage), StageErrorPayload{
		Error:          message,
		Step:           string(stage),
		ProcessingTime: elapsed.Milliseconds(),
	})
}

// ImageGenerated builds an image_generated event.
func ImageGenerated(payload ImageGeneratedPayload) Event {
	return newEvent("image_generated", payload)
}

// ProcessingComplete builds the successful terminal event for a session.
func ProcessingComplete(total time.Duration, summary Summary) Event {
	return newEvent("processing_complete", ProcessingCompletePayload{
		Success:             true,
		TotalProcessingTime: total.Milliseconds(),
		Summary:             summary,
	})
}

// ProcessingError builds a terminal error event for failures that happen
// before any stage runs.
func ProcessingError(message string, elapsed time.Duration) Event {
	return newEvent("processing_error", ProcessingErrorPayload{
		Error:          message,
		ProcessingTime: elapsed.Milliseconds(),
	})
}

// Terminal reports whether the event ends its session's stream.
func (e Event) Terminal() bool {
	switch e.Type {
	case "processing_complete", "processing_error",
		"extraction_error", "translation_error":
		return true
	}
	return false
}
