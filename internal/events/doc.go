// Package events defines the progress event schema for menu processing
// sessions and the emitter that routes events to a session's subscriber.
//
// Each pipeline stage produces a started/progress/complete/error event
// family; image synthesis additionally reports per-item image_generated
// events, and every session terminates with exactly one of
// processing_complete or a stage error.
package events
