// Package pipeline sequences the menu processing stages for one session:
// text extraction, structured translation, and per-item image synthesis.
//
// Each stage is wrapped independently and reports through the events
// emitter. Extraction and translation failures terminate the session;
// image synthesis is best-effort and degrades per item through the cache,
// the stock-image fallback table, and finally a generic placeholder.
package pipeline
