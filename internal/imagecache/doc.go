// Package imagecache implements the two-tier cache mapping a normalized
// menu item name to a previously synthesized image reference.
//
// Lookups read through the durable tier (Redis-compatible, shared across
// processes) into a process-local mirror, applying TTL expiry and a
// liveness probe on every hit. The durable tier being unavailable is an
// internal fallback decision, never a caller-visible error. The cache also
// owns the static keyword-to-stock-image fallback table consulted when no
// cached entry exists.
package imagecache
