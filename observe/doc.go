// Package observe provides logging, tracing and metrics for credential
// resolution.
//
// Logs are JSON lines with sensitive fields redacted. Tracing and metrics are
// OpenTelemetry; when disabled they fall back to no-op providers so callers
// never branch on configuration. Secret values must never be passed as log
// fields or span attributes.
package observe
