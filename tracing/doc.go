// Package tracing provides a thin OpenTelemetry wrapper used to trace slot
// submissions and worker completions. Without Init every span is a no-op.
package tracing
