// Package metrics defines the sinks that observe recommendation runs.
//
// Every sink implements MetricsSink. Sinks that can also record per-course
// candidate outcomes or preference extraction attempts implement
// CandidateRecorder or ExtractionRecorder; callers type-assert before use.
// NewMetricsSink builds sinks from configuration through the registry that
// infra/metrics populates, returning a MultiSink when several are configured.
package metrics
