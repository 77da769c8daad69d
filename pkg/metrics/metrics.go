// Package metrics provides Prometheus metrics for adapter resolution.
package metrics

import "time"

// Recorder defines the interface for recording resolver metrics.
type Recorder interface {
	// RecordLoad records an adapter load attempt and its outcome
	// ("found", "not_found", "wrong_capability", "construction_error").
	RecordLoad(tag, outcome string)

	// RecordArtifactScan records a scan of the plugin artifact.
	RecordArtifactScan(err error, duration time.Duration)

	// RecordHostQuery records a query against a live server.
	RecordHostQuery(source string, err error, duration time.Duration)
}
