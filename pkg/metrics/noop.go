package metrics

import "time"

// NoopRecorder is a no-op implementation of Recorder.
type NoopRecorder struct{}

func (n *NoopRecorder) RecordLoad(_, _ string) {}

func (n *NoopRecorder) RecordArtifactScan(_ error, _ time.Duration) {}

func (n *NoopRecorder) RecordHostQuery(_ string, _ error, _ time.Duration) {}
