/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

package testutil

import (
	"sync"
	"time"
)

// MockMetricsRecorder implements metrics.Recorder with call tracking.
type MockMetricsRecorder struct {
	mu sync.Mutex

	Loads       []string
	Scans       int
	ScanErrors  int
	HostQueries []string
}

// RecordLoad records "tag/outcome".
func (m *MockMetricsRecorder) RecordLoad(tag, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Loads = append(m.Loads, tag+"/"+outcome)
}

// RecordArtifactScan counts scans and failed scans.
func (m *MockMetricsRecorder) RecordArtifactScan(err error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Scans++
	if err != nil {
		m.ScanErrors++
	}
}

// RecordHostQuery records the source.
func (m *MockMetricsRecorder) RecordHostQuery(source string, _ error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.HostQueries = append(m.HostQueries, source)
}

// GetLoads returns a copy of recorded loads.
func (m *MockMetricsRecorder) GetLoads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.Loads))
	copy(out, m.Loads)

	return out
}
