/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package testutil

import (
	"sync"

	"github.com/robfig/cron/v3"
)

var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// MockCronScheduler records scheduled checks without running them on a clock.
// Checks run only through Trigger.
type MockCronScheduler struct {
	mu      sync.Mutex
	checks  map[string]func()
	lastID  cron.EntryID
	running bool
}

// NewMockCronScheduler creates an idle scheduler.
func NewMockCronScheduler() *MockCronScheduler {
	return &MockCronScheduler{checks: make(map[string]func())}
}

// AddFunc rejects schedules the real scheduler would reject and records cmd
// under its schedule.
func (m *MockCronScheduler) AddFunc(spec string, cmd func()) (cron.EntryID, error) {
	if _, err := scheduleParser.Parse(spec); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.checks[spec] = cmd
	m.lastID++

	return m.lastID, nil
}

// Start marks the scheduler running.
func (m *MockCronScheduler) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = true
}

// Stop marks the scheduler stopped.
func (m *MockCronScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = false
}

// IsStarted reports whether Start was called without a later Stop.
func (m *MockCronScheduler) IsStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.running
}

// Trigger runs the check registered for spec synchronously, as one tick would.
// It reports false when nothing is scheduled under spec.
func (m *MockCronScheduler) Trigger(spec string) bool {
	m.mu.Lock()
	cmd, ok := m.checks[spec]
	m.mu.Unlock()

	if ok {
		cmd()
	}

	return ok
}
