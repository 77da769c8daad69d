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
	"context"
	"sync"
)

// MockPaperAPI is a mock implementation of paper.VersionLister for testing.
type MockPaperAPI struct {
	mu sync.Mutex

	// Configurable responses
	Versions    []string
	VersionsErr error

	// Track calls
	GetVersionsCalls int
}

// GetPaperVersions returns the configured versions or error.
func (m *MockPaperAPI) GetPaperVersions(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetVersionsCalls++

	return m.Versions, m.VersionsErr
}
