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

package rcon

import (
	"context"
	"sync"
)

// MockClient is a mock RCON client for testing.
type MockClient struct {
	mu sync.Mutex

	// Call tracking
	ConnectCalled bool
	CloseCalled   bool

	// Commands received
	Commands []string

	// Behavior control
	ConnectError error
	Info         ServerInfo
	VersionError error
	CommandError error
}

// NewMockClient creates a new mock RCON client.
func NewMockClient() *MockClient {
	return &MockClient{
		Commands: make([]string, 0),
	}
}

// Connect simulates connecting to the RCON server.
func (m *MockClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	m.ConnectCalled = true

	return m.ConnectError
}

// ServerVersion returns the configured server info.
func (m *MockClient) ServerVersion(ctx context.Context) (ServerInfo, error) {
	if _, err := m.SendCommand(ctx, "version"); err != nil {
		return ServerInfo{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Info, m.VersionError
}

// SendCommand records the command.
func (m *MockClient) SendCommand(ctx context.Context, command string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.Commands = append(m.Commands, command)

	return "", m.CommandError
}

// Close simulates closing the RCON connection.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CloseCalled = true
	return nil
}

// GetCommands returns a copy of recorded commands (thread-safe).
func (m *MockClient) GetCommands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	commands := make([]string, len(m.Commands))
	copy(commands, m.Commands)
	return commands
}
