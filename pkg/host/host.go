// Package host describes the server a plugin runs on.
package host

import (
	"context"
	"sync"
)

// Host is the server runtime the resolver inspects.
type Host interface {
	// APIVersion returns the Bukkit API version, e.g. "1.16.5-R0.1-SNAPSHOT".
	APIVersion() string

	// ImplementationPackage returns the package of the server
	// implementation, e.g. "org.bukkit.craftbukkit.v1_16_R3".
	ImplementationPackage() string

	// DisablePlugin asks the host to disable the plugin.
	DisablePlugin(ctx context.Context, reason string) error
}

// Static is a Host with fixed answers. It records disable requests.
type Static struct {
	API     string
	Package string

	mu       sync.Mutex
	disabled bool
	reason   string
}

// NewStatic creates a Static host.
func NewStatic(apiVersion, implPackage string) *Static {
	return &Static{API: apiVersion, Package: implPackage}
}

// APIVersion implements Host.
func (s *Static) APIVersion() string { return s.API }

// ImplementationPackage implements Host.
func (s *Static) ImplementationPackage() string { return s.Package }

// DisablePlugin implements Host.
func (s *Static) DisablePlugin(_ context.Context, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disabled = true
	s.reason = reason

	return nil
}

// Disabled reports whether DisablePlugin was called, and with which reason.
func (s *Static) Disabled() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.disabled, s.reason
}
