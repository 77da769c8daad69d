package nms

import (
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
)

// Factory constructs a provider for one revision.
type Factory func() (Provider, error)

// Registry maps revision tags to provider factories.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory for tag.
func (r *Registry) Register(tag string, factory Factory) error {
	if tag == "" {
		return errors.New("tag cannot be empty")
	}
	if factory == nil {
		return errors.Newf("nil factory for tag %s", tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[tag]; exists {
		return errors.Newf("adapter for tag %s already registered", tag)
	}

	r.factories[tag] = factory
	r.order = append(r.order, tag)

	return nil
}

// Tags returns registered tags in registration order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)

	return out
}

// Has reports whether a factory is registered for tag.
func (r *Registry) Has(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[tag]

	return ok
}

// Lookup constructs the provider registered for tag.
func (r *Registry) Lookup(tag string) Result {
	r.mu.RLock()
	factory, ok := r.factories[tag]
	r.mu.RUnlock()

	if !ok {
		return notFound(tag)
	}

	provider, err := construct(factory)
	if err != nil {
		return constructionError(tag, err)
	}

	if isNil(provider) {
		return wrongCapability(tag, "factory returned no provider")
	}

	if got := provider.Tag(); got != tag {
		return wrongCapability(tag, "provider reports tag "+got)
	}

	return found(tag, provider)
}

func construct(factory Factory) (p Provider, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p = nil
			err = errors.Newf("factory panicked: %v", rec)
		}
	}()

	return factory()
}

// isNil also catches typed nil pointers stored in the interface.
func isNil(p Provider) bool {
	if p == nil {
		return true
	}

	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
