package providers

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the explicit set of sources the bar is built from. It is
// constructed once at startup and handed to the Runner and the dispatcher.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	statuses  map[string]*ProviderStatus
}

// NewRegistry returns an empty registry ready for provider registration.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		statuses:  make(map[string]*ProviderStatus),
	}
}

// Register adds a provider. It returns an error if a provider with the same
// name is already registered.
func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if name == "" {
		return fmt.Errorf("provider name must not be empty")
	}
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}

	r.providers[name] = p
	r.statuses[name] = &ProviderStatus{
		Name:    name,
		Healthy: true,
	}
	return nil
}

// Get returns the provider with the given name, or false if not found.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	return p, ok
}

// List returns a sorted slice of all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Capabilities returns the command kinds the named source accepts. A source
// that is missing or takes no commands returns nil.
func (r *Registry) Capabilities(name string) []CommandKind {
	p, ok := r.Get(name)
	if !ok {
		return nil
	}
	c, ok := p.(Commander)
	if !ok {
		return nil
	}
	return c.Accepts()
}

// Commander returns the named provider's command channel, or false when the
// source is missing or does not accept commands.
func (r *Registry) Commander(name string) (Commander, bool) {
	p, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	c, ok := p.(Commander)
	return c, ok
}

// Status returns a copy of the runtime status for the named provider, or
// false if it is not registered.
func (r *Registry) Status(name string) (ProviderStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.statuses[name]
	if !ok {
		return ProviderStatus{}, false
	}
	return *s, true
}

// AllStatus returns a copy of all provider statuses, sorted by name.
func (r *Registry) AllStatus() []ProviderStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ProviderStatus, 0, len(r.statuses))
	for _, s := range r.statuses {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// updateStatus updates the status entry for the named provider. Caller must
// NOT hold the lock.
func (r *Registry) updateStatus(name string, fn func(s *ProviderStatus)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.statuses[name]; ok {
		fn(s)
	}
}
