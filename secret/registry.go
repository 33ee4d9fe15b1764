package secret

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ProviderFactory creates a Provider bound to an environment.
type ProviderFactory func(env Environment) Provider

// Registry maps secret ref sources to provider factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[Source]ProviderFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Source]ProviderFactory)}
}

// Register adds a factory for source.
func (r *Registry) Register(source Source, factory ProviderFactory) error {
	source = Source(strings.ToLower(strings.TrimSpace(string(source))))
	if source == "" || factory == nil {
		return errors.New("secret: invalid provider registration")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[source]; exists {
		return fmt.Errorf("secret: provider for source %q already registered", source)
	}
	r.factories[source] = factory
	return nil
}

// Providers instantiates every registered provider against env.
func (r *Registry) Providers(env Environment) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, 0, len(r.factories))
	for _, source := range r.sourcesLocked() {
		out = append(out, r.factories[source](env))
	}
	return out
}

// Sources returns the registered sources in sorted order.
func (r *Registry) Sources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sourcesLocked()
}

func (r *Registry) sourcesLocked() []Source {
	sources := make([]Source, 0, len(r.factories))
	for s := range r.factories {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

// DefaultRegistry resolves env refs in-process and refuses file and exec refs.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	reg := NewRegistry()
	_ = reg.Register(SourceEnv, func(env Environment) Provider { return NewEnvProvider(env) })
	_ = reg.Register(SourceFile, func(Environment) Provider { return NewGatewayProvider(SourceFile) })
	_ = reg.Register(SourceExec, func(Environment) Provider { return NewGatewayProvider(SourceExec) })
	return reg
}
