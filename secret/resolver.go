package secret

import (
	"context"
	"fmt"
)

// Resolver resolves secret references using per-source providers.
type Resolver struct {
	env       Environment
	providers map[Source]Provider
}

// NewResolver creates a resolver over env with the providers of DefaultRegistry.
// A nil env reads the process environment.
func NewResolver(env Environment) *Resolver {
	return NewResolverWithRegistry(env, DefaultRegistry)
}

// NewResolverWithRegistry creates a resolver using the providers of reg.
func NewResolverWithRegistry(env Environment, reg *Registry) *Resolver {
	if env == nil {
		env = OSEnvironment
	}
	r := &Resolver{
		env:       env,
		providers: make(map[Source]Provider),
	}
	for _, p := range reg.Providers(env) {
		r.Register(p)
	}
	return r
}

// Register registers a provider, replacing any provider for the same source.
func (r *Resolver) Register(provider Provider) {
	if r == nil || provider == nil {
		return
	}
	if r.providers == nil {
		r.providers = make(map[Source]Provider)
	}
	r.providers[provider.Source()] = provider
}

// Resolve resolves ref. ok is false when an env ref names an unset variable.
func (r *Resolver) Resolve(ctx context.Context, ref Ref) (value string, ok bool, err error) {
	provider, found := r.providers[ref.Source]
	if !found || provider == nil {
		return "", false, fmt.Errorf("%w: %s", ErrUnsupportedSource, ref.Source)
	}
	return provider.Resolve(ctx, ref.ID)
}

// ResolveFromEnv reads a secret reference from varName and resolves it.
//
// An unset or empty varName means "not configured" and returns ok=false with
// no error. A reference that is present but malformed is always an error.
func (r *Resolver) ResolveFromEnv(ctx context.Context, varName string) (value string, ok bool, err error) {
	raw, set := r.env.LookupEnv(varName)
	if !set || raw == "" {
		return "", false, nil
	}

	ref, err := ParseRef(raw)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", varName, err)
	}
	return r.Resolve(ctx, ref)
}
