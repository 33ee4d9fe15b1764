package secret

import (
	"context"
	"fmt"
)

// Provider resolves secret reference ids for one source.
//
// Implementations must not log secret values. ok is false when the source
// holds no value for id; that is not an error.
type Provider interface {
	Source() Source
	Resolve(ctx context.Context, id string) (value string, ok bool, err error)
}

// EnvProvider resolves ids as environment variable names.
type EnvProvider struct {
	Env Environment
}

// NewEnvProvider creates an env provider. A nil env reads the process environment.
func NewEnvProvider(env Environment) *EnvProvider {
	if env == nil {
		env = OSEnvironment
	}
	return &EnvProvider{Env: env}
}

func (p *EnvProvider) Source() Source { return SourceEnv }

func (p *EnvProvider) Resolve(_ context.Context, id string) (string, bool, error) {
	v, ok := p.Env.LookupEnv(id)
	return v, ok, nil
}

// GatewayProvider stands in for sources that only the gateway may resolve.
// It always fails and never looks at id.
type GatewayProvider struct {
	source Source
}

// NewGatewayProvider returns a provider that refuses source.
func NewGatewayProvider(source Source) *GatewayProvider {
	return &GatewayProvider{source: source}
}

func (p *GatewayProvider) Source() Source { return p.source }

func (p *GatewayProvider) Resolve(context.Context, string) (string, bool, error) {
	return "", false, fmt.Errorf("%w: %s source %q must be resolved by the OpenClaw gateway before launching",
		ErrConfiguration, RefEnvVar, p.source)
}
