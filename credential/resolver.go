package credential

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/credops/observe"
	"github.com/jonwraymond/credops/secret"
	"github.com/jonwraymond/credops/store"
)

// Environment variables consulted by the Resolver.
const (
	RefEnvVar            = secret.RefEnvVar
	LegacyPasswordEnvVar = "MOOMOO_PASSWORD"
	ConfigKeyEnvVar      = "MOOMOO_CONFIG_KEY"
)

// Source names where a resolved password came from.
type Source string

const (
	SourceNone      Source = ""
	SourceSecretRef Source = "secret-ref"
	SourceEnv       Source = "env"
	SourceKeyring   Source = "keyring"
	SourceConfig    Source = "config"
)

const resolveOperation = "credential.resolve"

// Provisioner obtains a password when the keyring holds none, typically by
// prompting an operator. It may block; bound it with a context deadline or
// resilience.WithTimeout when running unattended.
type Provisioner func(ctx context.Context) (string, error)

// Options configures a Resolver. Zero values are usable: the process
// environment, no keyring, no provisioner, store.DefaultPath, no telemetry.
type Options struct {
	Env        secret.Environment
	SecretRefs *secret.Resolver
	Keyring    Keyring
	Provision  Provisioner

	// ConfigPath is the encrypted config file for the config method. It may
	// reference environment variables, e.g. "${HOME}/.moomoo/config.enc".
	ConfigPath string

	Middleware *observe.Middleware
	Logger     observe.Logger
}

// Resolution is the outcome of a successful resolution.
type Resolution struct {
	Method   Method
	Source   Source
	Password string

	// Legacy is set when a legacy source was consulted and a deprecation
	// warning was emitted.
	Legacy bool
}

// Found reports whether a password was resolved.
func (r Resolution) Found() bool {
	return r.Password != ""
}

// Resolver applies the method policy. It holds no credential state.
type Resolver struct {
	env        secret.Environment
	refs       *secret.Resolver
	keyring    Keyring
	provision  Provisioner
	configPath string
	mw         *observe.Middleware
	logger     observe.Logger
}

// NewResolver creates a Resolver.
func NewResolver(opts Options) *Resolver {
	env := opts.Env
	if env == nil {
		env = secret.OSEnvironment
	}
	refs := opts.SecretRefs
	if refs == nil {
		refs = secret.NewResolver(env)
	}
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = store.DefaultPath
	}
	logger := opts.Logger
	if logger == nil && opts.Middleware != nil {
		logger = opts.Middleware.Logger()
	}
	if logger == nil {
		logger = observe.NopLogger()
	}
	mw := opts.Middleware
	if mw == nil {
		mw = observe.NewMiddleware(nil, nil, logger)
	}

	return &Resolver{
		env:        env,
		refs:       refs,
		keyring:    opts.Keyring,
		provision:  opts.Provision,
		configPath: configPath,
		mw:         mw,
		logger:     logger.With(observe.Field{Key: "component", Value: "credential"}),
	}
}

// Resolve resolves the password with method. A password that is simply not
// configured yields a Resolution with Found() == false and no error.
func (r *Resolver) Resolve(ctx context.Context, method Method) (Resolution, error) {
	var res Resolution
	run := r.mw.Wrap(func(ctx context.Context, _ observe.Operation) error {
		var err error
		res, err = r.resolve(ctx, method)
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Bool("credential.found", res.Found()),
			attribute.Bool("credential.legacy", res.Legacy),
			attribute.String("credential.source", string(res.Source)),
		)
		return err
	})

	if err := run(ctx, observe.Operation{Name: resolveOperation, Method: string(method)}); err != nil {
		return Resolution{}, &ResolutionError{Method: method, Err: err}
	}
	return res, nil
}

// ResolveByName parses name with ParseMethod and resolves it.
func (r *Resolver) ResolveByName(ctx context.Context, name string) (Resolution, error) {
	method, err := ParseMethod(name)
	if err != nil {
		return Resolution{}, err
	}
	return r.Resolve(ctx, method)
}

// Password resolves with method. ok is false when no password is configured.
func (r *Resolver) Password(ctx context.Context, method Method) (password string, ok bool, err error) {
	res, err := r.Resolve(ctx, method)
	if err != nil {
		return "", false, err
	}
	return res.Password, res.Found(), nil
}

func (r *Resolver) resolve(ctx context.Context, method Method) (Resolution, error) {
	switch method {
	case MethodOpenClaw:
		return r.resolveOpenClaw(ctx)
	case MethodSecretRef:
		return r.resolveSecretRef(ctx)
	case MethodEnv:
		r.warnLegacy(ctx, method, MethodEnv)
		return r.legacyEnv(method), nil
	case MethodKeyring:
		r.warnLegacy(ctx, method, MethodKeyring)
		return r.resolveKeyring(ctx)
	case MethodConfig:
		r.warnLegacy(ctx, method, MethodConfig)
		return r.resolveConfig()
	default:
		return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

func (r *Resolver) resolveOpenClaw(ctx context.Context) (Resolution, error) {
	password, _, err := r.refs.ResolveFromEnv(ctx, RefEnvVar)
	if err != nil {
		return Resolution{}, err
	}
	if password != "" {
		return Resolution{Method: MethodOpenClaw, Source: SourceSecretRef, Password: password}, nil
	}

	res := r.legacyEnv(MethodOpenClaw)
	if res.Found() {
		r.warnLegacy(ctx, MethodOpenClaw, MethodEnv)
	}
	return res, nil
}

func (r *Resolver) resolveSecretRef(ctx context.Context) (Resolution, error) {
	if secret.Getenv(r.env, RefEnvVar) == "" {
		return Resolution{}, fmt.Errorf("%w: %s is not set for secret-ref method", ErrConfiguration, RefEnvVar)
	}
	password, _, err := r.refs.ResolveFromEnv(ctx, RefEnvVar)
	if err != nil {
		return Resolution{}, err
	}
	if password == "" {
		return Resolution{}, fmt.Errorf("%w: %s resolved to an empty value", ErrConfiguration, RefEnvVar)
	}
	return Resolution{Method: MethodSecretRef, Source: SourceSecretRef, Password: password}, nil
}

// legacyEnv reads MOOMOO_PASSWORD; the caller decides whether to warn.
func (r *Resolver) legacyEnv(method Method) Resolution {
	res := Resolution{Method: method, Legacy: method.Legacy()}
	if password := secret.Getenv(r.env, LegacyPasswordEnvVar); password != "" {
		res.Source = SourceEnv
		res.Password = password
		res.Legacy = true
	}
	return res
}

func (r *Resolver) resolveKeyring(ctx context.Context) (Resolution, error) {
	res := Resolution{Method: MethodKeyring, Legacy: true}
	if r.keyring == nil {
		return Resolution{}, fmt.Errorf("%w: no keyring configured", ErrKeyringUnavailable)
	}

	password, ok, err := r.keyring.Get(KeyringService, KeyringKey)
	if err != nil {
		return Resolution{}, err
	}
	if ok && password != "" {
		res.Source = SourceKeyring
		res.Password = password
		return res, nil
	}

	if r.provision == nil {
		return Resolution{}, fmt.Errorf("%w: no password stored in keyring service %q and no provisioner configured",
			ErrConfiguration, KeyringService)
	}
	password, err = r.provision(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("credential: provision keyring password: %w", err)
	}
	if password == "" {
		return res, nil
	}
	if err := r.keyring.Set(KeyringService, KeyringKey, password); err != nil {
		return Resolution{}, err
	}
	r.logger.Info(ctx, "stored provisioned password in keyring",
		observe.Field{Key: "service", Value: KeyringService},
	)

	res.Source = SourceKeyring
	res.Password = password
	return res, nil
}

func (r *Resolver) resolveConfig() (Resolution, error) {
	rawKey := secret.Getenv(r.env, ConfigKeyEnvVar)
	if rawKey == "" {
		return Resolution{}, fmt.Errorf("%w: %s not set for config method", ErrConfiguration, ConfigKeyEnvVar)
	}
	key, err := store.ParseKey(rawKey)
	if err != nil {
		return Resolution{}, fmt.Errorf("%s: %w", ConfigKeyEnvVar, err)
	}
	path, err := secret.ExpandEnvStrict(r.env, r.configPath)
	if err != nil {
		return Resolution{}, fmt.Errorf("config path: %w", err)
	}

	password, ok, err := store.New(path).Password(key)
	if err != nil {
		return Resolution{}, err
	}
	res := Resolution{Method: MethodConfig, Legacy: true}
	if ok && password != "" {
		res.Source = SourceConfig
		res.Password = password
	}
	return res, nil
}

func (r *Resolver) warnLegacy(ctx context.Context, requested, legacy Method) {
	r.logger.Warn(ctx,
		fmt.Sprintf("credential method %q bypasses OpenClaw secret refs; prefer %s or gateway-managed secret injection for hosted use",
			legacy, RefEnvVar),
		observe.Field{Key: "method", Value: string(legacy)},
		observe.Field{Key: "requested_method", Value: string(requested)},
	)
}
