package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/credops/health"
	"github.com/jonwraymond/credops/secret"
	"github.com/jonwraymond/credops/store"
)

// Checks returns readiness checks for every credential source. They read
// the same environment, keyring and config file as Resolve but never invoke
// the provisioner, write anything, or report secret values.
func (r *Resolver) Checks() []health.Checker {
	return []health.Checker{
		health.NewCheckerFunc("secret-ref", r.checkSecretRef),
		health.NewCheckerFunc("legacy-env", r.checkLegacyEnv),
		health.NewCheckerFunc("config", r.checkConfig),
		health.NewCheckerFunc("keyring", r.checkKeyring),
	}
}

func (r *Resolver) checkSecretRef(ctx context.Context) health.Result {
	if secret.Getenv(r.env, RefEnvVar) == "" {
		return health.Degraded(RefEnvVar + " is not set")
	}
	password, _, err := r.refs.ResolveFromEnv(ctx, RefEnvVar)
	if err != nil {
		return health.Unhealthy("secret ref cannot be resolved", err)
	}
	if password == "" {
		return health.Unhealthy("secret ref resolved to an empty value", nil)
	}
	return health.Healthy("secret ref resolves")
}

func (r *Resolver) checkLegacyEnv(context.Context) health.Result {
	if secret.Getenv(r.env, LegacyPasswordEnvVar) != "" {
		return health.Degraded(LegacyPasswordEnvVar + " is set; plaintext legacy credential in use")
	}
	return health.Healthy(LegacyPasswordEnvVar + " is not set")
}

func (r *Resolver) checkConfig(context.Context) health.Result {
	rawKey := secret.Getenv(r.env, ConfigKeyEnvVar)
	if rawKey == "" {
		return health.Healthy(ConfigKeyEnvVar + " is not set; config method not in use")
	}
	key, err := store.ParseKey(rawKey)
	if err != nil {
		return health.Unhealthy(ConfigKeyEnvVar+" is not a valid key", err)
	}
	path, err := secret.ExpandEnvStrict(r.env, r.configPath)
	if err != nil {
		return health.Unhealthy("config path cannot be expanded", err)
	}

	_, ok, err := store.New(path).Password(key)
	switch {
	case errors.Is(err, store.ErrConfigNotFound):
		return health.Unhealthy(fmt.Sprintf("encrypted config %s not found", path), err)
	case errors.Is(err, store.ErrDecryption):
		return health.Unhealthy(fmt.Sprintf("%s does not decrypt %s", ConfigKeyEnvVar, path), err)
	case err != nil:
		return health.Unhealthy(fmt.Sprintf("encrypted config %s is unreadable", path), err)
	case !ok:
		return health.Unhealthy(fmt.Sprintf("encrypted config %s has no password", path), nil)
	}
	return health.Healthy(fmt.Sprintf("%s decrypts with key %s", path, key.Hint()))
}

func (r *Resolver) checkKeyring(context.Context) health.Result {
	if r.keyring == nil {
		return health.Degraded("no keyring configured")
	}
	password, ok, err := r.keyring.Get(KeyringService, KeyringKey)
	if err != nil {
		return health.Degraded(err.Error())
	}
	if !ok || password == "" {
		return health.Degraded(fmt.Sprintf("no password stored under %q; keyring method will prompt", KeyringService))
	}
	return health.Healthy(fmt.Sprintf("password stored under %q", KeyringService))
}
