// Package credential decides where the OpenD password comes from.
//
// The caller names a Method; the Resolver consults exactly the sources that
// method allows:
//
//	openclaw    secret ref, then legacy MOOMOO_PASSWORD (warns), else not configured
//	secret-ref  secret ref only; a missing reference is an error
//	env         legacy MOOMOO_PASSWORD (warns)
//	keyring     OS credential store (warns); provisions on first use
//	config      encrypted config file keyed by MOOMOO_CONFIG_KEY (warns)
//
// "Not configured" is a normal outcome reported through Resolution.Found, not
// an error. Every call re-reads the environment, keyring and disk, so rotated
// secrets are picked up without a restart.
package credential
