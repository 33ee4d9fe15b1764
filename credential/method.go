package credential

import (
	"fmt"
	"strings"
)

// Method selects the credential source policy.
type Method string

const (
	MethodOpenClaw  Method = "openclaw"
	MethodSecretRef Method = "secret-ref"
	MethodEnv       Method = "env"
	MethodKeyring   Method = "keyring"
	MethodConfig    Method = "config"
)

// DefaultMethod is the recommended method.
const DefaultMethod = MethodOpenClaw

// Methods returns every supported method, default first.
func Methods() []Method {
	return []Method{MethodOpenClaw, MethodSecretRef, MethodEnv, MethodKeyring, MethodConfig}
}

// ParseMethod validates a method name. An empty name selects DefaultMethod.
func ParseMethod(name string) (Method, error) {
	if strings.TrimSpace(name) == "" {
		return DefaultMethod, nil
	}
	m := Method(name)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return m, nil
}

// Valid reports whether m is a supported method.
func (m Method) Valid() bool {
	switch m {
	case MethodOpenClaw, MethodSecretRef, MethodEnv, MethodKeyring, MethodConfig:
		return true
	}
	return false
}

// Legacy reports whether m always bypasses secret refs.
func (m Method) Legacy() bool {
	switch m {
	case MethodEnv, MethodKeyring, MethodConfig:
		return true
	}
	return false
}

func (m Method) String() string { return string(m) }
