package secret

import "os"

// Environment looks up environment variables.
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// EnvironmentFunc adapts a lookup function to Environment.
type EnvironmentFunc func(key string) (string, bool)

// LookupEnv calls f(key).
func (f EnvironmentFunc) LookupEnv(key string) (string, bool) {
	return f(key)
}

// OSEnvironment reads the process environment.
var OSEnvironment Environment = EnvironmentFunc(os.LookupEnv)

// MapEnvironment is a fixed environment, mostly useful in tests.
type MapEnvironment map[string]string

// LookupEnv returns the value stored under key.
func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Getenv returns the value of key in env, or "" when unset.
// A nil env reads the process environment.
func Getenv(env Environment, key string) string {
	if env == nil {
		env = OSEnvironment
	}
	v, _ := env.LookupEnv(key)
	return v
}
