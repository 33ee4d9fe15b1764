package secret

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict expands environment variables in s using env.
//
// Semantics:
//   - `$VAR` and `${VAR}` are expanded; an unset `$VAR` expands to "".
//   - If `${VAR}` is present but VAR is missing from env, it errors.
//   - `$$` emits a literal `$` (escape hatch).
//
// A nil env reads the process environment.
func ExpandEnvStrict(env Environment, s string) (string, error) {
	if env == nil {
		env = OSEnvironment
	}

	const dollarSentinel = "\x00CREDOPS_SECRET_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	missing := make(map[string]struct{})
	for _, match := range envVarPattern.FindAllStringSubmatch(s, -1) {
		key := match[1]
		if _, ok := env.LookupEnv(key); !ok {
			missing[key] = struct{}{}
		}
	}
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("%w: missing required environment variables: %s", ErrConfiguration, strings.Join(keys, ", "))
	}

	s = os.Expand(s, func(key string) string { return Getenv(env, key) })
	s = strings.ReplaceAll(s, dollarSentinel, "$")
	return s, nil
}
