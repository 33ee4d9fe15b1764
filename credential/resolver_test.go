package credential

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonwraymond/credops/observe"
	"github.com/jonwraymond/credops/secret"
	"github.com/jonwraymond/credops/store"
)

type memKeyring struct {
	values map[string]string
	sets   int
}

func newMemKeyring() *memKeyring {
	return &memKeyring{values: make(map[string]string)}
}

func (k *memKeyring) Get(service, key string) (string, bool, error) {
	v, ok := k.values[service+"/"+key]
	return v, ok, nil
}

func (k *memKeyring) Set(service, key, value string) error {
	k.sets++
	k.values[service+"/"+key] = value
	return nil
}

type harness struct {
	resolver *Resolver
	logs     *bytes.Buffer
}

func newHarness(t *testing.T, env secret.MapEnvironment, opts Options) harness {
	t.Helper()
	var buf bytes.Buffer
	opts.Env = env
	opts.Logger = observe.NewLoggerWithWriter("debug", &buf)
	return harness{resolver: NewResolver(opts), logs: &buf}
}

func (h harness) warnings(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(h.logs.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if entry["level"] == "warn" {
			out = append(out, entry)
		}
	}
	return out
}

// OPEND_PASSWORD_SECRET_REF={"source":"env","id":"FOO"}, FOO=hunter2.
func TestResolve_OpenClawSecretRef(t *testing.T) {
	h := newHarness(t, secret.MapEnvironment{
		RefEnvVar:            `{"source":"env","id":"FOO"}`,
		"FOO":                "hunter2",
		LegacyPasswordEnvVar: "legacy1",
	}, Options{})

	res, err := h.resolver.Resolve(context.Background(), MethodOpenClaw)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Password != "hunter2" || res.Source != SourceSecretRef || res.Legacy {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if w := h.warnings(t); len(w) != 0 {
		t.Fatalf("expected no warnings, got %v", w)
	}
}

// OPEND_PASSWORD_SECRET_REF unset, MOOMOO_PASSWORD=legacy1.
func TestResolve_OpenClawLegacyFallback(t *testing.T) {
	h := newHarness(t, secret.MapEnvironment{LegacyPasswordEnvVar: "legacy1"}, Options{})

	res, err := h.resolver.Resolve(context.Background(), MethodOpenClaw)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Password != "legacy1" || res.Source != SourceEnv || !res.Legacy {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	w := h.warnings(t)
	if len(w) != 1 {
		t.Fatalf("expected 1 warning, got %d: %s", len(w), h.logs.String())
	}
	if w[0]["method"] != "env" || w[0]["requested_method"] != "openclaw" {
		t.Fatalf("unexpected warning fields: %v", w[0])
	}
	if strings.Contains(h.logs.String(), "legacy1") {
		t.Fatalf("password leaked into logs: %s", h.logs.String())
	}
}

func TestResolve_OpenClawRefToUnsetVariableFallsBack(t *testing.T) {
	h := newHarness(t, secret.MapEnvironment{
		RefEnvVar:            `{"source":"env","id":"FOO"}`,
		LegacyPasswordEnvVar: "legacy1",
	}, Options{})

	res, err := h.resolver.Resolve(context.Background(), MethodOpenClaw)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Password != "legacy1" || !res.Legacy {
		t.Fatalf("unexpected resolution: %+v", res)
	}
}

func TestResolve_OpenClawNotConfigured(t *testing.T) {
	h := newHarness(t, secret.MapEnvironment{}, Options{})

	res, err := h.resolver.Resolve(context.Background(), MethodOpenClaw)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Found() || res.Legacy || res.Source != SourceNone {
		t.Fatalf("expected not configured, got %+v", res)
	}
	if w := h.warnings(t); len(w) != 0 {
		t.Fatalf("expected no warnings, got %v", w)
	}
}

func TestResolve_OpenClawRefErrorsPropagate(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want error
	}{
		{name: "malformed", ref: `not json`, want: secret.ErrValidation},
		{name: "file source", ref: `{"source":"file","id":"/run/secrets/opend"}`, want: ErrConfiguration},
		{name: "exec source", ref: `{"source":"exec","id":"op read x"}`, want: ErrConfiguration},
		{name: "unknown source", ref: `{"source":"vault","id":"x"}`, want: secret.ErrUnsupportedSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, secret.MapEnvironment{
				RefEnvVar:            tt.ref,
				LegacyPasswordEnvVar: "legacy1",
			}, Options{})

			_, err := h.resolver.Resolve(context.Background(), MethodOpenClaw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.want)
			}
			var re *ResolutionError
			if !errors.As(err, &re) || re.Method != MethodOpenClaw {
				t.Fatalf("expected ResolutionError for openclaw, got %T: %v", err, err)
			}
		})
	}
}

// OPEND_PASSWORD_SECRET_REF unset, method secret-ref.
func TestResolve_SecretRefStrict(t *testing.T) {
	h := newHarness(t, secret.MapEnvironment{LegacyPasswordEnvVar: "legacy1"}, Options{})

	_, err := h.resolver.Resolve(context.Background(), MethodSecretRef)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Resolve() error = %v, want ErrConfiguration", err)
	}
	if w := h.warnings(t); len(w) != 0 {
		t.Fatalf("strict method must not touch legacy sources, got warnings %v", w)
	}
}

func TestResolve_SecretRefEmptyValue(t *testing.T) {
	h := newHarness(t, secret.MapEnvironment{RefEnvVar: `{"source":"env","id":"FOO"}`}, Options{})

	_, err := h.resolver.Resolve(context.Background(), MethodSecretRef)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Resolve() error = %v, want ErrConfiguration", err)
	}
}

func TestResolve_SecretRef(t *testing.T) {
	h := newHarness(t, secret.MapEnvironment{
		RefEnvVar: `{"source":"env","id":"FOO"}`,
		"FOO":     "hunter2",
	}, Options{})

	password, ok, err := h.resolver.Password(context.Background(), MethodSecretRef)
	if err != nil || !ok || password != "hunter2" {
		t.Fatalf("Password() = %q, %v, %v", password, ok, err)
	}
}

func TestResolve_EnvWarnsUnconditionally(t *testing.T) {
	for _, env := range []secret.MapEnvironment{{}, {LegacyPasswordEnvVar: "legacy1"}} {
		h := newHarness(t, env, Options{})

		res, err := h.resolver.Resolve(context.Background(), MethodEnv)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if res.Password != env[LegacyPasswordEnvVar] || !res.Legacy {
			t.Fatalf("unexpected resolution: %+v", res)
		}
		if w := h.warnings(t); len(w) != 1 {
			t.Fatalf("expected exactly 1 warning, got %d", len(w))
		}
	}
}

func TestResolve_KeyringStored(t *testing.T) {
	kr := newMemKeyring()
	kr.values[KeyringService+"/"+KeyringKey] = "from-keyring"
	h := newHarness(t, secret.MapEnvironment{}, Options{
		Keyring: kr,
		Provision: func(context.Context) (string, error) {
			t.Fatal("provisioner must not run when a password is stored")
			return "", nil
		},
	})

	res, err := h.resolver.Resolve(context.Background(), MethodKeyring)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Password != "from-keyring" || res.Source != SourceKeyring || !res.Legacy {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if len(h.warnings(t)) != 1 {
		t.Fatalf("expected legacy warning")
	}
}

func TestResolve_KeyringProvisionsOnFirstUse(t *testing.T) {
	kr := newMemKeyring()
	prompts := 0
	h := newHarness(t, secret.MapEnvironment{}, Options{
		Keyring: kr,
		Provision: func(context.Context) (string, error) {
			prompts++
			return "typed-in", nil
		},
	})

	for i := 0; i < 2; i++ {
		password, ok, err := h.resolver.Password(context.Background(), MethodKeyring)
		if err != nil || !ok || password != "typed-in" {
			t.Fatalf("Password() = %q, %v, %v", password, ok, err)
		}
	}
	if prompts != 1 {
		t.Fatalf("expected one prompt, got %d", prompts)
	}
	if kr.sets != 1 || kr.values[KeyringService+"/"+KeyringKey] != "typed-in" {
		t.Fatalf("expected provisioned password to be stored once, got %+v", kr)
	}
}

func TestResolve_KeyringEmptyProvisionNotStored(t *testing.T) {
	kr := newMemKeyring()
	h := newHarness(t, secret.MapEnvironment{}, Options{
		Keyring:   kr,
		Provision: func(context.Context) (string, error) { return "", nil },
	})

	res, err := h.resolver.Resolve(context.Background(), MethodKeyring)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Found() || kr.sets != 0 {
		t.Fatalf("expected nothing found or stored, got %+v (sets=%d)", res, kr.sets)
	}
}

func TestResolve_KeyringProvisionError(t *testing.T) {
	wantErr := errors.New("no tty")
	h := newHarness(t, secret.MapEnvironment{}, Options{
		Keyring:   newMemKeyring(),
		Provision: func(context.Context) (string, error) { return "", wantErr },
	})

	if _, err := h.resolver.Resolve(context.Background(), MethodKeyring); !errors.Is(err, wantErr) {
		t.Fatalf("Resolve() error = %v, want %v", err, wantErr)
	}
}

func TestResolve_KeyringNoProvisioner(t *testing.T) {
	h := newHarness(t, secret.MapEnvironment{}, Options{Keyring: newMemKeyring()})

	if _, err := h.resolver.Resolve(context.Background(), MethodKeyring); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Resolve() error = %v, want ErrConfiguration", err)
	}
}

func TestResolve_KeyringUnavailable(t *testing.T) {
	for _, kr := range []Keyring{nil, UnavailableKeyring{Reason: "no secret service"}} {
		h := newHarness(t, secret.MapEnvironment{}, Options{Keyring: kr})

		_, err := h.resolver.Resolve(context.Background(), MethodKeyring)
		if !errors.Is(err, ErrKeyringUnavailable) {
			t.Fatalf("Resolve() with %T error = %v, want ErrKeyringUnavailable", kr, err)
		}
	}
}

// method config, MOOMOO_CONFIG_KEY unset.
func TestResolve_ConfigKeyMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.enc")
	h := newHarness(t, secret.MapEnvironment{}, Options{ConfigPath: path})

	_, err := h.resolver.Resolve(context.Background(), MethodConfig)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Resolve() error = %v, want ErrConfiguration", err)
	}
	if errors.Is(err, store.ErrConfigNotFound) {
		t.Fatalf("config file must not be consulted without a key: %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no file to be created, stat err = %v", statErr)
	}
}

func TestResolve_Config(t *testing.T) {
	key, err := store.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	dir := t.TempDir()
	if err := store.New(filepath.Join(dir, "config.enc")).Save(store.Config{"password": "abc"}, key); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	h := newHarness(t, secret.MapEnvironment{
		ConfigKeyEnvVar: key.Encode(),
		"CREDS_DIR":     dir,
	}, Options{ConfigPath: "${CREDS_DIR}/config.enc"})

	res, err := h.resolver.Resolve(context.Background(), MethodConfig)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Password != "abc" || res.Source != SourceConfig || !res.Legacy {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if len(h.warnings(t)) != 1 {
		t.Fatalf("expected legacy warning")
	}
	if strings.Contains(h.logs.String(), key.Encode()) {
		t.Fatalf("key leaked into logs")
	}
}

func TestResolve_ConfigErrors(t *testing.T) {
	key, _ := store.GenerateKey()
	other, _ := store.GenerateKey()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.enc")
	if err := store.New(path).Save(store.Config{"password": "abc"}, key); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	tests := []struct {
		name string
		env  secret.MapEnvironment
		path string
		want error
	}{
		{name: "wrong key", env: secret.MapEnvironment{ConfigKeyEnvVar: other.Encode()}, path: path, want: store.ErrDecryption},
		{name: "invalid key", env: secret.MapEnvironment{ConfigKeyEnvVar: "hunter2"}, path: path, want: store.ErrInvalidKey},
		{name: "missing file", env: secret.MapEnvironment{ConfigKeyEnvVar: key.Encode()}, path: filepath.Join(dir, "nope.enc"), want: store.ErrConfigNotFound},
		{name: "unexpandable path", env: secret.MapEnvironment{ConfigKeyEnvVar: key.Encode()}, path: "${NOPE}/config.enc", want: ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.env, Options{ConfigPath: tt.path})
			if _, err := h.resolver.Resolve(context.Background(), MethodConfig); !errors.Is(err, tt.want) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestResolve_UnknownMethod(t *testing.T) {
	h := newHarness(t, secret.MapEnvironment{}, Options{})

	if _, err := h.resolver.Resolve(context.Background(), Method("vault")); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("Resolve() error = %v, want ErrUnknownMethod", err)
	}
	if _, err := h.resolver.ResolveByName(context.Background(), "vault"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("ResolveByName() error = %v, want ErrUnknownMethod", err)
	}
}

func TestResolve_ReReadsEnvironmentEachCall(t *testing.T) {
	env := secret.MapEnvironment{
		RefEnvVar: `{"source":"env","id":"FOO"}`,
		"FOO":     "first",
	}
	h := newHarness(t, env, Options{})

	first, _, _ := h.resolver.Password(context.Background(), MethodOpenClaw)
	env["FOO"] = "rotated"
	second, _, _ := h.resolver.Password(context.Background(), MethodOpenClaw)

	if first != "first" || second != "rotated" {
		t.Fatalf("expected rotation to be picked up, got %q then %q", first, second)
	}
}
