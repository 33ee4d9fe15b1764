package secret_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/credops/secret"
)

func ExampleResolver_ResolveFromEnv() {
	env := secret.MapEnvironment{
		secret.RefEnvVar: `{"source":"env","id":"OPEND_PASSWORD"}`,
		"OPEND_PASSWORD": "hunter2",
	}
	r := secret.NewResolver(env)

	password, ok, err := r.ResolveFromEnv(context.Background(), secret.RefEnvVar)
	fmt.Println(password, ok, err)
	// Output:
	// hunter2 true <nil>
}

func ExampleResolver_Resolve_gatewayOnly() {
	r := secret.NewResolver(secret.MapEnvironment{})

	_, _, err := r.Resolve(context.Background(), secret.Ref{Source: secret.SourceExec, ID: "op read op://vault/opend"})
	fmt.Println(errors.Is(err, secret.ErrConfiguration))
	// Output:
	// true
}
