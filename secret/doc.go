// Package secret resolves the OpenClaw-style secret reference that points at
// the OpenD password.
//
// A reference is a JSON object read from a single environment variable:
//
//	OPEND_PASSWORD_SECRET_REF={"source":"env","id":"MOOMOO_PASSWORD_PROD"}
//
// Only the "env" source is resolved in-process. The "file" and "exec" sources
// must be resolved by the gateway before the process starts; this package
// never reads a referenced file or runs a referenced command.
//
// All environment access goes through the Environment capability so callers
// and tests can substitute a fake environment without touching process state.
package secret
