package secret

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RefEnvVar is the environment variable holding the password secret reference.
const RefEnvVar = "OPEND_PASSWORD_SECRET_REF"

// Source identifies where a secret reference points.
type Source string

const (
	SourceEnv  Source = "env"
	SourceFile Source = "file"
	SourceExec Source = "exec"
)

// Ref is a parsed secret reference.
type Ref struct {
	Source Source `json:"source"`
	ID     string `json:"id"`
}

// ParseRef parses a secret reference of the form:
//
//	{"source": "env"|"file"|"exec", "id": "<string>"}
//
// Both fields are required and must be strings. Unknown fields are ignored.
// The source is lower-cased but otherwise not checked here; Resolver rejects
// sources it does not know.
func ParseRef(raw string) (Ref, error) {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return Ref{}, fmt.Errorf("%w: must be valid JSON", ErrValidation)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return Ref{}, fmt.Errorf("%w: must decode to an object", ErrValidation)
	}

	rawSource, hasSource := obj["source"]
	rawID, hasID := obj["id"]
	if !hasSource || !hasID {
		return Ref{}, fmt.Errorf("%w: requires 'source' and 'id'", ErrValidation)
	}
	source, ok := rawSource.(string)
	if !ok {
		return Ref{}, fmt.Errorf("%w: 'source' must be a string", ErrValidation)
	}
	id, ok := rawID.(string)
	if !ok {
		return Ref{}, fmt.Errorf("%w: 'id' must be a string", ErrValidation)
	}

	return Ref{Source: Source(strings.ToLower(source)), ID: id}, nil
}
