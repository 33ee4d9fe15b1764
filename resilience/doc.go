// Package resilience bounds blocking operations.
//
// Interactive provisioning blocks on operator input with no deadline of its
// own. Callers that must run unattended wrap such operations with
// WithTimeout so a missing operator turns into ErrTimeout instead of a hang.
package resilience
