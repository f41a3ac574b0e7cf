// Package service implements the application services that orchestrate
// storage and the ledger engine. Services are transport-agnostic: they
// take authenticated user IDs, return models and typed errors, and leave
// status-code mapping to the HTTP layer.
package service

import "errors"

// ErrForbidden is returned when the acting user is not permitted to touch
// the requested resource (not a group member, not a settlement party).
var ErrForbidden = errors.New("not allowed to access this resource")
