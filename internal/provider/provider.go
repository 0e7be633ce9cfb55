// Package provider implements the identity provider collaborator: credential
// exchange and the administrative create-account capability this service
// delegates to. Profile rows are materialized by the provider side after
// creation; this service never writes them during provisioning.
package provider

import "errors"

// ErrRejected indicates the provider refused account creation (duplicate
// email, weak password, ...). The provider message is wrapped so the boundary
// can surface it verbatim.
var ErrRejected = errors.New("provider: creation rejected")

// ErrUnavailable indicates the provider could not be reached at all.
var ErrUnavailable = errors.New("provider: unavailable")
