package ports

import "github.com/terangafund/citizen-projects/internal/core/domain"

// Actor is the authenticated user performing an operation, as extracted from
// the session token by the transport layer.
type Actor struct {
	ID   string
	Name string
	Role domain.Role
}
