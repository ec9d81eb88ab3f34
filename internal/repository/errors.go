// Package repository persists the ticketing domain to MySQL. Each
// repository owns one table (or a parent/child pair such as
// purchase_groups and tickets) and exposes record structs that mirror
// the schema, mapping to and from the model types at the boundary.
// Sentinel errors below are shared across repositories so handlers can
// translate failures into HTTP statuses.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as reading another client's purchase
// group. Handlers translate this into an HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of
// dependent state, such as deleting an inventory entry that is still
// assigned to a ticket. Handlers translate this into an HTTP 409.
var ErrConflict = errors.New("conflict")
