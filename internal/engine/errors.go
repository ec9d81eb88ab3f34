// Package engine implements the ticket/inventory reconciliation core: a
// pure state-transition function over the purchase-group, inventory and
// user collections, plus the courtesy-ticket generator and the inventory
// batch builder.  The engine performs no I/O; persistence of its results is
// entirely the caller's concern.
package engine

import "errors"

// ErrGroupNotFound is returned when the supplied group id does not resolve
// to an existing purchase group.  Callers must treat the snapshot as
// unchanged.
var ErrGroupNotFound = errors.New("purchase group not found")

// ErrSlotConflict signals that the targeted inventory entry is already
// assigned to a different ticket.  The credit is rolled back so the slot
// cannot be double-sold.
var ErrSlotConflict = errors.New("inventory entry already assigned to another ticket")

// ErrAmountExceedsPrice signals that confirming the pending payment would
// push the total collected against one inventory slot beyond the ticket
// price.  The credit is rolled back.
var ErrAmountExceedsPrice = errors.New("amount exceeds ticket price")

// ErrSlotUnavailable is returned by manual linking when the requested
// correlative does not exist for the event or is not free.
var ErrSlotUnavailable = errors.New("inventory entry not available")

// ErrEmptyBatch is returned by the batch builder when no usable names or a
// non-positive cost were supplied.
var ErrEmptyBatch = errors.New("batch requires at least one name and a positive cost")

// ErrDuplicateLink is returned when editing an inventory entry would store
// a download link that already exists for the event.
var ErrDuplicateLink = errors.New("link already exists in the event inventory")
