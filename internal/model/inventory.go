package model

import "time"

// Inventory entry statuses.  An entry is active while sellable; it is
// marked reversion when a confirmed assignment was undone and the slot is
// being offered again.
const (
	InventoryActive    = "active"
	InventoryReversion = "reversion"
)

// InventoryItem is one deliverable unit, typically a unique download link
// uploaded by the operator.  Entries are created in batches ("tandas") and
// identified by a correlative number assigned sequentially within the
// event.
//
// Fields:
//  CorrelativeID     – sequential identifier, unique per event.
//  Name              – label given at upload time.
//  Link              – download URL; empty while the link is pending.
//  Cost              – unit cost in pesos (batch cost divided or per-unit).
//  BatchNumber       – upload batch the entry arrived in.
//  UploadDate        – when the batch was uploaded.
//  OriginalText      – raw upload line kept for search.
//  IsPendingLink     – true until a concrete link is populated.
//  IsAssigned        – whether a ticket currently owns this slot.
//  AssignedUserEmail – buyer email at assignment time.
//  AssignedTo        – buyer display name snapshot.
//  AssignedTicketID  – id of the owning ticket; empty when free.
//  Status            – active or reversion.
//  EventName         – denormalized event title snapshot.
//  EventID           – event the entry belongs to.
type InventoryItem struct {
	CorrelativeID     int       `json:"correlative_id"`                // inventory.correlative_id
	Name              string    `json:"name"`                          // inventory.name
	Link              string    `json:"link"`                          // inventory.link
	Cost              int64     `json:"cost"`                          // inventory.cost
	BatchNumber       int       `json:"batch_number"`                  // inventory.batch_number
	UploadDate        time.Time `json:"upload_date"`                   // inventory.upload_date
	OriginalText      string    `json:"original_text,omitempty"`       // inventory.original_text
	IsPendingLink     bool      `json:"is_pending_link"`               // inventory.is_pending_link
	IsAssigned        bool      `json:"is_assigned"`                   // inventory.is_assigned
	AssignedUserEmail string    `json:"assigned_user_email,omitempty"` // inventory.assigned_user_email
	AssignedTo        string    `json:"assigned_to,omitempty"`         // inventory.assigned_to
	AssignedTicketID  string    `json:"assigned_ticket_id,omitempty"`  // inventory.assigned_ticket_id
	Status            string    `json:"status"`                        // inventory.status
	EventName         string    `json:"event_name"`                    // inventory.event_name
	EventID           string    `json:"event_id"`                      // inventory.event_id
}
