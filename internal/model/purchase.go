package model

import "time"

// Ticket lifecycle statuses.  A ticket is created as pending, moves to
// waiting_approval when the buyer declares a payment, and is settled by an
// admin approval into reserved (partial) or paid (full).  The cancelled and
// pending_assignment values are auxiliary states used by administrative
// flows.
const (
	TicketPending           = "pending"
	TicketWaitingApproval   = "waiting_approval"
	TicketReserved          = "reserved"
	TicketPaid              = "paid"
	TicketCancelled         = "cancelled"
	TicketPendingAssignment = "pending_assignment"
)

// TicketItem is one purchasable unit inside a purchase group.
//
// Fields:
//  ID                  – unique ticket identifier.
//  GroupID             – owning purchase group.
//  Status              – lifecycle status (see constants above).
//  Price               – sale price in pesos, fixed at creation.
//  PaidAmount          – cumulative confirmed payment; never exceeds Price.
//  PendingPayment      – amount declared by the buyer and awaiting admin
//                        confirmation.
//  Cost                – unit cost copied from the linked inventory entry.
//  AssignedLink        – download URL, present only once linked.
//  InternalCorrelative – correlative of the linked inventory entry; zero
//                        means unlinked.
//  IsUnlocked          – download gating flag, independent of payment.
//  IsCourtesy          – complimentary ticket, bypasses payment counting.
//  EventName           – denormalized event title snapshot.
//  EventID             – event the ticket belongs to.
//  UpdatedAt           – last mutation timestamp.
type TicketItem struct {
	ID                  string    `json:"id"`                             // tickets.id
	GroupID             string    `json:"group_id"`                       // tickets.group_id
	Status              string    `json:"status"`                         // tickets.status
	Price               int64     `json:"price"`                          // tickets.price
	PaidAmount          int64     `json:"paid_amount"`                    // tickets.paid_amount
	PendingPayment      int64     `json:"pending_payment"`                // tickets.pending_payment
	Cost                int64     `json:"cost"`                           // tickets.cost
	AssignedLink        string    `json:"assigned_link,omitempty"`        // tickets.assigned_link
	InternalCorrelative int       `json:"internal_correlative,omitempty"` // tickets.internal_correlative (0 = none)
	IsUnlocked          bool      `json:"is_unlocked"`                    // tickets.is_unlocked
	IsCourtesy          bool      `json:"is_courtesy"`                    // tickets.is_courtesy
	EventName           string    `json:"event_name"`                     // tickets.event_name
	EventID             string    `json:"event_id"`                       // tickets.event_id
	UpdatedAt           time.Time `json:"updated_at"`                     // tickets.updated_at
}

// PurchaseGroup is one checkout batch.  It is the unit of persistence for
// the tickets it contains: deleting a group deletes all its items.  The
// SellerEmail is empty when no promoter referred the purchase and "SYSTEM"
// for courtesy grants.
type PurchaseGroup struct {
	ID            string       `json:"id"`                     // purchase_groups.id
	UserEmail     string       `json:"user_email"`             // purchase_groups.user_email (buyer)
	SellerEmail   string       `json:"seller_email,omitempty"` // purchase_groups.seller_email (promoter)
	Items         []TicketItem `json:"items"`                  // tickets with group_id = ID
	TotalAmount   int64        `json:"total_amount"`           // purchase_groups.total_amount
	IsFullPayment bool         `json:"is_full_payment"`        // purchase_groups.is_full_payment
	Status        string       `json:"status"`                 // purchase_groups.status (loose aggregate)
	EventID       string       `json:"event_id"`               // purchase_groups.event_id
	CreatedAt     time.Time    `json:"created_at"`             // purchase_groups.created_at
}

// FindItem returns a pointer to the ticket with the given id, or nil when
// the group does not contain it.
func (g *PurchaseGroup) FindItem(ticketID string) *TicketItem {
	for i := range g.Items {
		if g.Items[i].ID == ticketID {
			return &g.Items[i]
		}
	}
	return nil
}
