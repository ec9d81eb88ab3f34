package engine

import "github.com/veladapass/ticketops/internal/model"

// Snapshot is the full in-memory state the reconciliation engine operates
// on: every purchase group with its tickets, the event inventory and the
// user roster, plus the active event configuration used to stamp
// denormalized fields.  The engine never mutates a snapshot it is given;
// ProcessAction works on a deep clone and returns replacement collections.
type Snapshot struct {
	Groups    []model.PurchaseGroup
	Inventory []model.InventoryItem
	Users     []model.User
	Config    model.EventConfig
}

// Clone returns a deep copy of the snapshot.  Ticket slices inside groups
// are copied as well, so no slice or struct is shared with the receiver.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Groups:    make([]model.PurchaseGroup, len(s.Groups)),
		Inventory: make([]model.InventoryItem, len(s.Inventory)),
		Users:     make([]model.User, len(s.Users)),
		Config:    s.Config,
	}
	for i, g := range s.Groups {
		items := make([]model.TicketItem, len(g.Items))
		copy(items, g.Items)
		g.Items = items
		out.Groups[i] = g
	}
	copy(out.Inventory, s.Inventory)
	copy(out.Users, s.Users)
	return out
}

// findGroup returns the index of the group with the given id, or -1.
func findGroup(groups []model.PurchaseGroup, id string) int {
	for i := range groups {
		if groups[i].ID == id {
			return i
		}
	}
	return -1
}

// findUser returns a pointer into users for the given email, or nil.
func findUser(users []model.User, email string) *model.User {
	if email == "" {
		return nil
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i]
		}
	}
	return nil
}

// findInventory returns a pointer into inv for the entry with the given
// correlative within the event, or nil.
func findInventory(inv []model.InventoryItem, correlative int, eventID string) *model.InventoryItem {
	for i := range inv {
		if inv[i].CorrelativeID == correlative && inv[i].EventID == eventID {
			return &inv[i]
		}
	}
	return nil
}

// findInventoryByTicket returns a pointer to the entry already flagged as
// assigned to the given ticket within the event, or nil.
func findInventoryByTicket(inv []model.InventoryItem, ticketID, eventID string) *model.InventoryItem {
	for i := range inv {
		if inv[i].AssignedTicketID == ticketID && inv[i].EventID == eventID {
			return &inv[i]
		}
	}
	return nil
}
