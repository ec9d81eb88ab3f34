package reporting

import (
	"github.com/veladapass/ticketops/internal/engine"
	"github.com/veladapass/ticketops/internal/model"
)

// ValidationItem pairs a ticket with its owning group id for display.
type ValidationItem struct {
	GroupID string           `json:"group_id"`
	Ticket  model.TicketItem `json:"ticket"`
}

// ValidationGroup gathers one buyer's tickets requiring (or past)
// validation, with the referring promoter when one exists.
type ValidationGroup struct {
	User   model.User       `json:"user"`
	Seller *model.User      `json:"seller,omitempty"`
	Items  []ValidationItem `json:"items"`
}

// Validations splits the event's tickets into the pending-validation feed
// (waiting approval, or partially paid) and the approved feed (fully
// paid), grouped per buyer.  Buyers missing from the roster are skipped.
func Validations(snap engine.Snapshot, eventID string) (pending, approved []ValidationGroup) {
	pendingIdx := make(map[string]int)
	approvedIdx := make(map[string]int)

	for _, g := range snap.Groups {
		if g.EventID != eventID {
			continue
		}
		buyer := userByEmail(snap.Users, g.UserEmail)
		if buyer == nil {
			continue
		}
		seller := userByEmail(snap.Users, g.SellerEmail)

		for _, it := range g.Items {
			item := ValidationItem{GroupID: g.ID, Ticket: it}
			switch {
			case it.Status == model.TicketWaitingApproval || (it.PaidAmount > 0 && it.PaidAmount < it.Price):
				pending = appendTo(pending, pendingIdx, *buyer, seller, item)
			case it.Status == model.TicketPaid:
				approved = appendTo(approved, approvedIdx, *buyer, seller, item)
			}
		}
	}
	// Newest approvals first, mirroring the operator workflow.
	for i, j := 0, len(approved)-1; i < j; i, j = i+1, j-1 {
		approved[i], approved[j] = approved[j], approved[i]
	}
	return pending, approved
}

// AwaitingAssignment lists the event's non-courtesy tickets that are paid
// or reserved but still have no download link bound.
func AwaitingAssignment(snap engine.Snapshot, eventID string) []ValidationItem {
	var out []ValidationItem
	for _, g := range snap.Groups {
		if g.EventID != eventID {
			continue
		}
		for _, it := range g.Items {
			if (it.Status == model.TicketPaid || it.Status == model.TicketReserved) && it.AssignedLink == "" && !it.IsCourtesy {
				out = append(out, ValidationItem{GroupID: g.ID, Ticket: it})
			}
		}
	}
	return out
}

func appendTo(groups []ValidationGroup, idx map[string]int, buyer model.User, seller *model.User, item ValidationItem) []ValidationGroup {
	i, ok := idx[buyer.Email]
	if !ok {
		i = len(groups)
		idx[buyer.Email] = i
		groups = append(groups, ValidationGroup{User: buyer, Seller: seller})
	}
	groups[i].Items = append(groups[i].Items, item)
	return groups
}

func userByEmail(users []model.User, email string) *model.User {
	if email == "" {
		return nil
	}
	for i := range users {
		if users[i].Email == email {
			u := users[i]
			return &u
		}
	}
	return nil
}
