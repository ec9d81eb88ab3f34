package engine

import (
	"time"

	"github.com/veladapass/ticketops/internal/model"
)

// ProcessAction applies one reconciliation action to the snapshot and
// returns replacement collections.  It is a pure function: the input
// snapshot is deep-cloned first and is never mutated, so a caller can
// safely discard the result when persistence fails.
//
// An empty ticketID targets every item in the group.  The value argument
// carries the action payload where one applies: the abono amount for
// reserve, the inventory correlative for approve/manual_link, the new
// price for edit_price.  A nil value means "not provided".
//
// Guard violations during approve and manual_link never fail the whole
// call; the affected ticket is rolled back in place and reported in
// Result.Rejections while the rest of a batched action proceeds.  An
// unknown groupID is the only hard error.
func ProcessAction(snap Snapshot, groupID, ticketID string, act Action, value *int64) (Result, error) {
	next := snap.Clone()

	gIdx := findGroup(next.Groups, groupID)
	if gIdx == -1 {
		return Result{}, ErrGroupNotFound
	}
	group := &next.Groups[gIdx]

	res := Result{}
	now := time.Now().UTC()

	// targeted reports whether the action applies to this ticket.
	targeted := func(t *model.TicketItem) bool {
		return ticketID == "" || t.ID == ticketID
	}

	switch act {
	case ActionDelete:
		if ticketID == "" {
			res.GroupDeleted = true
			for _, t := range group.Items {
				res.DeletedTicketIDs = append(res.DeletedTicketIDs, t.ID)
			}
			next.Groups = append(next.Groups[:gIdx], next.Groups[gIdx+1:]...)
		} else {
			kept := group.Items[:0]
			for _, t := range group.Items {
				if t.ID == ticketID {
					res.DeletedTicketIDs = append(res.DeletedTicketIDs, t.ID)
					continue
				}
				kept = append(kept, t)
			}
			group.Items = kept
		}

	case ActionPay:
		for i := range group.Items {
			t := &group.Items[i]
			if !targeted(t) {
				continue
			}
			t.Status = model.TicketWaitingApproval
			t.PendingPayment = t.Price - t.PaidAmount
			t.UpdatedAt = now
		}

	case ActionReserve:
		amount := minReserveAmount
		if value != nil && *value > 0 {
			amount = *value
		}
		for i := range group.Items {
			t := &group.Items[i]
			if !targeted(t) {
				continue
			}
			t.Status = model.TicketWaitingApproval
			t.PendingPayment = amount
			t.UpdatedAt = now
		}

	case ActionApprove:
		res.Rejections = approve(&next, group, ticketID, value, now, &res)

	case ActionCompletePayment:
		completePayment(&next, group, ticketID, now, &res)

	case ActionRevertPayment:
		if t := group.FindItem(ticketID); t != nil {
			reverted := t.PaidAmount
			releaseSlot(&next, t, &res)
			t.Status = model.TicketWaitingApproval
			t.PendingPayment += reverted
			t.PaidAmount = 0
			t.UpdatedAt = now
		}

	case ActionRejectDelete:
		if t := group.FindItem(ticketID); t != nil {
			releaseSlot(&next, t, &res)
			t.Status = model.TicketPending
			t.PaidAmount = 0
			t.PendingPayment = t.Price
			t.UpdatedAt = now
		}

	case ActionManualLink:
		if t := group.FindItem(ticketID); t != nil && value != nil {
			inv := findInventory(next.Inventory, int(*value), next.Config.EventInternalID)
			if inv == nil || inv.IsAssigned {
				res.Rejections = append(res.Rejections, Rejection{TicketID: t.ID, Err: ErrSlotUnavailable})
				break
			}
			claimSlot(inv, group.UserEmail, buyerName(next.Users, group.UserEmail), t.ID)
			t.AssignedLink = inv.Link
			t.InternalCorrelative = inv.CorrelativeID
			t.Cost = inv.Cost
			t.UpdatedAt = now
			res.touchCorrelative(inv.CorrelativeID)
		}

	case ActionRevertAssignment:
		if t := group.FindItem(ticketID); t != nil && t.InternalCorrelative != 0 {
			if inv := findInventory(next.Inventory, t.InternalCorrelative, next.Config.EventInternalID); inv != nil {
				freeSlot(inv)
				res.touchCorrelative(inv.CorrelativeID)
			}
			t.AssignedLink = ""
			t.InternalCorrelative = 0
			t.Cost = 0
			t.Status = model.TicketWaitingApproval
			t.UpdatedAt = now
		}

	case ActionUnlock, ActionLock:
		for i := range group.Items {
			t := &group.Items[i]
			if targeted(t) {
				t.IsUnlocked = act == ActionUnlock
				t.UpdatedAt = now
			}
		}

	case ActionEditPrice:
		if value != nil {
			for i := range group.Items {
				t := &group.Items[i]
				if !targeted(t) {
					continue
				}
				t.Price = *value
				t.PendingPayment = t.Price - t.PaidAmount
				if t.PendingPayment < 0 {
					t.PendingPayment = 0
				}
				// Auto-settle when the collected amount already covers the
				// new price.
				if t.PaidAmount >= t.Price {
					t.Status = model.TicketPaid
					t.PendingPayment = 0
				}
				t.UpdatedAt = now
			}
		}
	}

	res.Groups = next.Groups
	res.Inventory = next.Inventory
	res.Users = next.Users
	return res, nil
}

// approve settles pending payments for the targeted tickets and binds each
// one to an inventory slot.  Per ticket, the slot to bind is resolved in
// priority order: the ticket's own correlative, the operator-chosen value,
// then any entry already flagged with the ticket id (recovering a prior
// link).  The mismatch and overpayment guards roll the ticket back to
// waiting_approval and report a rejection instead of partially applying.
func approve(next *Snapshot, group *model.PurchaseGroup, ticketID string, value *int64, now time.Time, res *Result) []Rejection {
	var rejections []Rejection
	eventID := next.Config.EventInternalID
	promoter := findUser(next.Users, group.SellerEmail)
	buyer := findUser(next.Users, group.UserEmail)

	for i := range group.Items {
		t := &group.Items[i]
		if ticketID != "" && t.ID != ticketID {
			continue
		}
		if t.Status != model.TicketWaitingApproval {
			continue
		}

		wasPaid := t.PaidAmount >= t.Price
		contribution := t.PendingPayment
		t.PaidAmount += contribution
		t.PendingPayment = 0
		t.UpdatedAt = now
		if t.PaidAmount >= t.Price {
			t.Status = model.TicketPaid
		} else {
			t.Status = model.TicketReserved
		}

		// rollback undoes the credit above, leaving the ticket as it was
		// before this approval round.
		rollback := func(cause error) {
			t.PaidAmount -= contribution
			t.PendingPayment = contribution
			t.Status = model.TicketWaitingApproval
			rejections = append(rejections, Rejection{TicketID: t.ID, Err: cause})
		}

		var target int
		switch {
		case t.InternalCorrelative != 0:
			target = t.InternalCorrelative
		case value != nil:
			target = int(*value)
		default:
			if prior := findInventoryByTicket(next.Inventory, t.ID, eventID); prior != nil {
				target = prior.CorrelativeID
			}
		}

		if target != 0 {
			if inv := findInventory(next.Inventory, target, eventID); inv != nil {
				if inv.IsAssigned && inv.AssignedTicketID != "" && inv.AssignedTicketID != t.ID {
					rollback(ErrSlotConflict)
					continue
				}
				// Other non-cancelled tickets linked to the same slot are
				// co-payers on an installment plan; their confirmed amounts
				// plus this ticket's must stay within one ticket price.
				otherPaid := paidByCoPayers(next.Groups, target, eventID, t.ID)
				if otherPaid+t.PaidAmount > t.Price {
					rollback(ErrAmountExceedsPrice)
					continue
				}
				if !inv.IsAssigned {
					name := "Usuario"
					if buyer != nil {
						name = buyer.FullName
					}
					claimSlot(inv, group.UserEmail, name, t.ID)
				}
				if inv.Status == model.InventoryReversion {
					inv.Status = model.InventoryActive
				}
				t.AssignedLink = inv.Link
				t.InternalCorrelative = inv.CorrelativeID
				t.Cost = inv.Cost
				res.touchCorrelative(inv.CorrelativeID)
			}
		}

		if t.Status == model.TicketPaid && !wasPaid && !t.IsCourtesy && t.Price > 0 {
			creditBenefit(promoter, buyer, res)
		}
	}
	return rejections
}

// completePayment force-settles the targeted tickets at full price and
// applies benefit counting for those that were not already paid.
func completePayment(next *Snapshot, group *model.PurchaseGroup, ticketID string, now time.Time, res *Result) {
	promoter := findUser(next.Users, group.SellerEmail)
	buyer := findUser(next.Users, group.UserEmail)

	for i := range group.Items {
		t := &group.Items[i]
		if ticketID != "" && t.ID != ticketID {
			continue
		}
		wasPaid := t.Status == model.TicketPaid || t.PaidAmount >= t.Price
		t.PaidAmount = t.Price
		t.PendingPayment = 0
		t.Status = model.TicketPaid
		t.UpdatedAt = now

		if !wasPaid && !t.IsCourtesy && t.Price > 0 {
			creditBenefit(promoter, buyer, res)
		}
	}
}

// creditBenefit increments the beneficiary's counters exactly once per
// newly paid ticket.  The seller (promoter) takes precedence over the
// buyer; promoters additionally accrue referral credit.
func creditBenefit(promoter, buyer *model.User, res *Result) {
	recipient := promoter
	if recipient == nil {
		recipient = buyer
	}
	if recipient == nil {
		return
	}
	recipient.LifetimeTickets++
	recipient.CourtesyProgress++
	if recipient.IsPromoter {
		recipient.ReferralCount++
	}
	res.touchUser(recipient.Email)
}

// paidByCoPayers sums the confirmed payments of every other non-cancelled
// ticket, across all purchase groups, currently linked to the correlative.
// Correlatives restart per event, so tickets stamped with a different
// event id never count.
func paidByCoPayers(groups []model.PurchaseGroup, correlative int, eventID, excludeTicketID string) int64 {
	var sum int64
	for gi := range groups {
		for ti := range groups[gi].Items {
			it := &groups[gi].Items[ti]
			if it.InternalCorrelative == correlative && it.EventID == eventID &&
				it.Status != model.TicketCancelled && it.ID != excludeTicketID {
				sum += it.PaidAmount
			}
		}
	}
	return sum
}

// releaseSlot frees the inventory entry linked to the ticket, if any, and
// clears the link fields on the ticket itself.  Used by the reversal
// actions, which must leave the slot fully reusable.
func releaseSlot(next *Snapshot, t *model.TicketItem, res *Result) {
	if t.InternalCorrelative != 0 {
		if inv := findInventory(next.Inventory, t.InternalCorrelative, next.Config.EventInternalID); inv != nil {
			freeSlot(inv)
			inv.Status = model.InventoryActive
			res.touchCorrelative(inv.CorrelativeID)
		}
	}
	t.AssignedLink = ""
	t.InternalCorrelative = 0
	t.Cost = 0
}

// claimSlot marks the inventory entry as owned by the ticket, snapshotting
// the buyer identity for display.
func claimSlot(inv *model.InventoryItem, email, name, ticketID string) {
	inv.IsAssigned = true
	inv.AssignedUserEmail = email
	inv.AssignedTo = name
	inv.AssignedTicketID = ticketID
}

// freeSlot clears the assignment fields of an inventory entry.
func freeSlot(inv *model.InventoryItem) {
	inv.IsAssigned = false
	inv.AssignedUserEmail = ""
	inv.AssignedTo = ""
	inv.AssignedTicketID = ""
}

// buyerName resolves the display name of the buyer, falling back to a
// generic label when the email is not in the roster.
func buyerName(users []model.User, email string) string {
	if u := findUser(users, email); u != nil {
		return u.FullName
	}
	return "Usuario"
}

// touchCorrelative records an inventory correlative whose entry changed,
// deduplicated, so the caller can upsert only the affected records.
func (r *Result) touchCorrelative(correlative int) {
	for _, c := range r.TouchedCorrelatives {
		if c == correlative {
			return
		}
	}
	r.TouchedCorrelatives = append(r.TouchedCorrelatives, correlative)
}

// touchUser records a user email whose counters changed, deduplicated.
func (r *Result) touchUser(email string) {
	for _, e := range r.TouchedUserEmails {
		if e == email {
			return
		}
	}
	r.TouchedUserEmails = append(r.TouchedUserEmails, email)
}
