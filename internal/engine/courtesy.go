package engine

import (
	"time"

	"github.com/veladapass/ticketops/internal/model"
)

// GenerateCourtesyTicket builds a fully-paid, zero-price, pre-unlocked
// single-ticket purchase group for a gratis grant.  The group is emitted
// already in terminal state with seller "SYSTEM", so it bypasses every
// engine guard and never participates in benefit counting.
func GenerateCourtesyTicket(email string, cfg model.EventConfig) model.PurchaseGroup {
	now := time.Now().UTC()
	groupID := "COURTESY-AUTO-" + shortID(5)
	return model.PurchaseGroup{
		ID:          groupID,
		UserEmail:   email,
		SellerEmail: "SYSTEM",
		Items: []model.TicketItem{{
			ID:         "C-SYM-" + shortID(6),
			GroupID:    groupID,
			Status:     model.TicketPaid,
			Price:      0,
			PaidAmount: 0,
			Cost:       0,
			EventName:  cfg.EventTitle,
			EventID:    cfg.EventInternalID,
			IsCourtesy: true,
			IsUnlocked: true,
			UpdatedAt:  now,
		}},
		TotalAmount:   0,
		IsFullPayment: true,
		Status:        model.TicketPaid,
		EventID:       cfg.EventInternalID,
		CreatedAt:     now,
	}
}
