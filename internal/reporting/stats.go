// Package reporting computes the derived, read-only projections shown on
// the operator dashboard.  Every view is recomputed from a snapshot and
// never feeds back into the authoritative collections.
package reporting

import (
	"sort"
	"strings"

	"github.com/veladapass/ticketops/internal/engine"
	"github.com/veladapass/ticketops/internal/model"
)

// RankEntry is one row of a promoter or client ranking.
type RankEntry struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

// Stats aggregates the dashboard numbers for one event.
type Stats struct {
	Revenue      int64 `json:"revenue"`
	Investment   int64 `json:"investment"`
	Utility      int64 `json:"utility"`
	StockTotal   int   `json:"stock_total"`
	StockFree    int   `json:"stock_free"`
	StockSold    int   `json:"stock_sold"`
	StockPending int   `json:"stock_pending"`
	PendingCount int   `json:"pending_count"`

	ActiveClients int `json:"active_clients"`
	TotalUsers    int `json:"total_users"`

	PromoterRanking []RankEntry `json:"promoter_ranking"`
	ClientRanking   []RankEntry `json:"client_ranking"`
}

const rankingSize = 5

// Compute builds the Stats projection for the given event.  Revenue counts
// confirmed payments of paid tickets; utility subtracts the cost of the
// inventory actually assigned.  Rankings consider paid, non-courtesy
// tickets only and break ties by roster order (stable sort).
func Compute(snap engine.Snapshot, eventID string) Stats {
	var s Stats

	var allItems []model.TicketItem
	for _, g := range snap.Groups {
		if g.EventID != eventID {
			continue
		}
		allItems = append(allItems, g.Items...)
	}

	var costSold int64
	for _, inv := range snap.Inventory {
		if inv.EventID != eventID {
			continue
		}
		s.StockTotal++
		s.Investment += inv.Cost
		if inv.IsAssigned {
			s.StockSold++
			costSold += inv.Cost
		}
	}
	s.StockFree = s.StockTotal - s.StockSold

	for _, it := range allItems {
		switch {
		case it.Status == model.TicketPaid:
			s.Revenue += it.PaidAmount
		case it.Status == model.TicketWaitingApproval:
			s.PendingCount++
		}
		if it.Status == model.TicketWaitingApproval && !it.IsCourtesy {
			s.StockPending++
		}
	}
	s.Utility = s.Revenue - costSold

	s.ActiveClients = activeClients(snap, eventID)
	for _, u := range snap.Users {
		if u.Role != model.RoleAdmin {
			s.TotalUsers++
		}
	}

	s.PromoterRanking = ranking(snap, func(u model.User) bool { return u.IsPromoter }, sellerOf, false)
	s.ClientRanking = ranking(snap, func(model.User) bool { return true }, buyerOf, true)
	return s
}

// activeClients counts distinct non-admin buyers with a purchase group in
// the event.
func activeClients(snap engine.Snapshot, eventID string) int {
	seen := make(map[string]struct{})
	for _, g := range snap.Groups {
		if g.EventID != eventID {
			continue
		}
		admin := false
		for _, u := range snap.Users {
			if u.Email == g.UserEmail && u.Role == model.RoleAdmin {
				admin = true
				break
			}
		}
		if !admin {
			seen[strings.ToLower(g.UserEmail)] = struct{}{}
		}
	}
	return len(seen)
}

func sellerOf(g model.PurchaseGroup) string { return g.SellerEmail }
func buyerOf(g model.PurchaseGroup) string  { return g.UserEmail }

// ranking attributes paid, non-courtesy tickets to users through the given
// group field and returns the top entries by count.  When dropEmpty is set,
// users with zero attributed tickets are omitted (client ranking); the
// promoter ranking keeps them so new promoters appear on the board.
func ranking(snap engine.Snapshot, include func(model.User) bool, attributedEmail func(model.PurchaseGroup) string, dropEmpty bool) []RankEntry {
	entries := make([]RankEntry, 0, len(snap.Users))
	for _, u := range snap.Users {
		if !include(u) {
			continue
		}
		var count int
		var revenue int64
		for _, g := range snap.Groups {
			if attributedEmail(g) != u.Email {
				continue
			}
			for _, it := range g.Items {
				if it.Status == model.TicketPaid && !it.IsCourtesy {
					count++
					revenue += it.PaidAmount
				}
			}
		}
		if dropEmpty && count == 0 {
			continue
		}
		entries = append(entries, RankEntry{Name: u.FullName, Count: count, Revenue: revenue})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	if len(entries) > rankingSize {
		entries = entries[:rankingSize]
	}
	return entries
}
