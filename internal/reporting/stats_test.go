package reporting

import (
	"testing"

	"github.com/veladapass/ticketops/internal/engine"
	"github.com/veladapass/ticketops/internal/model"
)

const evt = "EVT-1"

func statsSnapshot() engine.Snapshot {
	return engine.Snapshot{
		Groups: []model.PurchaseGroup{
			{
				ID: "G1", UserEmail: "ana@x.com", SellerEmail: "promo@x.com", EventID: evt,
				Items: []model.TicketItem{
					{ID: "T1", Status: model.TicketPaid, Price: 10000, PaidAmount: 10000, EventID: evt},
					{ID: "T2", Status: model.TicketWaitingApproval, Price: 10000, PendingPayment: 5000, EventID: evt},
				},
			},
			{
				ID: "G2", UserEmail: "ben@x.com", EventID: evt,
				Items: []model.TicketItem{
					{ID: "T3", Status: model.TicketPaid, Price: 8000, PaidAmount: 8000, EventID: evt},
					{ID: "T4", Status: model.TicketPaid, Price: 0, PaidAmount: 0, IsCourtesy: true, EventID: evt},
				},
			},
			{
				ID: "G3", UserEmail: "ana@x.com", EventID: "OTHER",
				Items: []model.TicketItem{
					{ID: "T5", Status: model.TicketPaid, Price: 9000, PaidAmount: 9000, EventID: "OTHER"},
				},
			},
		},
		Inventory: []model.InventoryItem{
			{CorrelativeID: 1, Cost: 3000, IsAssigned: true, EventID: evt},
			{CorrelativeID: 2, Cost: 3000, EventID: evt},
			{CorrelativeID: 3, Cost: 9999, EventID: "OTHER"},
		},
		Users: []model.User{
			{Email: "ana@x.com", FullName: "Ana", Role: model.RoleClient},
			{Email: "ben@x.com", FullName: "Ben", Role: model.RoleClient},
			{Email: "promo@x.com", FullName: "Promo", Role: model.RoleClient, IsPromoter: true},
			{Email: "root@x.com", FullName: "Root", Role: model.RoleAdmin},
		},
		Config: model.EventConfig{EventInternalID: evt},
	}
}

func TestComputeTotals(t *testing.T) {
	s := Compute(statsSnapshot(), evt)

	if s.Revenue != 18000 {
		t.Fatalf("revenue = %d, want 18000 (other event excluded)", s.Revenue)
	}
	if s.Investment != 6000 {
		t.Fatalf("investment = %d, want 6000", s.Investment)
	}
	if s.Utility != 15000 {
		t.Fatalf("utility = %d, want 18000-3000", s.Utility)
	}
	if s.StockTotal != 2 || s.StockSold != 1 || s.StockFree != 1 {
		t.Fatalf("stock = %d/%d/%d, want 2/1/1", s.StockTotal, s.StockSold, s.StockFree)
	}
	if s.PendingCount != 1 || s.StockPending != 1 {
		t.Fatalf("pending = %d/%d, want 1/1", s.PendingCount, s.StockPending)
	}
	if s.ActiveClients != 2 {
		t.Fatalf("active clients = %d, want 2", s.ActiveClients)
	}
	if s.TotalUsers != 3 {
		t.Fatalf("total users = %d, want 3 (admin excluded)", s.TotalUsers)
	}
}

func TestComputeRankings(t *testing.T) {
	s := Compute(statsSnapshot(), evt)

	if len(s.PromoterRanking) != 1 {
		t.Fatalf("promoter ranking size = %d, want 1", len(s.PromoterRanking))
	}
	if p := s.PromoterRanking[0]; p.Name != "Promo" || p.Count != 1 || p.Revenue != 10000 {
		t.Fatalf("promoter entry = %+v", p)
	}

	// Courtesy tickets never count; Ana and Ben each have one paid ticket
	// and the tie keeps roster order.
	if len(s.ClientRanking) != 2 {
		t.Fatalf("client ranking size = %d, want 2", len(s.ClientRanking))
	}
	if s.ClientRanking[0].Name != "Ana" || s.ClientRanking[1].Name != "Ben" {
		t.Fatalf("client order = %s, %s; want Ana, Ben", s.ClientRanking[0].Name, s.ClientRanking[1].Name)
	}
	if s.ClientRanking[1].Revenue != 8000 {
		t.Fatalf("ben revenue = %d, want 8000", s.ClientRanking[1].Revenue)
	}
}

func TestRankingIncludesEventOutsideFilter(t *testing.T) {
	// Rankings are roster-wide: they attribute every paid non-courtesy
	// ticket regardless of event, matching the dashboard behavior.
	s := Compute(statsSnapshot(), evt)
	if s.ClientRanking[0].Revenue != 19000 {
		t.Fatalf("ana revenue = %d, want 10000+9000 across events", s.ClientRanking[0].Revenue)
	}
}

func TestValidationsFeed(t *testing.T) {
	pending, approved := Validations(statsSnapshot(), evt)

	if len(pending) != 1 || pending[0].User.Email != "ana@x.com" {
		t.Fatalf("pending = %+v, want only ana's group", pending)
	}
	if len(pending[0].Items) != 1 || pending[0].Items[0].Ticket.ID != "T2" {
		t.Fatalf("pending items = %+v", pending[0].Items)
	}
	if pending[0].Seller == nil || pending[0].Seller.Email != "promo@x.com" {
		t.Fatalf("pending seller not resolved: %+v", pending[0].Seller)
	}

	if len(approved) != 2 {
		t.Fatalf("approved = %d buyers, want 2", len(approved))
	}
	// Newest first: Ben's settlement appears before Ana's.
	if approved[0].User.Email != "ben@x.com" {
		t.Fatalf("approved order = %s first, want ben", approved[0].User.Email)
	}
}

func TestAwaitingAssignment(t *testing.T) {
	snap := statsSnapshot()
	// T3 is paid with no link; T1 gets a link and must drop out.
	snap.Groups[0].Items[0].AssignedLink = "https://x/1"

	out := AwaitingAssignment(snap, evt)
	if len(out) != 1 || out[0].Ticket.ID != "T3" {
		t.Fatalf("awaiting = %+v, want only T3", out)
	}
}
