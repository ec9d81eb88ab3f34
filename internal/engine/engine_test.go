package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/veladapass/ticketops/internal/model"
)

const testEvent = "EVT-1"

func testConfig() model.EventConfig {
	return model.EventConfig{
		EventTitle:      "Velada de Prueba",
		EventInternalID: testEvent,
		FinalPrice:      10000,
	}
}

func testSnapshot() Snapshot {
	return Snapshot{
		Groups: []model.PurchaseGroup{{
			ID:        "G1",
			UserEmail: "buyer@example.com",
			Items: []model.TicketItem{{
				ID:      "T1",
				GroupID: "G1",
				Status:  model.TicketPending,
				Price:   10000,
				EventID: testEvent,
			}},
			TotalAmount: 10000,
			EventID:     testEvent,
		}},
		Inventory: []model.InventoryItem{{
			CorrelativeID: 1,
			Name:          "Entrada 1",
			Link:          "https://tickets.example.com/abc",
			Cost:          4000,
			Status:        model.InventoryActive,
			EventID:       testEvent,
		}},
		Users: []model.User{
			{Email: "buyer@example.com", FullName: "Buyer One", Role: model.RoleClient},
			{Email: "promo@example.com", FullName: "Promo One", Role: model.RoleClient, IsPromoter: true},
		},
		Config: testConfig(),
	}
}

func intp(v int64) *int64 { return &v }

func mustProcess(t *testing.T, snap Snapshot, gid, tid string, act Action, value *int64) Result {
	t.Helper()
	res, err := ProcessAction(snap, gid, tid, act, value)
	if err != nil {
		t.Fatalf("ProcessAction(%s) returned error: %v", act, err)
	}
	return res
}

func asSnapshot(res Result, cfg model.EventConfig) Snapshot {
	return Snapshot{Groups: res.Groups, Inventory: res.Inventory, Users: res.Users, Config: cfg}
}

func TestProcessAction_UnknownGroup(t *testing.T) {
	_, err := ProcessAction(testSnapshot(), "NOPE", "", ActionPay, nil)
	if !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("err = %v, want ErrGroupNotFound", err)
	}
}

func TestProcessAction_DoesNotMutateInput(t *testing.T) {
	snap := testSnapshot()
	before := snap.Clone()

	res := mustProcess(t, snap, "G1", "T1", ActionReserve, intp(5000))
	res = mustProcess(t, asSnapshot(res, snap.Config), "G1", "T1", ActionApprove, intp(1))
	_ = res

	if !reflect.DeepEqual(snap.Groups, before.Groups) {
		t.Fatalf("input groups were mutated")
	}
	if !reflect.DeepEqual(snap.Inventory, before.Inventory) {
		t.Fatalf("input inventory was mutated")
	}
	if !reflect.DeepEqual(snap.Users, before.Users) {
		t.Fatalf("input users were mutated")
	}
}

// Scenario A: a partial reserve approved with no inventory slot available
// settles to reserved with the abono credited and no link.
func TestReserveThenApproveWithoutSlot(t *testing.T) {
	snap := testSnapshot()
	snap.Inventory = nil

	res := mustProcess(t, snap, "G1", "T1", ActionReserve, intp(5000))
	ticket := res.Groups[0].Items[0]
	if ticket.Status != model.TicketWaitingApproval {
		t.Fatalf("status after reserve = %q, want waiting_approval", ticket.Status)
	}
	if ticket.PendingPayment != 5000 {
		t.Fatalf("pending after reserve = %d, want 5000", ticket.PendingPayment)
	}

	res = mustProcess(t, asSnapshot(res, snap.Config), "G1", "T1", ActionApprove, nil)
	ticket = res.Groups[0].Items[0]
	if ticket.Status != model.TicketReserved {
		t.Fatalf("status after approve = %q, want reserved", ticket.Status)
	}
	if ticket.PaidAmount != 5000 || ticket.PendingPayment != 0 {
		t.Fatalf("paid/pending = %d/%d, want 5000/0", ticket.PaidAmount, ticket.PendingPayment)
	}
	if ticket.AssignedLink != "" || ticket.InternalCorrelative != 0 {
		t.Fatalf("ticket unexpectedly linked: %+v", ticket)
	}
	if len(res.Rejections) != 0 {
		t.Fatalf("unexpected rejections: %v", res.Rejections)
	}
}

// Scenario B: completing the balance with an operator-chosen slot settles
// the ticket and claims the inventory entry 1:1.
func TestApproveWithSlotSettlesAndClaims(t *testing.T) {
	snap := testSnapshot()

	res := mustProcess(t, snap, "G1", "T1", ActionReserve, intp(5000))
	res = mustProcess(t, asSnapshot(res, snap.Config), "G1", "T1", ActionApprove, nil)
	res = mustProcess(t, asSnapshot(res, snap.Config), "G1", "T1", ActionReserve, intp(5000))
	res = mustProcess(t, asSnapshot(res, snap.Config), "G1", "T1", ActionApprove, intp(1))

	ticket := res.Groups[0].Items[0]
	if ticket.Status != model.TicketPaid {
		t.Fatalf("status = %q, want paid", ticket.Status)
	}
	if ticket.PaidAmount != 10000 {
		t.Fatalf("paid = %d, want 10000", ticket.PaidAmount)
	}
	if ticket.AssignedLink != "https://tickets.example.com/abc" {
		t.Fatalf("assigned link = %q", ticket.AssignedLink)
	}
	if ticket.Cost != 4000 {
		t.Fatalf("cost = %d, want 4000", ticket.Cost)
	}
	inv := res.Inventory[0]
	if !inv.IsAssigned || inv.AssignedTicketID != "T1" {
		t.Fatalf("inventory not claimed by T1: %+v", inv)
	}
	if inv.AssignedUserEmail != "buyer@example.com" || inv.AssignedTo != "Buyer One" {
		t.Fatalf("assignment snapshot wrong: %+v", inv)
	}
	if len(res.TouchedCorrelatives) != 1 || res.TouchedCorrelatives[0] != 1 {
		t.Fatalf("touched correlatives = %v, want [1]", res.TouchedCorrelatives)
	}
}

// Scenario C: reverting a confirmed payment frees the slot completely and
// returns the full amount to pending.
func TestRevertPaymentFreesSlot(t *testing.T) {
	snap := paidAndLinkedSnapshot()

	res := mustProcess(t, snap, "G1", "T1", ActionRevertPayment, nil)
	ticket := res.Groups[0].Items[0]
	if ticket.Status != model.TicketWaitingApproval {
		t.Fatalf("status = %q, want waiting_approval", ticket.Status)
	}
	if ticket.PaidAmount != 0 || ticket.PendingPayment != 10000 {
		t.Fatalf("paid/pending = %d/%d, want 0/10000", ticket.PaidAmount, ticket.PendingPayment)
	}
	if ticket.AssignedLink != "" || ticket.InternalCorrelative != 0 || ticket.Cost != 0 {
		t.Fatalf("link fields not cleared: %+v", ticket)
	}
	inv := res.Inventory[0]
	if inv.IsAssigned || inv.AssignedTicketID != "" || inv.AssignedUserEmail != "" {
		t.Fatalf("slot not freed: %+v", inv)
	}
	if inv.Status != model.InventoryActive {
		t.Fatalf("inventory status = %q, want active", inv.Status)
	}
}

// Scenario D: confirming a payment that would push the slot's collected
// total past the ticket price is rejected and rolled back.
func TestApproveOverpaymentGuard(t *testing.T) {
	snap := testSnapshot()
	// T1 is a co-payer already linked to slot 1 with 6000 confirmed.
	snap.Groups[0].Items[0].Status = model.TicketReserved
	snap.Groups[0].Items[0].PaidAmount = 6000
	snap.Groups[0].Items[0].InternalCorrelative = 1
	snap.Inventory[0].IsAssigned = true
	snap.Inventory[0].AssignedTicketID = "T1"
	// T2 arrives in a second group attempting 5000 against the same slot.
	snap.Groups = append(snap.Groups, model.PurchaseGroup{
		ID:        "G2",
		UserEmail: "buyer@example.com",
		Items: []model.TicketItem{{
			ID:             "T2",
			GroupID:        "G2",
			Status:         model.TicketWaitingApproval,
			Price:          10000,
			PendingPayment: 5000,
			EventID:        testEvent,
		}},
		EventID: testEvent,
	})

	res := mustProcess(t, snap, "G2", "T2", ActionApprove, intp(1))
	if len(res.Rejections) != 1 {
		t.Fatalf("rejections = %v, want exactly one", res.Rejections)
	}
	if res.Rejections[0].TicketID != "T2" || !errors.Is(res.Rejections[0].Err, ErrAmountExceedsPrice) {
		t.Fatalf("rejection = %+v, want T2/ErrAmountExceedsPrice", res.Rejections[0])
	}
	t2 := res.Groups[1].Items[0]
	if t2.Status != model.TicketWaitingApproval || t2.PaidAmount != 0 || t2.PendingPayment != 5000 {
		t.Fatalf("T2 not rolled back: %+v", t2)
	}
	if res.Groups[0].Items[0].PaidAmount != 6000 {
		t.Fatalf("co-payer T1 was modified: %+v", res.Groups[0].Items[0])
	}
}

// Correlatives restart per event, so a paid ticket from a past event
// holding the same number must not count as a co-payer of the active
// event's slot.
func TestApproveIgnoresCoPayersFromOtherEvents(t *testing.T) {
	snap := testSnapshot()
	snap.Groups[0].Items[0].Status = model.TicketWaitingApproval
	snap.Groups[0].Items[0].PendingPayment = 5000
	// A settled sale from a previous event, linked to its own slot 1.
	snap.Groups = append(snap.Groups, model.PurchaseGroup{
		ID:        "G-OLD",
		UserEmail: "buyer@example.com",
		Items: []model.TicketItem{{
			ID:                  "T-OLD",
			GroupID:             "G-OLD",
			Status:              model.TicketPaid,
			Price:               8000,
			PaidAmount:          6000,
			InternalCorrelative: 1,
			EventID:             "EVT-OLD",
		}},
		EventID: "EVT-OLD",
	})

	res := mustProcess(t, snap, "G1", "T1", ActionApprove, intp(1))
	if len(res.Rejections) != 0 {
		t.Fatalf("rejections = %v, want none", res.Rejections)
	}
	t1 := res.Groups[0].Items[0]
	if t1.Status != model.TicketReserved || t1.PaidAmount != 5000 || t1.InternalCorrelative != 1 {
		t.Fatalf("T1 not approved against free slot: %+v", t1)
	}
	if !res.Inventory[0].IsAssigned || res.Inventory[0].AssignedTicketID != "T1" {
		t.Fatalf("slot not claimed: %+v", res.Inventory[0])
	}
	if res.Groups[1].Items[0].PaidAmount != 6000 {
		t.Fatalf("prior-event ticket was modified: %+v", res.Groups[1].Items[0])
	}
}

func TestApproveSlotConflictGuard(t *testing.T) {
	snap := testSnapshot()
	snap.Inventory[0].IsAssigned = true
	snap.Inventory[0].AssignedTicketID = "OTHER"
	snap.Groups[0].Items[0].Status = model.TicketWaitingApproval
	snap.Groups[0].Items[0].PendingPayment = 10000

	res := mustProcess(t, snap, "G1", "T1", ActionApprove, intp(1))
	if len(res.Rejections) != 1 || !errors.Is(res.Rejections[0].Err, ErrSlotConflict) {
		t.Fatalf("rejections = %v, want ErrSlotConflict", res.Rejections)
	}
	ticket := res.Groups[0].Items[0]
	if ticket.Status != model.TicketWaitingApproval || ticket.PaidAmount != 0 || ticket.PendingPayment != 10000 {
		t.Fatalf("ticket not rolled back: %+v", ticket)
	}
	if res.Inventory[0].AssignedTicketID != "OTHER" {
		t.Fatalf("slot ownership changed: %+v", res.Inventory[0])
	}
}

// A batched approve keeps processing the remaining tickets after one is
// rejected.
func TestApproveBatchIsolation(t *testing.T) {
	snap := testSnapshot()
	snap.Inventory[0].IsAssigned = true
	snap.Inventory[0].AssignedTicketID = "OTHER"
	snap.Groups[0].Items = []model.TicketItem{
		{ID: "T1", GroupID: "G1", Status: model.TicketWaitingApproval, Price: 10000, PendingPayment: 10000, InternalCorrelative: 1, EventID: testEvent},
		{ID: "T2", GroupID: "G1", Status: model.TicketWaitingApproval, Price: 10000, PendingPayment: 10000, EventID: testEvent},
	}

	res := mustProcess(t, snap, "G1", "", ActionApprove, nil)
	if len(res.Rejections) != 1 || res.Rejections[0].TicketID != "T1" {
		t.Fatalf("rejections = %v, want only T1", res.Rejections)
	}
	if got := res.Groups[0].Items[1].Status; got != model.TicketPaid {
		t.Fatalf("T2 status = %q, want paid despite T1 rejection", got)
	}
}

func TestApproveReactivatesRevertedSlot(t *testing.T) {
	snap := testSnapshot()
	snap.Inventory[0].Status = model.InventoryReversion
	snap.Groups[0].Items[0].Status = model.TicketWaitingApproval
	snap.Groups[0].Items[0].PendingPayment = 10000

	res := mustProcess(t, snap, "G1", "T1", ActionApprove, intp(1))
	if res.Inventory[0].Status != model.InventoryActive {
		t.Fatalf("inventory status = %q, want active", res.Inventory[0].Status)
	}
}

// Approving recovers a prior link through assigned_ticket_id when the
// ticket itself lost its correlative.
func TestApproveRecoversPriorAssignment(t *testing.T) {
	snap := testSnapshot()
	snap.Inventory[0].IsAssigned = true
	snap.Inventory[0].AssignedTicketID = "T1"
	snap.Groups[0].Items[0].Status = model.TicketWaitingApproval
	snap.Groups[0].Items[0].PendingPayment = 10000

	res := mustProcess(t, snap, "G1", "T1", ActionApprove, nil)
	ticket := res.Groups[0].Items[0]
	if ticket.InternalCorrelative != 1 || ticket.AssignedLink == "" {
		t.Fatalf("prior link not recovered: %+v", ticket)
	}
}

func TestRejectDeleteIsIdempotent(t *testing.T) {
	snap := paidAndLinkedSnapshot()

	res := mustProcess(t, snap, "G1", "T1", ActionRejectDelete, nil)
	once := res.Groups[0].Items[0]
	res = mustProcess(t, asSnapshot(res, snap.Config), "G1", "T1", ActionRejectDelete, nil)
	twice := res.Groups[0].Items[0]

	once.UpdatedAt = twice.UpdatedAt
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("reject_delete not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
	if twice.Status != model.TicketPending || twice.PaidAmount != 0 || twice.PendingPayment != 10000 {
		t.Fatalf("terminal state wrong: %+v", twice)
	}
	if res.Inventory[0].IsAssigned {
		t.Fatalf("slot still assigned after reject_delete")
	}
}

func TestBenefitCountingExactlyOnce(t *testing.T) {
	snap := testSnapshot()
	snap.Groups[0].SellerEmail = "promo@example.com"

	res := mustProcess(t, snap, "G1", "T1", ActionPay, nil)
	res = mustProcess(t, asSnapshot(res, snap.Config), "G1", "T1", ActionApprove, intp(1))

	promo := findUser(res.Users, "promo@example.com")
	if promo.LifetimeTickets != 1 || promo.CourtesyProgress != 1 || promo.ReferralCount != 1 {
		t.Fatalf("promoter counters = %d/%d/%d, want 1/1/1",
			promo.LifetimeTickets, promo.CourtesyProgress, promo.ReferralCount)
	}
	if got := res.TouchedUserEmails; len(got) != 1 || got[0] != "promo@example.com" {
		t.Fatalf("touched users = %v", got)
	}

	// A second approve is a no-op: the ticket is no longer waiting.
	res = mustProcess(t, asSnapshot(res, snap.Config), "G1", "T1", ActionApprove, nil)
	promo = findUser(res.Users, "promo@example.com")
	if promo.LifetimeTickets != 1 {
		t.Fatalf("lifetime tickets = %d after re-approve, want 1", promo.LifetimeTickets)
	}
}

func TestBenefitCreditsBuyerWithoutSeller(t *testing.T) {
	snap := testSnapshot()

	res := mustProcess(t, snap, "G1", "T1", ActionPay, nil)
	res = mustProcess(t, asSnapshot(res, snap.Config), "G1", "T1", ActionApprove, nil)

	buyer := findUser(res.Users, "buyer@example.com")
	if buyer.LifetimeTickets != 1 || buyer.CourtesyProgress != 1 {
		t.Fatalf("buyer counters = %d/%d, want 1/1", buyer.LifetimeTickets, buyer.CourtesyProgress)
	}
	if buyer.ReferralCount != 0 {
		t.Fatalf("buyer referral count = %d, want 0 (not a promoter)", buyer.ReferralCount)
	}
}

func TestCompletePaymentForcesSettlement(t *testing.T) {
	snap := testSnapshot()
	snap.Groups[0].Items[0].PaidAmount = 2500
	snap.Groups[0].Items[0].Status = model.TicketReserved

	res := mustProcess(t, snap, "G1", "T1", ActionCompletePayment, nil)
	ticket := res.Groups[0].Items[0]
	if ticket.Status != model.TicketPaid || ticket.PaidAmount != 10000 || ticket.PendingPayment != 0 {
		t.Fatalf("ticket = %+v, want settled at price", ticket)
	}
	buyer := findUser(res.Users, "buyer@example.com")
	if buyer.LifetimeTickets != 1 {
		t.Fatalf("lifetime tickets = %d, want 1", buyer.LifetimeTickets)
	}
}

func TestEditPriceAutoSettles(t *testing.T) {
	snap := testSnapshot()
	snap.Groups[0].Items[0].PaidAmount = 8000
	snap.Groups[0].Items[0].Status = model.TicketReserved

	res := mustProcess(t, snap, "G1", "T1", ActionEditPrice, intp(12000))
	ticket := res.Groups[0].Items[0]
	if ticket.Price != 12000 || ticket.PendingPayment != 4000 {
		t.Fatalf("price/pending = %d/%d, want 12000/4000", ticket.Price, ticket.PendingPayment)
	}

	res = mustProcess(t, asSnapshot(res, snap.Config), "G1", "T1", ActionEditPrice, intp(8000))
	ticket = res.Groups[0].Items[0]
	if ticket.Status != model.TicketPaid || ticket.PendingPayment != 0 {
		t.Fatalf("ticket = %+v, want auto-settled at new price", ticket)
	}
}

func TestUnlockAndLock(t *testing.T) {
	snap := testSnapshot()

	res := mustProcess(t, snap, "G1", "", ActionUnlock, nil)
	if !res.Groups[0].Items[0].IsUnlocked {
		t.Fatalf("ticket not unlocked")
	}
	res = mustProcess(t, asSnapshot(res, snap.Config), "G1", "", ActionLock, nil)
	if res.Groups[0].Items[0].IsUnlocked {
		t.Fatalf("ticket not locked back")
	}
}

func TestDeleteTicketAndGroup(t *testing.T) {
	snap := testSnapshot()
	snap.Groups[0].Items = append(snap.Groups[0].Items, model.TicketItem{ID: "T2", GroupID: "G1", Status: model.TicketPending, Price: 10000, EventID: testEvent})

	res := mustProcess(t, snap, "G1", "T2", ActionDelete, nil)
	if len(res.Groups[0].Items) != 1 || res.Groups[0].Items[0].ID != "T1" {
		t.Fatalf("items after ticket delete = %+v", res.Groups[0].Items)
	}
	if len(res.DeletedTicketIDs) != 1 || res.DeletedTicketIDs[0] != "T2" {
		t.Fatalf("deleted ids = %v, want [T2]", res.DeletedTicketIDs)
	}

	res = mustProcess(t, snap, "G1", "", ActionDelete, nil)
	if len(res.Groups) != 0 {
		t.Fatalf("groups after group delete = %d, want 0", len(res.Groups))
	}
	if !res.GroupDeleted {
		t.Fatalf("GroupDeleted not flagged")
	}
}

func TestManualLink(t *testing.T) {
	snap := testSnapshot()

	res := mustProcess(t, snap, "G1", "T1", ActionManualLink, intp(1))
	ticket := res.Groups[0].Items[0]
	if ticket.InternalCorrelative != 1 || ticket.AssignedLink == "" {
		t.Fatalf("ticket not linked: %+v", ticket)
	}
	if ticket.PaidAmount != 0 || ticket.Status != model.TicketPending {
		t.Fatalf("payment state altered by manual link: %+v", ticket)
	}
	if !res.Inventory[0].IsAssigned || res.Inventory[0].AssignedTicketID != "T1" {
		t.Fatalf("slot not claimed: %+v", res.Inventory[0])
	}

	// Linking to an occupied slot is refused.
	snap.Inventory[0].IsAssigned = true
	snap.Inventory[0].AssignedTicketID = "OTHER"
	res = mustProcess(t, snap, "G1", "T1", ActionManualLink, intp(1))
	if len(res.Rejections) != 1 || !errors.Is(res.Rejections[0].Err, ErrSlotUnavailable) {
		t.Fatalf("rejections = %v, want ErrSlotUnavailable", res.Rejections)
	}
}

func TestRevertAssignmentKeepsPayment(t *testing.T) {
	snap := paidAndLinkedSnapshot()

	res := mustProcess(t, snap, "G1", "T1", ActionRevertAssignment, nil)
	ticket := res.Groups[0].Items[0]
	if ticket.InternalCorrelative != 0 || ticket.AssignedLink != "" {
		t.Fatalf("link not cleared: %+v", ticket)
	}
	if ticket.PaidAmount != 10000 {
		t.Fatalf("paid amount changed by revert_assignment: %d", ticket.PaidAmount)
	}
	if res.Inventory[0].IsAssigned {
		t.Fatalf("slot not freed")
	}
}

// Invariant check used across scenarios: paid amounts never exceed price
// and assigned slots pair 1:1 with tickets.
func TestInvariantsAfterActionStorm(t *testing.T) {
	snap := testSnapshot()
	cfg := snap.Config

	steps := []struct {
		tid   string
		act   Action
		value *int64
	}{
		{"T1", ActionReserve, intp(4000)},
		{"T1", ActionApprove, intp(1)},
		{"T1", ActionReserve, intp(9000)}, // would overpay on approve
		{"T1", ActionApprove, nil},
		{"T1", ActionReserve, intp(6000)},
		{"T1", ActionApprove, nil},
		{"T1", ActionRevertPayment, nil},
		{"T1", ActionPay, nil},
		{"T1", ActionApprove, intp(1)},
	}
	current := snap
	for _, s := range steps {
		res := mustProcess(t, current, "G1", s.tid, s.act, s.value)
		current = asSnapshot(res, cfg)
		checkInvariants(t, current)
	}
	if got := current.Groups[0].Items[0].Status; got != model.TicketPaid {
		t.Fatalf("final status = %q, want paid", got)
	}
}

func checkInvariants(t *testing.T, s Snapshot) {
	t.Helper()
	for _, g := range s.Groups {
		for _, it := range g.Items {
			if it.PaidAmount > it.Price {
				t.Fatalf("overpay invariant broken: ticket %s paid %d > price %d", it.ID, it.PaidAmount, it.Price)
			}
		}
	}
	for _, inv := range s.Inventory {
		if !inv.IsAssigned {
			continue
		}
		owners := 0
		for _, g := range s.Groups {
			for _, it := range g.Items {
				if it.InternalCorrelative == inv.CorrelativeID && it.EventID == inv.EventID {
					owners++
					if it.ID != inv.AssignedTicketID {
						t.Fatalf("slot %d assigned to %s but linked from ticket %s", inv.CorrelativeID, inv.AssignedTicketID, it.ID)
					}
				}
			}
		}
		if owners != 1 {
			t.Fatalf("slot %d has %d linked tickets, want exactly 1", inv.CorrelativeID, owners)
		}
	}
}

// paidAndLinkedSnapshot returns a snapshot where T1 is fully paid and
// linked to inventory entry 1.
func paidAndLinkedSnapshot() Snapshot {
	snap := testSnapshot()
	snap.Groups[0].Items[0].Status = model.TicketPaid
	snap.Groups[0].Items[0].PaidAmount = 10000
	snap.Groups[0].Items[0].InternalCorrelative = 1
	snap.Groups[0].Items[0].AssignedLink = snap.Inventory[0].Link
	snap.Groups[0].Items[0].Cost = snap.Inventory[0].Cost
	snap.Inventory[0].IsAssigned = true
	snap.Inventory[0].AssignedUserEmail = "buyer@example.com"
	snap.Inventory[0].AssignedTo = "Buyer One"
	snap.Inventory[0].AssignedTicketID = "T1"
	return snap
}

// Scenario E: courtesy grants are emitted already in terminal state.
func TestGenerateCourtesyTicket(t *testing.T) {
	g := GenerateCourtesyTicket("a@b.com", testConfig())
	if g.UserEmail != "a@b.com" || g.SellerEmail != "SYSTEM" {
		t.Fatalf("group parties = %q/%q", g.UserEmail, g.SellerEmail)
	}
	if len(g.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(g.Items))
	}
	it := g.Items[0]
	if it.Price != 0 || it.Status != model.TicketPaid || !it.IsCourtesy || !it.IsUnlocked {
		t.Fatalf("courtesy ticket = %+v", it)
	}
	if it.GroupID != g.ID {
		t.Fatalf("ticket group id = %q, want %q", it.GroupID, g.ID)
	}
	if g.EventID != testEvent || it.EventID != testEvent {
		t.Fatalf("event ids not stamped: %q/%q", g.EventID, it.EventID)
	}
}
