package engine

import "github.com/veladapass/ticketops/internal/model"

// Action identifies one reconciliation operation.  Actions that target a
// single ticket receive its id; an empty ticket id applies the action to
// every item in the group.
type Action string

const (
	// ActionDelete removes the targeted ticket, or the whole group when no
	// ticket id is given.
	ActionDelete Action = "delete"
	// ActionPay declares a full-balance payment: the remaining balance
	// becomes the pending payment awaiting confirmation.
	ActionPay Action = "pay"
	// ActionReserve declares a partial payment (abono) of the given value.
	ActionReserve Action = "reserve"
	// ActionApprove confirms the pending payment and binds the ticket to an
	// inventory slot.  This is the guarded critical path.
	ActionApprove Action = "approve"
	// ActionCompletePayment force-settles the ticket at its full price.
	ActionCompletePayment Action = "complete_payment"
	// ActionRevertPayment undoes confirmed payments, freeing the inventory
	// slot and returning the amount to pending.
	ActionRevertPayment Action = "revert_payment"
	// ActionRejectDelete resets the ticket to pending and frees its slot.
	ActionRejectDelete Action = "reject_delete"
	// ActionManualLink binds the ticket to a free inventory entry without
	// touching payment state.
	ActionManualLink Action = "manual_link"
	// ActionRevertAssignment unbinds the ticket from its inventory entry
	// without touching payment fields.
	ActionRevertAssignment Action = "revert_assignment"
	// ActionUnlock and ActionLock toggle the download gate.
	ActionUnlock Action = "unlock"
	ActionLock   Action = "lock"
	// ActionEditPrice changes the ticket price and recomputes the pending
	// payment, auto-settling when already covered.
	ActionEditPrice Action = "edit_price"
)

// minReserveAmount is applied when a reserve is declared without a usable
// amount, matching the historical behavior of the sales flow.
const minReserveAmount int64 = 10

// Rejection reports a guard violation for one ticket inside a batched
// action.  The remaining tickets of the batch are unaffected; the rejected
// ticket is left exactly as it was before the action.
type Rejection struct {
	TicketID string
	Err      error
}

// Result carries the replacement collections produced by ProcessAction
// together with the bookkeeping a caller needs to persist the minimal set
// of records: which inventory correlatives and user emails were touched,
// which ticket rows were removed, and whether the whole group was deleted.
type Result struct {
	Groups    []model.PurchaseGroup
	Inventory []model.InventoryItem
	Users     []model.User

	Rejections []Rejection

	TouchedCorrelatives []int
	TouchedUserEmails   []string
	DeletedTicketIDs    []string
	GroupDeleted        bool
}
