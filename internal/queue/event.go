// Package queue defines message payloads exchanged over the message broker.
package queue

// ReconciliationEvent is published after an administrative action has been
// reconciled and persisted. It carries enough detail for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type ReconciliationEvent struct {
	Action       string   `json:"action"`
	GroupID      string   `json:"group_id"`
	TicketID     string   `json:"ticket_id"`
	BuyerEmail   string   `json:"buyer_email"`
	BuyerName    string   `json:"buyer_name"`
	SellerEmail  string   `json:"seller_email,omitempty"`
	EventID      string   `json:"event_id"`
	EventTitle   string   `json:"event_title"`
	Amount       int64    `json:"amount,omitempty"`
	Correlatives []int    `json:"correlatives,omitempty"`
	Rejections   []string `json:"rejections,omitempty"`
	GroupDeleted bool     `json:"group_deleted,omitempty"`
	ProcessedAt  string   `json:"processed_at"`
	ProcessedBy  string   `json:"processed_by"`
}
