package model

import "time"

// Activity log entry types.  The Spanish names are kept from the operator
// vocabulary: RESERVA (hold), BOLSA (bag), APROBACION (approval), ANULACION
// (rejection), REVERSION (payment reversal).
const (
	LogReserva    = "RESERVA"
	LogCompra     = "COMPRA"
	LogEdicion    = "EDICION"
	LogLogin      = "LOGIN"
	LogBolsa      = "BOLSA"
	LogAprobacion = "APROBACION"
	LogSistema    = "SISTEMA"
	LogAnulacion  = "ANULACION"
	LogReversion  = "REVERSION"
	LogChat       = "CHAT"
)

// ActivityLog records one operator- or client-initiated action for the
// audit trail.  Entries are insert-only.
type ActivityLog struct {
	ID           uint64    `json:"id"`                       // activity_logs.id
	Timestamp    time.Time `json:"timestamp"`                // activity_logs.created_at
	Action       string    `json:"action"`                   // activity_logs.action
	UserEmail    string    `json:"user_email"`               // activity_logs.user_email
	UserFullName string    `json:"user_full_name,omitempty"` // activity_logs.user_full_name
	Type         string    `json:"type"`                     // activity_logs.type
	EventID      string    `json:"event_id,omitempty"`       // activity_logs.event_id
	Details      string    `json:"details,omitempty"`        // activity_logs.details
}
