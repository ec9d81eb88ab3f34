package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/veladapass/ticketops/internal/model"
)

// InventoryRepo persists deliverable inventory entries. Entries are
// keyed by (event_id, correlative_id); the correlative is assigned by
// the batch builder, never by the database.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo returns a new InventoryRepo bound to the given database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// InventoryRecord mirrors the inventory table.
type InventoryRecord struct {
	EventID           string
	CorrelativeID     int
	Name              string
	Link              string
	Cost              int64
	BatchNumber       int
	UploadDate        time.Time
	OriginalText      string
	IsPendingLink     bool
	IsAssigned        bool
	AssignedUserEmail sql.NullString
	AssignedTo        sql.NullString
	AssignedTicketID  sql.NullString
	Status            string
	EventName         string
}

func inventoryToModel(r InventoryRecord) model.InventoryItem {
	it := model.InventoryItem{
		CorrelativeID: r.CorrelativeID,
		Name:          r.Name,
		Link:          r.Link,
		Cost:          r.Cost,
		BatchNumber:   r.BatchNumber,
		UploadDate:    r.UploadDate,
		OriginalText:  r.OriginalText,
		IsPendingLink: r.IsPendingLink,
		IsAssigned:    r.IsAssigned,
		Status:        r.Status,
		EventName:     r.EventName,
		EventID:       r.EventID,
	}
	if r.AssignedUserEmail.Valid {
		it.AssignedUserEmail = r.AssignedUserEmail.String
	}
	if r.AssignedTo.Valid {
		it.AssignedTo = r.AssignedTo.String
	}
	if r.AssignedTicketID.Valid {
		it.AssignedTicketID = r.AssignedTicketID.String
	}
	return it
}

const inventoryColumns = `event_id, correlative_id, name, link, cost, batch_number, upload_date,
	original_text, is_pending_link, is_assigned, assigned_user_email, assigned_to,
	assigned_ticket_id, status, event_name`

func scanInventory(row interface{ Scan(...interface{}) error }) (InventoryRecord, error) {
	var r InventoryRecord
	err := row.Scan(&r.EventID, &r.CorrelativeID, &r.Name, &r.Link, &r.Cost,
		&r.BatchNumber, &r.UploadDate, &r.OriginalText, &r.IsPendingLink,
		&r.IsAssigned, &r.AssignedUserEmail, &r.AssignedTo, &r.AssignedTicketID,
		&r.Status, &r.EventName)
	return r, err
}

// ListAll returns the full inventory ordered by event and correlative.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]model.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+inventoryColumns+" FROM inventory ORDER BY event_id, correlative_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.InventoryItem, 0)
	for rows.Next() {
		rec, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, inventoryToModel(rec))
	}
	return items, rows.Err()
}

// ListByEvent returns the inventory of one event ordered by correlative.
func (r *InventoryRepo) ListByEvent(ctx context.Context, eventID string) ([]model.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+inventoryColumns+" FROM inventory WHERE event_id=? ORDER BY correlative_id",
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.InventoryItem, 0)
	for rows.Next() {
		rec, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, inventoryToModel(rec))
	}
	return items, rows.Err()
}

// InsertBatchTx inserts the entries of a freshly built upload batch in a
// single statement. Passing an empty slice has no effect.
func (r *InventoryRepo) InsertBatchTx(ctx context.Context, tx *sql.Tx, items []model.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO inventory (event_id, correlative_id, name, link, cost, batch_number,
		upload_date, original_text, is_pending_link, is_assigned, assigned_user_email,
		assigned_to, assigned_ticket_id, status, event_name) VALUES `
	args := make([]interface{}, 0, len(items)*15)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)"
		args = append(args,
			it.EventID, it.CorrelativeID, it.Name, it.Link, it.Cost, it.BatchNumber,
			it.UploadDate, it.OriginalText, it.IsPendingLink, it.IsAssigned,
			nullStr(it.AssignedUserEmail), nullStr(it.AssignedTo), nullStr(it.AssignedTicketID),
			it.Status, it.EventName)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// UpsertTx writes one inventory entry, inserting or updating on the
// (event_id, correlative_id) key. The reconciliation persistence path
// uses this for every touched correlative.
func (r *InventoryRepo) UpsertTx(ctx context.Context, tx *sql.Tx, it model.InventoryItem) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO inventory (event_id, correlative_id, name, link, cost, batch_number,
			upload_date, original_text, is_pending_link, is_assigned, assigned_user_email,
			assigned_to, assigned_ticket_id, status, event_name)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE name=VALUES(name), link=VALUES(link), cost=VALUES(cost),
			batch_number=VALUES(batch_number), upload_date=VALUES(upload_date),
			original_text=VALUES(original_text), is_pending_link=VALUES(is_pending_link),
			is_assigned=VALUES(is_assigned), assigned_user_email=VALUES(assigned_user_email),
			assigned_to=VALUES(assigned_to), assigned_ticket_id=VALUES(assigned_ticket_id),
			status=VALUES(status), event_name=VALUES(event_name)`,
		it.EventID, it.CorrelativeID, it.Name, it.Link, it.Cost, it.BatchNumber,
		it.UploadDate, it.OriginalText, it.IsPendingLink, it.IsAssigned,
		nullStr(it.AssignedUserEmail), nullStr(it.AssignedTo), nullStr(it.AssignedTicketID),
		it.Status, it.EventName)
	return err
}

// Update applies an administrative edit (name, link, cost) to one entry.
// Returns sql.ErrNoRows when the entry does not exist.
func (r *InventoryRepo) Update(ctx context.Context, it model.InventoryItem) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inventory SET name=?, link=?, cost=?, is_pending_link=? WHERE event_id=? AND correlative_id=?`,
		it.Name, it.Link, it.Cost, it.IsPendingLink, it.EventID, it.CorrelativeID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a free inventory entry. Entries currently assigned to a
// ticket cannot be removed; ErrConflict is returned instead.
func (r *InventoryRepo) Delete(ctx context.Context, eventID string, correlative int) error {
	var assigned bool
	err := r.db.QueryRowContext(ctx,
		"SELECT is_assigned FROM inventory WHERE event_id=? AND correlative_id=?",
		eventID, correlative).Scan(&assigned)
	if err != nil {
		return err
	}
	if assigned {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx,
		"DELETE FROM inventory WHERE event_id=? AND correlative_id=?", eventID, correlative)
	return err
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
