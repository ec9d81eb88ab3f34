package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/veladapass/ticketops/internal/model"
)

// GroupRepo provides persistence for purchase groups and their tickets.
// Groups own their tickets: deleting a group removes every ticket row,
// and the two tables are always written inside one transaction.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo returns a new GroupRepo bound to the given database.
func NewGroupRepo(db *sql.DB) *GroupRepo { return &GroupRepo{db: db} }

// GroupRecord mirrors the purchase_groups table. Business logic uses
// model.PurchaseGroup; the record exists only for scanning.
type GroupRecord struct {
	ID            string
	UserEmail     string
	SellerEmail   sql.NullString
	TotalAmount   int64
	IsFullPayment bool
	Status        string
	EventID       string
	CreatedAt     time.Time
}

// TicketRecord mirrors the tickets table.
type TicketRecord struct {
	ID                  string
	GroupID             string
	Status              string
	Price               int64
	PaidAmount          int64
	PendingPayment      int64
	Cost                int64
	AssignedLink        sql.NullString
	InternalCorrelative int
	IsUnlocked          bool
	IsCourtesy          bool
	EventName           string
	EventID             string
	UpdatedAt           time.Time
}

func groupToModel(r GroupRecord) model.PurchaseGroup {
	g := model.PurchaseGroup{
		ID:            r.ID,
		UserEmail:     r.UserEmail,
		TotalAmount:   r.TotalAmount,
		IsFullPayment: r.IsFullPayment,
		Status:        r.Status,
		EventID:       r.EventID,
		CreatedAt:     r.CreatedAt,
		Items:         []model.TicketItem{},
	}
	if r.SellerEmail.Valid {
		g.SellerEmail = r.SellerEmail.String
	}
	return g
}

func ticketToModel(r TicketRecord) model.TicketItem {
	t := model.TicketItem{
		ID:                  r.ID,
		GroupID:             r.GroupID,
		Status:              r.Status,
		Price:               r.Price,
		PaidAmount:          r.PaidAmount,
		PendingPayment:      r.PendingPayment,
		Cost:                r.Cost,
		InternalCorrelative: r.InternalCorrelative,
		IsUnlocked:          r.IsUnlocked,
		IsCourtesy:          r.IsCourtesy,
		EventName:           r.EventName,
		EventID:             r.EventID,
		UpdatedAt:           r.UpdatedAt,
	}
	if r.AssignedLink.Valid {
		t.AssignedLink = r.AssignedLink.String
	}
	return t
}

const groupColumns = `id, user_email, seller_email, total_amount, is_full_payment, status, event_id, created_at`
const ticketColumns = `id, group_id, status, price, paid_amount, pending_payment, cost,
	assigned_link, internal_correlative, is_unlocked, is_courtesy, event_name, event_id, updated_at`

func scanGroup(row interface{ Scan(...interface{}) error }) (GroupRecord, error) {
	var g GroupRecord
	err := row.Scan(&g.ID, &g.UserEmail, &g.SellerEmail, &g.TotalAmount,
		&g.IsFullPayment, &g.Status, &g.EventID, &g.CreatedAt)
	return g, err
}

func scanTicket(row interface{ Scan(...interface{}) error }) (TicketRecord, error) {
	var t TicketRecord
	err := row.Scan(&t.ID, &t.GroupID, &t.Status, &t.Price, &t.PaidAmount,
		&t.PendingPayment, &t.Cost, &t.AssignedLink, &t.InternalCorrelative,
		&t.IsUnlocked, &t.IsCourtesy, &t.EventName, &t.EventID, &t.UpdatedAt)
	return t, err
}

// ListAll returns every purchase group with its tickets populated. The
// reconciliation engine operates on the full set, so no event filter is
// applied here.
func (r *GroupRepo) ListAll(ctx context.Context) ([]model.PurchaseGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+groupColumns+" FROM purchase_groups ORDER BY created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	groups := make([]model.PurchaseGroup, 0)
	index := make(map[string]int)
	for rows.Next() {
		rec, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		index[rec.ID] = len(groups)
		groups = append(groups, groupToModel(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return groups, nil
	}
	// Populate tickets for all groups in a single query.
	trows, err := r.db.QueryContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets ORDER BY group_id, id")
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		rec, err := scanTicket(trows)
		if err != nil {
			return nil, err
		}
		idx, ok := index[rec.GroupID]
		if !ok {
			continue
		}
		groups[idx].Items = append(groups[idx].Items, ticketToModel(rec))
	}
	return groups, trows.Err()
}

// ListByUser returns the groups belonging to one buyer, newest first.
func (r *GroupRepo) ListByUser(ctx context.Context, email string) ([]model.PurchaseGroup, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+groupColumns+" FROM purchase_groups WHERE user_email=? ORDER BY created_at DESC",
		email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	groups := make([]model.PurchaseGroup, 0)
	index := make(map[string]int)
	ids := make([]interface{}, 0)
	placeholders := make([]string, 0)
	for rows.Next() {
		rec, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		index[rec.ID] = len(groups)
		groups = append(groups, groupToModel(rec))
		ids = append(ids, rec.ID)
		placeholders = append(placeholders, "?")
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return groups, nil
	}
	trows, err := r.db.QueryContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE group_id IN ("+strings.Join(placeholders, ",")+") ORDER BY id",
		ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		rec, err := scanTicket(trows)
		if err != nil {
			return nil, err
		}
		if idx, ok := index[rec.GroupID]; ok {
			groups[idx].Items = append(groups[idx].Items, ticketToModel(rec))
		}
	}
	return groups, trows.Err()
}

// GetByID loads a single group with its tickets. Returns sql.ErrNoRows
// when the group does not exist.
func (r *GroupRepo) GetByID(ctx context.Context, id string) (model.PurchaseGroup, error) {
	rec, err := scanGroup(r.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM purchase_groups WHERE id=? LIMIT 1", id))
	if err != nil {
		return model.PurchaseGroup{}, err
	}
	g := groupToModel(rec)
	trows, err := r.db.QueryContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE group_id=? ORDER BY id", id)
	if err != nil {
		return model.PurchaseGroup{}, err
	}
	defer trows.Close()
	for trows.Next() {
		trec, err := scanTicket(trows)
		if err != nil {
			return model.PurchaseGroup{}, err
		}
		g.Items = append(g.Items, ticketToModel(trec))
	}
	return g, trows.Err()
}

// CreateTx inserts a new group and its tickets within the given
// transaction. The caller must commit or roll back.
func (r *GroupRepo) CreateTx(ctx context.Context, tx *sql.Tx, g model.PurchaseGroup) error {
	seller := sql.NullString{String: g.SellerEmail, Valid: g.SellerEmail != ""}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO purchase_groups (id, user_email, seller_email, total_amount, is_full_payment, status, event_id)
		 VALUES (?,?,?,?,?,?,?)`,
		g.ID, g.UserEmail, seller, g.TotalAmount, g.IsFullPayment, g.Status, g.EventID)
	if err != nil {
		return err
	}
	return r.insertTicketsTx(ctx, tx, g.Items)
}

func (r *GroupRepo) insertTicketsTx(ctx context.Context, tx *sql.Tx, items []model.TicketItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (id, group_id, status, price, paid_amount, pending_payment, cost,
		assigned_link, internal_correlative, is_unlocked, is_courtesy, event_name, event_id) VALUES `
	args := make([]interface{}, 0, len(items)*13)
	for i, t := range items {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,?,?,?,?,?,?,?,?,?)"
		link := sql.NullString{String: t.AssignedLink, Valid: t.AssignedLink != ""}
		args = append(args, t.ID, t.GroupID, t.Status, t.Price, t.PaidAmount,
			t.PendingPayment, t.Cost, link, t.InternalCorrelative,
			t.IsUnlocked, t.IsCourtesy, t.EventName, t.EventID)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// UpsertTx writes a reconciled group back: the group row is updated in
// place and each surviving ticket is inserted or updated by id. Deleted
// tickets are handled separately through DeleteTicketsTx.
func (r *GroupRepo) UpsertTx(ctx context.Context, tx *sql.Tx, g model.PurchaseGroup) error {
	seller := sql.NullString{String: g.SellerEmail, Valid: g.SellerEmail != ""}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO purchase_groups (id, user_email, seller_email, total_amount, is_full_payment, status, event_id)
		 VALUES (?,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE user_email=VALUES(user_email), seller_email=VALUES(seller_email),
			total_amount=VALUES(total_amount), is_full_payment=VALUES(is_full_payment),
			status=VALUES(status), event_id=VALUES(event_id)`,
		g.ID, g.UserEmail, seller, g.TotalAmount, g.IsFullPayment, g.Status, g.EventID)
	if err != nil {
		return err
	}
	for _, t := range g.Items {
		link := sql.NullString{String: t.AssignedLink, Valid: t.AssignedLink != ""}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tickets (id, group_id, status, price, paid_amount, pending_payment, cost,
				assigned_link, internal_correlative, is_unlocked, is_courtesy, event_name, event_id)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
			 ON DUPLICATE KEY UPDATE status=VALUES(status), price=VALUES(price),
				paid_amount=VALUES(paid_amount), pending_payment=VALUES(pending_payment),
				cost=VALUES(cost), assigned_link=VALUES(assigned_link),
				internal_correlative=VALUES(internal_correlative), is_unlocked=VALUES(is_unlocked),
				is_courtesy=VALUES(is_courtesy), event_name=VALUES(event_name), event_id=VALUES(event_id)`,
			t.ID, t.GroupID, t.Status, t.Price, t.PaidAmount, t.PendingPayment, t.Cost,
			link, t.InternalCorrelative, t.IsUnlocked, t.IsCourtesy, t.EventName, t.EventID,
		); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTicketsTx removes individual ticket rows by id.
func (r *GroupRepo) DeleteTicketsTx(ctx context.Context, tx *sql.Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx,
		"DELETE FROM tickets WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	return err
}

// DeleteTx removes a group and its tickets.
func (r *GroupRepo) DeleteTx(ctx context.Context, tx *sql.Tx, groupID string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM tickets WHERE group_id=?", groupID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM purchase_groups WHERE id=?", groupID)
	return err
}

// DeclarePayment records a buyer's payment declaration on a ticket:
// pending_payment accumulates and the status moves to waiting_approval.
// Only tickets owned by the given buyer are touched; ErrForbidden is
// returned when the ticket belongs to someone else.
func (r *GroupRepo) DeclarePayment(ctx context.Context, ticketID, buyerEmail string, amount int64) error {
	var owner string
	err := r.db.QueryRowContext(ctx,
		`SELECT g.user_email FROM tickets t JOIN purchase_groups g ON g.id=t.group_id WHERE t.id=?`,
		ticketID).Scan(&owner)
	if err != nil {
		return err
	}
	if !strings.EqualFold(owner, buyerEmail) {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE tickets SET pending_payment=pending_payment+?, status=? WHERE id=?",
		amount, model.TicketWaitingApproval, ticketID)
	return err
}
