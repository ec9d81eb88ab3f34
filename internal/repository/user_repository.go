package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/veladapass/ticketops/internal/model"
)

// UserRecord mirrors the 'users' table. Users are keyed by email; there
// is no surrogate numeric id.
type UserRecord struct {
	Email            string
	FullName         string
	Instagram        string
	PhoneNumber      string
	PINHash          string
	Role             string
	IsPromoter       bool
	Balance          int64
	Stars            int
	CourtesyProgress int
	LifetimeTickets  int
	ReferralCount    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = `email, full_name, instagram, phone_number, pin_hash, role,
	is_promoter, balance, stars, courtesy_progress, lifetime_tickets,
	referral_count, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (UserRecord, error) {
	var u UserRecord
	err := row.Scan(&u.Email, &u.FullName, &u.Instagram, &u.PhoneNumber,
		&u.PINHash, &u.Role, &u.IsPromoter, &u.Balance, &u.Stars,
		&u.CourtesyProgress, &u.LifetimeTickets, &u.ReferralCount,
		&u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func userToModel(r UserRecord) model.User {
	return model.User{
		Email:            r.Email,
		FullName:         r.FullName,
		Instagram:        r.Instagram,
		PhoneNumber:      r.PhoneNumber,
		PINHash:          r.PINHash,
		Role:             r.Role,
		IsPromoter:       r.IsPromoter,
		Balance:          r.Balance,
		Stars:            r.Stars,
		CourtesyProgress: r.CourtesyProgress,
		LifetimeTickets:  r.LifetimeTickets,
		ReferralCount:    r.ReferralCount,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// Create inserts a new user. The email is lowercased and trimmed; a
// duplicate key violation is reported as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, full_name, instagram, phone_number, pin_hash, role,
			is_promoter, balance, stars, courtesy_progress, lifetime_tickets, referral_count)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		email, u.FullName, u.Instagram, u.PhoneNumber, u.PINHash, u.Role,
		u.IsPromoter, u.Balance, u.Stars, u.CourtesyProgress, u.LifetimeTickets, u.ReferralCount)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rec, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if err != nil {
		return model.User{}, err
	}
	return userToModel(rec), nil
}

// List returns every user ordered by creation time. The reconciliation
// snapshot and the CRM view both consume the full roster.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		rec, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, userToModel(rec))
	}
	return users, rows.Err()
}

// FindPromoterByName resolves a seller code (the promoter's full name,
// case-insensitive) to the promoter's user row. Returns sql.ErrNoRows
// when no promoter matches.
func (r *UserRepo) FindPromoterByName(ctx context.Context, name string) (model.User, error) {
	rec, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE is_promoter=1 AND LOWER(full_name)=LOWER(?) LIMIT 1",
		strings.TrimSpace(name)))
	if err != nil {
		return model.User{}, err
	}
	return userToModel(rec), nil
}

// UpsertTx writes the bookkeeping fields of a user touched by the
// reconciliation engine. The credential and profile columns are left
// alone; only balances, counters and the promoter flag move here.
func (r *UserRepo) UpsertTx(ctx context.Context, tx *sql.Tx, u model.User) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE users SET balance=?, stars=?, courtesy_progress=?, lifetime_tickets=?,
			referral_count=?, is_promoter=? WHERE email=?`,
		u.Balance, u.Stars, u.CourtesyProgress, u.LifetimeTickets,
		u.ReferralCount, u.IsPromoter, u.Email)
	return err
}

// UpdateProfile lets a user change their own display fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, email, fullName, instagram, phone string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, instagram=?, phone_number=? WHERE email=?",
		fullName, instagram, phone, strings.ToLower(strings.TrimSpace(email)))
	return err
}

// UpdateCRM applies an administrative edit: role, promoter flag and the
// loyalty counters. Used by the user management endpoints.
func (r *UserRepo) UpdateCRM(ctx context.Context, u model.User) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET full_name=?, instagram=?, phone_number=?, role=?, is_promoter=?,
			balance=?, stars=?, courtesy_progress=?, lifetime_tickets=?, referral_count=?
		 WHERE email=?`,
		u.FullName, u.Instagram, u.PhoneNumber, u.Role, u.IsPromoter,
		u.Balance, u.Stars, u.CourtesyProgress, u.LifetimeTickets, u.ReferralCount,
		strings.ToLower(strings.TrimSpace(u.Email)))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePIN replaces the stored PIN hash for one user.
func (r *UserRepo) UpdatePIN(ctx context.Context, email, pinHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET pin_hash=? WHERE email=?",
		pinHash, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a user. Purchase groups referencing the email are kept;
// history stays attributable through the denormalized email columns.
func (r *UserRepo) Delete(ctx context.Context, email string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM users WHERE email=?", strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
