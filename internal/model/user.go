package model

import "time"

// Role names used throughout the application.  They match the values
// persisted in the users.role column and carried in the JWT "role" claim.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
)

// User represents an application user.  Users are keyed by email rather
// than a numeric ID: the email is the identifier referenced by purchase
// groups, inventory assignments and conversations.  The PIN is a short
// numeric credential; only its bcrypt hash is persisted.
//
// Fields:
//  Email            – unique key of the user.
//  FullName         – display name, also used as the promoter "seller code".
//  Instagram        – contact handle.
//  PhoneNumber      – normalized phone number (+56 prefix).
//  PINHash          – bcrypt hash of the numeric PIN.
//  Role             – client, admin or staff.
//  IsPromoter       – whether the user can refer buyers and earn credit.
//  Balance          – bookkeeping balance in pesos.
//  Stars            – loyalty level, starts at 1.
//  CourtesyProgress – paid tickets counted toward the next free ticket.
//  LifetimeTickets  – total paid tickets attributed to this user.
//  ReferralCount    – paid tickets referred while being a promoter.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type User struct {
	Email            string    `json:"email"`             // users.email
	FullName         string    `json:"full_name"`         // users.full_name
	Instagram        string    `json:"instagram"`         // users.instagram
	PhoneNumber      string    `json:"phone_number"`      // users.phone_number
	PINHash          string    `json:"-"`                 // users.pin_hash
	Role             string    `json:"role"`              // users.role
	IsPromoter       bool      `json:"is_promoter"`       // users.is_promoter
	Balance          int64     `json:"balance"`           // users.balance
	Stars            int       `json:"stars"`             // users.stars
	CourtesyProgress int       `json:"courtesy_progress"` // users.courtesy_progress
	LifetimeTickets  int       `json:"lifetime_tickets"`  // users.lifetime_tickets
	ReferralCount    int       `json:"referral_count"`    // users.referral_count
	CreatedAt        time.Time `json:"created_at"`        // users.created_at
	UpdatedAt        time.Time `json:"updated_at"`        // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserEmail – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserEmail string     // refresh_tokens.user_email
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
