package repository

import (
	"context"
	"database/sql"

	"github.com/veladapass/ticketops/internal/model"
)

// ConfigRepo persists the single active event configuration. The table
// holds exactly one row with id 1; Save upserts it in place.
type ConfigRepo struct{ DB *sql.DB }

func NewConfigRepo(db *sql.DB) *ConfigRepo { return &ConfigRepo{DB: db} }

// Get loads the active event configuration. Returns sql.ErrNoRows when
// no configuration has been saved yet.
func (r *ConfigRepo) Get(ctx context.Context) (model.EventConfig, error) {
	var c model.EventConfig
	err := r.DB.QueryRowContext(ctx,
		`SELECT event_title, event_internal_id, event_date, location, reference_price, final_price
		 FROM event_config WHERE id=1`).
		Scan(&c.EventTitle, &c.EventInternalID, &c.EventDate, &c.Location,
			&c.ReferencePrice, &c.FinalPrice)
	return c, err
}

// Save writes the event configuration, creating the row on first use.
func (r *ConfigRepo) Save(ctx context.Context, c model.EventConfig) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO event_config (id, event_title, event_internal_id, event_date, location, reference_price, final_price)
		 VALUES (1,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE event_title=VALUES(event_title),
			event_internal_id=VALUES(event_internal_id), event_date=VALUES(event_date),
			location=VALUES(location), reference_price=VALUES(reference_price),
			final_price=VALUES(final_price)`,
		c.EventTitle, c.EventInternalID, c.EventDate, c.Location,
		c.ReferencePrice, c.FinalPrice)
	return err
}
