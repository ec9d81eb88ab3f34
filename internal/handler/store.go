package handler

import (
	"context"
	"database/sql"

	"github.com/veladapass/ticketops/internal/engine"
	"github.com/veladapass/ticketops/internal/model"
	"github.com/veladapass/ticketops/internal/repository"
)

// loadSnapshot assembles the full in-memory state the reconciliation
// engine operates on. The event config is optional: an empty config
// only means no denormalized stamps for brand-new records.
func loadSnapshot(ctx context.Context, groups *repository.GroupRepo,
	inventory *repository.InventoryRepo, users *repository.UserRepo,
	eventCfg *repository.ConfigRepo) (engine.Snapshot, error) {
	var snap engine.Snapshot
	var err error
	if snap.Groups, err = groups.ListAll(ctx); err != nil {
		return snap, err
	}
	if snap.Inventory, err = inventory.ListAll(ctx); err != nil {
		return snap, err
	}
	if snap.Users, err = users.List(ctx); err != nil {
		return snap, err
	}
	if snap.Config, err = eventCfg.Get(ctx); err != nil {
		if err != sql.ErrNoRows {
			return snap, err
		}
		snap.Config = model.EventConfig{}
	}
	return snap, nil
}

// applyResult persists an engine result in one transaction, writing
// only what the engine reported as touched: the acted-on group and its
// surviving tickets, deleted ticket rows, touched inventory
// correlatives and touched users. The engine output is provisional
// until this commit succeeds.
func applyResult(ctx context.Context, db *sql.DB, groups *repository.GroupRepo,
	inventory *repository.InventoryRepo, users *repository.UserRepo,
	groupID, eventID string, res engine.Result) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if res.GroupDeleted {
		if err := groups.DeleteTx(ctx, tx, groupID); err != nil {
			return err
		}
	} else {
		if err := groups.DeleteTicketsTx(ctx, tx, res.DeletedTicketIDs); err != nil {
			return err
		}
		for i := range res.Groups {
			if res.Groups[i].ID == groupID {
				if err := groups.UpsertTx(ctx, tx, res.Groups[i]); err != nil {
					return err
				}
				break
			}
		}
	}
	for _, correlative := range res.TouchedCorrelatives {
		for i := range res.Inventory {
			if res.Inventory[i].CorrelativeID == correlative && res.Inventory[i].EventID == eventID {
				if err := inventory.UpsertTx(ctx, tx, res.Inventory[i]); err != nil {
					return err
				}
				break
			}
		}
	}
	for _, email := range res.TouchedUserEmails {
		for i := range res.Users {
			if res.Users[i].Email == email {
				if err := users.UpsertTx(ctx, tx, res.Users[i]); err != nil {
					return err
				}
				break
			}
		}
	}
	return tx.Commit()
}
