package engine

import (
	"strings"
	"time"

	"github.com/veladapass/ticketops/internal/model"
)

// CostMode selects how the batch cost maps onto individual entries.
type CostMode string

const (
	// CostTotal divides the given cost evenly across the batch.
	CostTotal CostMode = "total"
	// CostUnit applies the given cost to every entry as-is.
	CostUnit CostMode = "unit"
)

// BuildInventoryBatch constructs the inventory entries for one stock upload
// (a "tanda").  One entry is produced per non-blank name; correlatives
// continue the event's sequence and the batch number follows the highest
// batch already uploaded for the event.  Entries start without a link
// (pending-link state).
//
// In total mode the cost is split evenly in whole pesos, with the
// remainder spread over the first entries so the batch sums exactly to the
// given cost.
func BuildInventoryBatch(existing []model.InventoryItem, cfg model.EventConfig, names []string, cost int64, mode CostMode, now time.Time) ([]model.InventoryItem, error) {
	var clean []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			clean = append(clean, n)
		}
	}
	if len(clean) == 0 || cost <= 0 {
		return nil, ErrEmptyBatch
	}

	nextBatch := 1
	nextCorrelative := 1
	for i := range existing {
		if existing[i].EventID != cfg.EventInternalID {
			continue
		}
		if existing[i].BatchNumber >= nextBatch {
			nextBatch = existing[i].BatchNumber + 1
		}
		if existing[i].CorrelativeID >= nextCorrelative {
			nextCorrelative = existing[i].CorrelativeID + 1
		}
	}

	unit := cost
	var remainder int64
	if mode == CostTotal {
		unit = cost / int64(len(clean))
		remainder = cost % int64(len(clean))
	}

	items := make([]model.InventoryItem, 0, len(clean))
	for i, name := range clean {
		c := unit
		if int64(i) < remainder {
			c++
		}
		items = append(items, model.InventoryItem{
			CorrelativeID: nextCorrelative + i,
			Name:          name,
			Link:          "",
			Cost:          c,
			BatchNumber:   nextBatch,
			UploadDate:    now,
			OriginalText:  name,
			IsPendingLink: true,
			Status:        model.InventoryActive,
			EventName:     cfg.EventTitle,
			EventID:       cfg.EventInternalID,
		})
	}
	return items, nil
}

// LinkInUse reports whether the given download link already exists on
// another inventory entry of the event.  Used to refuse duplicate links
// when editing entries; excludeCorrelative skips the entry being edited.
func LinkInUse(inv []model.InventoryItem, eventID, link string, excludeCorrelative int) bool {
	if link == "" {
		return false
	}
	for i := range inv {
		if inv[i].EventID == eventID && inv[i].Link == link && inv[i].CorrelativeID != excludeCorrelative {
			return true
		}
	}
	return false
}
