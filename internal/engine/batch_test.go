package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/veladapass/ticketops/internal/model"
)

func TestBuildInventoryBatchSequencing(t *testing.T) {
	now := time.Now().UTC()
	existing := []model.InventoryItem{
		{CorrelativeID: 1, BatchNumber: 1, EventID: testEvent},
		{CorrelativeID: 2, BatchNumber: 1, EventID: testEvent},
		{CorrelativeID: 7, BatchNumber: 2, EventID: "OTHER-EVT"},
	}

	items, err := BuildInventoryBatch(existing, testConfig(), []string{"A", " B ", "", "C"}, 9000, CostTotal, now)
	if err != nil {
		t.Fatalf("BuildInventoryBatch returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3 (blank line dropped)", len(items))
	}
	for i, it := range items {
		if it.CorrelativeID != 3+i {
			t.Fatalf("correlative[%d] = %d, want %d", i, it.CorrelativeID, 3+i)
		}
		if it.BatchNumber != 2 {
			t.Fatalf("batch number = %d, want 2", it.BatchNumber)
		}
		if !it.IsPendingLink || it.Link != "" {
			t.Fatalf("entry %d should start in pending-link state: %+v", i, it)
		}
		if it.EventID != testEvent || it.EventName != "Velada de Prueba" {
			t.Fatalf("event fields not stamped: %+v", it)
		}
		if it.Cost != 3000 {
			t.Fatalf("cost[%d] = %d, want 3000", i, it.Cost)
		}
	}
	if items[1].Name != "B" {
		t.Fatalf("name not trimmed: %q", items[1].Name)
	}
}

func TestBuildInventoryBatchTotalModeRemainder(t *testing.T) {
	items, err := BuildInventoryBatch(nil, testConfig(), []string{"A", "B", "C"}, 10000, CostTotal, time.Now())
	if err != nil {
		t.Fatalf("BuildInventoryBatch returned error: %v", err)
	}
	var sum int64
	for _, it := range items {
		sum += it.Cost
	}
	if sum != 10000 {
		t.Fatalf("batch cost sum = %d, want 10000", sum)
	}
	if items[0].Cost != 3334 || items[2].Cost != 3333 {
		t.Fatalf("remainder split wrong: %d/%d/%d", items[0].Cost, items[1].Cost, items[2].Cost)
	}
}

func TestBuildInventoryBatchUnitMode(t *testing.T) {
	items, err := BuildInventoryBatch(nil, testConfig(), []string{"A", "B"}, 2500, CostUnit, time.Now())
	if err != nil {
		t.Fatalf("BuildInventoryBatch returned error: %v", err)
	}
	if items[0].Cost != 2500 || items[1].Cost != 2500 {
		t.Fatalf("unit costs = %d/%d, want 2500 each", items[0].Cost, items[1].Cost)
	}
}

func TestBuildInventoryBatchRejectsEmpty(t *testing.T) {
	if _, err := BuildInventoryBatch(nil, testConfig(), []string{"  ", ""}, 1000, CostTotal, time.Now()); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("err = %v, want ErrEmptyBatch", err)
	}
	if _, err := BuildInventoryBatch(nil, testConfig(), []string{"A"}, 0, CostTotal, time.Now()); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("err = %v, want ErrEmptyBatch for zero cost", err)
	}
}

func TestLinkInUse(t *testing.T) {
	inv := []model.InventoryItem{
		{CorrelativeID: 1, Link: "https://x/1", EventID: testEvent},
		{CorrelativeID: 2, Link: "", EventID: testEvent},
	}
	if !LinkInUse(inv, testEvent, "https://x/1", 2) {
		t.Fatalf("existing link not detected")
	}
	if LinkInUse(inv, testEvent, "https://x/1", 1) {
		t.Fatalf("entry being edited should be excluded")
	}
	if LinkInUse(inv, "OTHER-EVT", "https://x/1", 0) {
		t.Fatalf("other event should not collide")
	}
	if LinkInUse(inv, testEvent, "", 0) {
		t.Fatalf("empty link never collides")
	}
}
