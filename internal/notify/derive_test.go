package notify

import (
	"testing"
	"time"

	"github.com/yzlim/campuspantry/internal/model"
)

func day(value string) time.Time {
	t, err := time.Parse(model.ExpiryDateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDeriveExpiredBatch(t *testing.T) {
	items := []model.InventoryItem{{
		ItemName: "Milk", Campus: "Main Campus", Category: model.CategoryFood,
		Quantity: 5, StockLevel: model.StockMedium,
		Batches: []model.ExpiryBatch{{ExpiryDate: "2024-01-01", Stock: 5}},
	}}

	got := Derive(items, day("2024-01-10"))
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	n := got[0]
	if n.Type != model.NotificationExpiry || n.Severity != model.SeverityExpired {
		t.Errorf("expected expired alert, got %+v", n)
	}
	if n.ExpiryDate != "2024-01-01" {
		t.Errorf("expected batch date on alert, got %q", n.ExpiryDate)
	}
}

func TestDeriveExpiringWithinWindow(t *testing.T) {
	items := []model.InventoryItem{{
		ItemName: "Bread", Campus: "Main Campus", Category: model.CategoryFood,
		Quantity: 5, StockLevel: model.StockMedium,
		Batches: []model.ExpiryBatch{{ExpiryDate: "2024-01-15", Stock: 5}},
	}}

	got := Derive(items, day("2024-01-10"))
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].Severity != model.SeverityExpiring {
		t.Errorf("expected expiring alert, got %+v", got[0])
	}
}

func TestDeriveWindowBoundaries(t *testing.T) {
	today := "2024-01-10"
	tests := []struct {
		name   string
		expiry string
		alerts int
	}{
		{"expires today is neither", "2024-01-10", 0},
		{"tomorrow is expiring", "2024-01-11", 1},
		{"day seven is expiring", "2024-01-17", 1},
		{"day eight is quiet", "2024-01-18", 0},
		{"yesterday is expired", "2024-01-09", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []model.InventoryItem{{
				ItemName: "Yogurt", Campus: "Main Campus", Category: model.CategoryFood,
				Quantity: 5, StockLevel: model.StockMedium,
				Batches: []model.ExpiryBatch{{ExpiryDate: tt.expiry, Stock: 5}},
			}}
			got := Derive(items, day(today))
			if len(got) != tt.alerts {
				t.Errorf("expected %d alerts for expiry %s, got %d", tt.alerts, tt.expiry, len(got))
			}
		})
	}
}

func TestDeriveLowStock(t *testing.T) {
	items := []model.InventoryItem{
		{ItemName: "Rice", Campus: "Main Campus", Quantity: 2, StockLevel: model.StockLow},
		{ItemName: "Pens", Campus: "Main Campus", Quantity: 50, StockLevel: model.StockHigh},
	}

	got := Derive(items, day("2024-01-10"))
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	n := got[0]
	if n.Type != model.NotificationLowStock || n.ItemName != "Rice" {
		t.Errorf("expected low-stock alert for Rice, got %+v", n)
	}
}

func TestDeriveCombinedAlertsPerItem(t *testing.T) {
	// A low-stock perishable with one expired and one fresh batch yields
	// an expiry alert per qualifying batch plus the low-stock alert.
	items := []model.InventoryItem{{
		ItemName: "Milk", Campus: "Main Campus", Category: model.CategoryFood,
		Quantity: 2, StockLevel: model.StockLow,
		Batches: []model.ExpiryBatch{
			{ExpiryDate: "2024-01-05", Stock: 1},
			{ExpiryDate: "2024-06-01", Stock: 1},
		},
	}}

	got := Derive(items, day("2024-01-10"))
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d: %+v", len(got), got)
	}

	var types []string
	for _, n := range got {
		types = append(types, n.Type)
	}
	if types[0] != model.NotificationExpiry || types[1] != model.NotificationLowStock {
		t.Errorf("unexpected alert types %v", types)
	}
}

func TestDeriveSkipsMalformedDates(t *testing.T) {
	items := []model.InventoryItem{{
		ItemName: "Milk", Campus: "Main Campus", Category: model.CategoryFood,
		Quantity: 5, StockLevel: model.StockMedium,
		Batches: []model.ExpiryBatch{{ExpiryDate: "not-a-date", Stock: 5}},
	}}

	if got := Derive(items, day("2024-01-10")); len(got) != 0 {
		t.Errorf("expected no alerts for malformed date, got %+v", got)
	}
}

func TestDeriveDeterministic(t *testing.T) {
	items := []model.InventoryItem{
		{ItemName: "Rice", Campus: "Main Campus", Quantity: 2, StockLevel: model.StockLow},
		{
			ItemName: "Milk", Campus: "North Campus", Category: model.CategoryFood,
			Quantity: 5, StockLevel: model.StockMedium,
			Batches: []model.ExpiryBatch{{ExpiryDate: "2024-01-12", Stock: 5}},
		},
	}
	today := day("2024-01-10")

	first := Derive(items, today)
	second := Derive(items, today)
	if len(first) != len(second) {
		t.Fatalf("derivation not stable: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("alert %d differs between runs", i)
		}
	}
}
