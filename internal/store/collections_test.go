package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/yzlim/campuspantry/internal/db"
	"github.com/yzlim/campuspantry/internal/model"
)

func setupStudent(t *testing.T, database *sql.DB) *model.User {
	t.Helper()
	ctx := context.Background()
	user, err := CreateUser(ctx, database, "ali", "Ali Hassan", "hash", model.RoleStudent)
	if err != nil {
		t.Fatalf("creating test student: %v", err)
	}
	return user
}

func TestReserveDecrementsAndCreatesRecord(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := setupStudent(t, database)

	item, _ := AddStock(ctx, database, AddStockParams{
		ItemName: "Toothpaste", Category: "Personal Care Products", Campus: "Main",
		Quantity: 5, LowThreshold: 2, HighThreshold: 10,
	})

	collection, err := Reserve(ctx, database, user.ID, user.Name, item.ID, 3)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	if collection.Status != model.CollectionReady {
		t.Errorf("expected status %q, got %q", model.CollectionReady, collection.Status)
	}
	if collection.NumItem != 3 {
		t.Errorf("expected num_item 3, got %d", collection.NumItem)
	}
	if collection.Ref == "" {
		t.Error("expected non-empty collection ref")
	}

	// Stock dropped to 2 and reclassified as Low.
	updated, _ := GetInventoryItem(ctx, database, item.ID)
	if updated.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", updated.Quantity)
	}
	if updated.StockLevel != model.StockLow {
		t.Errorf("expected Low stock level, got %q", updated.StockLevel)
	}
}

func TestReserveInsufficientStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := setupStudent(t, database)

	item, _ := AddStock(ctx, database, AddStockParams{
		ItemName: "Ruler", Category: "School Supplies", Campus: "Main",
		Quantity: 2, LowThreshold: 1, HighThreshold: 10,
	})

	_, err := Reserve(ctx, database, user.ID, user.Name, item.ID, 3)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Quantity untouched.
	updated, _ := GetInventoryItem(ctx, database, item.ID)
	if updated.Quantity != 2 {
		t.Errorf("expected quantity unchanged at 2, got %d", updated.Quantity)
	}
}

func TestReserveUnknownItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := setupStudent(t, database)

	_, err := Reserve(ctx, database, user.ID, user.Name, 999, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReserveRejectsZeroQuantity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := setupStudent(t, database)

	_, err := Reserve(ctx, database, user.ID, user.Name, 1, 0)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestReservePerishableConsumesEarliestBatches(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := setupStudent(t, database)

	params := AddStockParams{
		ItemName: "Bread", Category: model.CategoryFood, Campus: "Main",
		Quantity: 4, ExpiryDate: "2027-01-10", LowThreshold: 1, HighThreshold: 20,
	}
	item, _ := AddStock(ctx, database, params)
	params.Quantity = 6
	params.ExpiryDate = "2027-02-01"
	AddStock(ctx, database, params)

	// Takes all of the earliest batch plus one from the next.
	if _, err := Reserve(ctx, database, user.ID, user.Name, item.ID, 5); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	updated, _ := GetInventoryItem(ctx, database, item.ID)
	if updated.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", updated.Quantity)
	}
	if len(updated.Batches) != 1 {
		t.Fatalf("expected 1 remaining batch, got %d", len(updated.Batches))
	}
	if updated.Batches[0].ExpiryDate != "2027-02-01" || updated.Batches[0].Stock != 5 {
		t.Errorf("expected later batch with stock 5, got %+v", updated.Batches[0])
	}

	// Sum invariant holds after the partial consume.
	total := 0
	for _, b := range updated.Batches {
		total += b.Stock
	}
	if total != updated.Quantity {
		t.Errorf("batch sum %d does not match quantity %d", total, updated.Quantity)
	}
}

func TestConcurrentReservesNeverOversell(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := setupStudent(t, database)

	item, _ := AddStock(ctx, database, AddStockParams{
		ItemName: "Ruler", Category: "School Supplies", Campus: "Main",
		Quantity: 10, LowThreshold: 1, HighThreshold: 50,
	})

	const workers = 8
	var wg sync.WaitGroup
	successes := make(chan int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Reserve(ctx, database, user.ID, user.Name, item.ID, 3); err == nil {
				successes <- 3
			}
		}()
	}
	wg.Wait()
	close(successes)

	reserved := 0
	for n := range successes {
		reserved += n
	}

	updated, _ := GetInventoryItem(ctx, database, item.ID)
	if updated.Quantity < 0 {
		t.Fatalf("quantity went negative: %d", updated.Quantity)
	}
	if reserved+updated.Quantity != 10 {
		t.Errorf("reserved %d + remaining %d != initial 10", reserved, updated.Quantity)
	}
	// 10 stock in chunks of 3 allows at most 3 winners.
	if reserved > 9 {
		t.Errorf("oversold: %d reserved from 10", reserved)
	}
}

func TestRedeemMarksCollected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := setupStudent(t, database)

	item, _ := AddStock(ctx, database, AddStockParams{
		ItemName: "Ruler", Category: "School Supplies", Campus: "Main",
		Quantity: 5, LowThreshold: 1, HighThreshold: 10,
	})
	collection, _ := Reserve(ctx, database, user.ID, user.Name, item.ID, 1)

	redeemed, err := Redeem(ctx, database, collection.Ref)
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if redeemed.Status != model.CollectionDone {
		t.Errorf("expected status %q, got %q", model.CollectionDone, redeemed.Status)
	}
	if redeemed.CollectedAt == nil {
		t.Error("expected collected_at to be set")
	}
}

func TestRedeemTwiceFails(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := setupStudent(t, database)

	item, _ := AddStock(ctx, database, AddStockParams{
		ItemName: "Ruler", Category: "School Supplies", Campus: "Main",
		Quantity: 5, LowThreshold: 1, HighThreshold: 10,
	})
	collection, _ := Reserve(ctx, database, user.ID, user.Name, item.ID, 1)

	if _, err := Redeem(ctx, database, collection.Ref); err != nil {
		t.Fatalf("first Redeem: %v", err)
	}

	_, err := Redeem(ctx, database, collection.Ref)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for second redeem, got %v", err)
	}

	// Record unchanged.
	after, _ := GetCollectionByRef(ctx, database, collection.Ref)
	if after.Status != model.CollectionDone {
		t.Errorf("expected record to stay Collected, got %q", after.Status)
	}
}

func TestConcurrentRedeemsOneWinner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := setupStudent(t, database)

	item, _ := AddStock(ctx, database, AddStockParams{
		ItemName: "Ruler", Category: "School Supplies", Campus: "Main",
		Quantity: 5, LowThreshold: 1, HighThreshold: 10,
	})
	collection, _ := Reserve(ctx, database, user.ID, user.Name, item.ID, 1)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Redeem(ctx, database, collection.Ref)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrInvalidState):
			// Losers must surface the state conflict, not an internal error.
		default:
			t.Errorf("loser got unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly 1 winning redemption, got %d", winners)
	}

	after, _ := GetCollectionByRef(ctx, database, collection.Ref)
	if after.Status != model.CollectionDone {
		t.Errorf("expected record Collected, got %q", after.Status)
	}
}

func TestRedeemUnknownRef(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := Redeem(ctx, database, "no-such-ref")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedeemPendingRequestFails(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := setupStudent(t, database)

	collection, err := CreateRequest(ctx, database, user.ID, user.Name, "ali@usm.my",
		"School Supplies", "Graphing Calculator", "needed for statistics course")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if collection.Status != model.CollectionPending {
		t.Fatalf("expected Pending status, got %q", collection.Status)
	}

	// Pending records have no stock behind them and cannot be redeemed.
	_, err = Redeem(ctx, database, collection.Ref)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestCreateRequestAlsoFilesRecipientRequest(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := setupStudent(t, database)

	_, err := CreateRequest(ctx, database, user.ID, user.Name, "ali@usm.my",
		"Food", "Oat Milk", "")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	requests, err := ListRequests(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(requests) != 1 || requests[0].ProductName != "Oat Milk" {
		t.Errorf("expected 1 request for Oat Milk, got %v", requests)
	}
}

func TestListCollectionsScoping(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice, _ := CreateUser(ctx, database, "alice", "Alice", "hash", model.RoleStudent)
	bob, _ := CreateUser(ctx, database, "bob", "Bob", "hash", model.RoleStudent)

	CreateRequest(ctx, database, alice.ID, alice.Name, "alice@usm.my", "Food", "Rice", "")
	CreateRequest(ctx, database, bob.ID, bob.Name, "bob@usm.my", "Food", "Noodles", "")

	mine, _ := ListCollections(ctx, database, alice.ID)
	if len(mine) != 1 || mine[0].UserID != alice.ID {
		t.Errorf("expected only alice's record, got %v", mine)
	}

	all, _ := ListCollections(ctx, database, 0)
	if len(all) != 2 {
		t.Errorf("expected 2 records for admin view, got %d", len(all))
	}
}
