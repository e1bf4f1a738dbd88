package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/yzlim/campuspantry/internal/db"
	"github.com/yzlim/campuspantry/internal/model"
)

func setupDonor(t *testing.T, database *sql.DB) *model.User {
	t.Helper()
	ctx := context.Background()
	user, err := CreateUser(ctx, database, "mei", "Mei Ling", "hash", model.RoleDonor)
	if err != nil {
		t.Fatalf("creating test donor: %v", err)
	}
	return user
}

func TestCreateDonationStartsPending(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := setupDonor(t, database)

	donation, err := CreateDonation(ctx, database, CreateDonationParams{
		DonorID: donor.ID, DonorName: donor.Name,
		Category: "Food", ItemType: "Canned Goods", NumberOfItems: 12,
		DropoffLocation: "Main Campus Reception",
	})
	if err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}

	if donation.Status != model.DonationPending {
		t.Errorf("expected Pending status, got %q", donation.Status)
	}
	if donation.ReviewedAt != nil {
		t.Error("expected no review timestamp on a new donation")
	}
}

func TestCreateDonationValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := setupDonor(t, database)

	_, err := CreateDonation(ctx, database, CreateDonationParams{
		DonorID: donor.ID, DonorName: donor.Name,
		Category: "Food", ItemType: "Canned Goods", NumberOfItems: 0,
		DropoffLocation: "Main Campus Reception",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for zero items, got %v", err)
	}

	_, err = CreateDonation(ctx, database, CreateDonationParams{
		DonorID: donor.ID, DonorName: donor.Name,
		Category: "Food", NumberOfItems: 5,
		DropoffLocation: "Main Campus Reception",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing item type, got %v", err)
	}
}

func TestReviewDonationTerminal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := setupDonor(t, database)
	admin, _ := CreateUser(ctx, database, "admin", "Admin", "hash", model.RoleAdmin)

	donation, _ := CreateDonation(ctx, database, CreateDonationParams{
		DonorID: donor.ID, DonorName: donor.Name,
		Category: "Food", ItemType: "Canned Goods", NumberOfItems: 12,
		DropoffLocation: "Main Campus Reception",
	})

	reviewed, err := ReviewDonation(ctx, database, donation.ID, model.DonationApproved, admin.ID)
	if err != nil {
		t.Fatalf("ReviewDonation: %v", err)
	}
	if reviewed.Status != model.DonationApproved {
		t.Errorf("expected Approved, got %q", reviewed.Status)
	}
	if reviewed.ReviewedAt == nil || reviewed.ReviewedBy == nil {
		t.Error("expected review metadata to be stamped")
	}

	// A reviewed donation cannot be reviewed again, in either direction.
	_, err = ReviewDonation(ctx, database, donation.ID, model.DonationRejected, admin.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for second review, got %v", err)
	}

	after, _ := GetDonation(ctx, database, donation.ID)
	if after.Status != model.DonationApproved {
		t.Errorf("status changed by failed review: %q", after.Status)
	}
}

func TestReviewDonationValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := setupDonor(t, database)
	admin, _ := CreateUser(ctx, database, "admin", "Admin", "hash", model.RoleAdmin)

	donation, _ := CreateDonation(ctx, database, CreateDonationParams{
		DonorID: donor.ID, DonorName: donor.Name,
		Category: "Food", ItemType: "Bread", NumberOfItems: 2,
		DropoffLocation: "Student Center",
	})

	_, err := ReviewDonation(ctx, database, donation.ID, "Maybe", admin.ID)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for unknown status, got %v", err)
	}

	_, err = ReviewDonation(ctx, database, 999, model.DonationApproved, admin.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown donation, got %v", err)
	}
}

func TestListDonationsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := setupDonor(t, database)
	other, _ := CreateUser(ctx, database, "tan", "Tan Wei", "hash", model.RoleDonor)
	admin, _ := CreateUser(ctx, database, "admin", "Admin", "hash", model.RoleAdmin)

	first, _ := CreateDonation(ctx, database, CreateDonationParams{
		DonorID: donor.ID, DonorName: donor.Name,
		Category: "Food", ItemType: "Biscuit", NumberOfItems: 3,
		DropoffLocation: "Library",
	})
	CreateDonation(ctx, database, CreateDonationParams{
		DonorID: other.ID, DonorName: other.Name,
		Category: "School Supplies", ItemType: "Textbooks", NumberOfItems: 5,
		DropoffLocation: "Library",
	})
	ReviewDonation(ctx, database, first.ID, model.DonationApproved, admin.ID)

	mine, _ := ListDonations(ctx, database, donor.ID, "")
	if len(mine) != 1 || mine[0].DonorID != donor.ID {
		t.Errorf("expected only donor's own donations, got %v", mine)
	}

	approved, _ := ListDonations(ctx, database, 0, model.DonationApproved)
	if len(approved) != 1 || approved[0].ID != first.ID {
		t.Errorf("expected 1 approved donation, got %v", approved)
	}

	all, _ := ListDonations(ctx, database, 0, "")
	if len(all) != 2 {
		t.Errorf("expected 2 donations, got %d", len(all))
	}
}

func TestDonationPhotoRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := setupDonor(t, database)

	photo := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02}
	donation, _ := CreateDonation(ctx, database, CreateDonationParams{
		DonorID: donor.ID, DonorName: donor.Name,
		Category: "Food", ItemType: "Bread", NumberOfItems: 1,
		DropoffLocation: "Library", Photo: photo, PhotoMime: "image/jpeg",
	})

	data, mime, err := GetDonationPhoto(ctx, database, donation.ID)
	if err != nil {
		t.Fatalf("GetDonationPhoto: %v", err)
	}
	if mime != "image/jpeg" || len(data) != len(photo) {
		t.Errorf("photo round trip mismatch: mime=%q len=%d", mime, len(data))
	}
}

func TestDonationPhotoAbsent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := setupDonor(t, database)

	donation, _ := CreateDonation(ctx, database, CreateDonationParams{
		DonorID: donor.ID, DonorName: donor.Name,
		Category: "Food", ItemType: "Bread", NumberOfItems: 1,
		DropoffLocation: "Library",
	})

	_, _, err := GetDonationPhoto(ctx, database, donation.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing photo, got %v", err)
	}
}
