package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yzlim/campuspantry/internal/imaging"
	"github.com/yzlim/campuspantry/internal/model"
	"github.com/yzlim/campuspantry/internal/store"
)

// DonationsHandler handles donation application endpoints.
type DonationsHandler struct {
	DB *sql.DB
}

// maxPhotoUpload caps the multipart form size for donation submissions.
const maxPhotoUpload = 10 << 20 // 10 MiB

type reviewRequest struct {
	Status string `json:"status"`
}

// Create handles POST /api/donations (multipart form with an optional
// photo part).
func (h *DonationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	if err := r.ParseMultipartForm(maxPhotoUpload); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	numberOfItems, _ := strconv.Atoi(r.FormValue("number_of_items"))
	params := store.CreateDonationParams{
		DonorID:         claims.UserID,
		DonorName:       claims.Name,
		Category:        r.FormValue("category"),
		ItemType:        r.FormValue("item_type"),
		NumberOfItems:   numberOfItems,
		DropoffLocation: r.FormValue("dropoff_location"),
		DeliveryDate:    r.FormValue("delivery_date"),
		Notes:           r.FormValue("notes"),
	}

	if file, _, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		result, err := imaging.Process(file)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		params.Photo = result.Data
		params.PhotoMime = result.MIME
	}

	donation, err := store.CreateDonation(r.Context(), h.DB, params)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("donation submitted", "donor", claims.Username, "item", donation.ItemType, "count", donation.NumberOfItems)
	jsonResponse(w, http.StatusCreated, donation)
}

// List handles GET /api/donations. Donors see their own applications;
// admins see all, optionally filtered by ?status=.
func (h *DonationsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	donorID := claims.UserID
	if claims.Role == model.RoleAdmin {
		donorID = 0
	}

	donations, err := store.ListDonations(r.Context(), h.DB, donorID, r.URL.Query().Get("status"))
	if err != nil {
		storeError(w, err)
		return
	}
	if donations == nil {
		donations = []model.Donation{}
	}
	jsonResponse(w, http.StatusOK, donations)
}

// Photo handles GET /api/donations/{id}/photo.
func (h *DonationsHandler) Photo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	photo, mime, err := store.GetDonationPhoto(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(photo)
}

// Review handles PUT /api/donations/{id}/review.
func (h *DonationsHandler) Review(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	donation, err := store.ReviewDonation(r.Context(), h.DB, id, req.Status, claims.UserID)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("donation reviewed", "id", donation.ID, "status", donation.Status, "reviewer", claims.Username)
	jsonResponse(w, http.StatusOK, donation)
}
