package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/yzlim/campuspantry/internal/auth"
	"github.com/yzlim/campuspantry/internal/model"
	"github.com/yzlim/campuspantry/internal/store"
)

// CollectionsHandler handles reservation, request, QR and redemption
// endpoints for the collection-history lifecycle.
type CollectionsHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type reserveRequest struct {
	InventoryID int64 `json:"inventory_id"`
	NumItem     int   `json:"num_item"`
}

type requestRequest struct {
	Category    string `json:"category"`
	ProductName string `json:"product_name"`
	Details     string `json:"details"`
	Email       string `json:"email"`
}

type redeemRequest struct {
	Token string `json:"token"`
}

// Reserve handles POST /api/collections/reserve. On success the stock is
// decremented and the student gets a Ready-to-collect record.
func (h *CollectionsHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req reserveRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	collection, err := store.Reserve(r.Context(), h.DB, claims.UserID, claims.Name, req.InventoryID, req.NumItem)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("item reserved", "user", claims.Username, "item", collection.ItemName, "quantity", collection.NumItem)
	jsonResponse(w, http.StatusCreated, collection)
}

// Request handles POST /api/collections/request: an ad hoc want-list entry
// that bypasses stock entirely.
func (h *CollectionsHandler) Request(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req requestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	collection, err := store.CreateRequest(r.Context(), h.DB, claims.UserID, claims.Name,
		req.Email, req.Category, req.ProductName, req.Details)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, collection)
}

// List handles GET /api/collections. Students see their own history,
// admins see everything.
func (h *CollectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	userID := claims.UserID
	if claims.Role == model.RoleAdmin {
		userID = 0
	}

	collections, err := store.ListCollections(r.Context(), h.DB, userID)
	if err != nil {
		storeError(w, err)
		return
	}
	if collections == nil {
		collections = []model.Collection{}
	}
	jsonResponse(w, http.StatusOK, collections)
}

// Requests handles GET /api/requests: the detail rows behind ad hoc
// requests, for admins triaging the want list.
func (h *CollectionsHandler) Requests(w http.ResponseWriter, r *http.Request) {
	requests, err := store.ListRequests(r.Context(), h.DB, 0)
	if err != nil {
		storeError(w, err)
		return
	}
	if requests == nil {
		requests = []model.RecipientRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// QRToken handles GET /api/collections/{ref}/qr: issues the signed payload
// the client renders as a QR code. Only the owner of a Ready-to-collect
// record gets one.
func (h *CollectionsHandler) QRToken(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	collection, err := store.GetCollectionByRef(r.Context(), h.DB, r.PathValue("ref"))
	if err != nil {
		storeError(w, err)
		return
	}
	if collection == nil || collection.UserID != claims.UserID {
		// Hide other users' records behind the same 404.
		jsonError(w, http.StatusNotFound, "collection not found")
		return
	}
	if collection.Status != model.CollectionReady {
		jsonError(w, http.StatusConflict, "collection is not ready to collect")
		return
	}

	token, err := auth.GenerateCollectionToken(h.JWTSecret, collection.Ref,
		collection.UserID, collection.UserName, collection.ItemName, collection.Category, collection.NumItem)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate QR token")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"token": token})
}

// Redeem handles POST /api/collections/redeem: the scanner posts the QR
// token and the record flips to Collected, exactly once.
func (h *CollectionsHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	qrClaims, err := auth.ValidateCollectionToken(h.JWTSecret, req.Token)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid QR payload")
		return
	}

	collection, err := store.Redeem(r.Context(), h.DB, qrClaims.CollectionID)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("collection redeemed", "ref", collection.Ref, "item", collection.ItemName, "user", collection.UserName)
	jsonResponse(w, http.StatusOK, collection)
}
