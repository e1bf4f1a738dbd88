package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/yzlim/campuspantry/internal/model"
	"github.com/yzlim/campuspantry/internal/store"
)

// InventoryHandler handles inventory endpoints.
type InventoryHandler struct {
	DB *sql.DB
}

type addStockRequest struct {
	ItemName      string `json:"item_name"`
	Category      string `json:"category"`
	Campus        string `json:"campus"`
	Quantity      int    `json:"quantity"`
	Unit          string `json:"unit"`
	ExpiryDate    string `json:"expiry_date,omitempty"`
	LowThreshold  int    `json:"low_threshold"`
	HighThreshold int    `json:"high_threshold"`
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.InventoryFilter{
		Campus:      q.Get("campus"),
		Category:    q.Get("category"),
		StockLevel:  q.Get("stock_level"),
		InStockOnly: q.Get("in_stock") == "true",
	}

	items, err := store.ListInventory(r.Context(), h.DB, filter)
	if err != nil {
		storeError(w, err)
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// AddStock handles POST /api/inventory/stock.
func (h *InventoryHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	var req addStockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.AddStock(r.Context(), h.DB, store.AddStockParams{
		ItemName:      req.ItemName,
		Category:      req.Category,
		Campus:        req.Campus,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		ExpiryDate:    req.ExpiryDate,
		LowThreshold:  req.LowThreshold,
		HighThreshold: req.HighThreshold,
	})
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/inventory/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	if err := store.DeleteInventoryItem(r.Context(), h.DB, id); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
