package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/yzlim/campuspantry/internal/model"
	"github.com/yzlim/campuspantry/internal/store"
)

// WeeklyHandler handles the needed-this-week item list.
type WeeklyHandler struct {
	DB *sql.DB
}

type addWeeklyRequest struct {
	Campus   string `json:"campus"`
	ItemName string `json:"item_name"`
	Category string `json:"category"`
}

// List handles GET /api/weekly-items.
func (h *WeeklyHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListWeeklyItems(r.Context(), h.DB, r.URL.Query().Get("campus"))
	if err != nil {
		storeError(w, err)
		return
	}
	if items == nil {
		items = []model.WeeklyItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/weekly-items.
func (h *WeeklyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req addWeeklyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.AddWeeklyItem(r.Context(), h.DB, req.Campus, req.ItemName, req.Category)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Delete handles DELETE /api/weekly-items/{id}.
func (h *WeeklyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid weekly item id")
		return
	}

	if err := store.DeleteWeeklyItem(r.Context(), h.DB, id); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
