package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/yzlim/campuspantry/internal/model"
	"github.com/yzlim/campuspantry/internal/notify"
	"github.com/yzlim/campuspantry/internal/store"
)

// NotificationsHandler serves derived inventory alerts.
type NotificationsHandler struct {
	DB *sql.DB
}

// List handles GET /api/notifications. Alerts are recomputed from the
// current inventory snapshot on every call; nothing is stored.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListInventory(r.Context(), h.DB, store.InventoryFilter{})
	if err != nil {
		storeError(w, err)
		return
	}

	notifications := notify.Derive(items, time.Now())
	if notifications == nil {
		notifications = []model.Notification{}
	}
	jsonResponse(w, http.StatusOK, notifications)
}
