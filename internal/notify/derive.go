// Package notify derives alerts from inventory snapshots. Notifications
// are a pure projection of current state; nothing is persisted and the
// same snapshot always yields the same set.
package notify

import (
	"fmt"
	"time"

	"github.com/yzlim/campuspantry/internal/model"
)

// ExpiryWindowDays is how many days ahead a batch counts as "expiring".
const ExpiryWindowDays = 7

// Derive scans the inventory snapshot and produces low-stock alerts for
// every record at Low stock level, and expiry alerts for perishable
// batches that are expired or expire within ExpiryWindowDays of today.
// Batches expiring today are neither: the window is (today, today+7].
func Derive(items []model.InventoryItem, today time.Time) []model.Notification {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var notifications []model.Notification
	for _, item := range items {
		for _, batch := range item.Batches {
			n, ok := expiryNotification(item, batch, today)
			if ok {
				notifications = append(notifications, n)
			}
		}
		if item.StockLevel == model.StockLow {
			notifications = append(notifications, model.Notification{
				Type:     model.NotificationLowStock,
				ItemName: item.ItemName,
				Campus:   item.Campus,
				Title:    "Item has Low Stock!",
				Message: fmt.Sprintf("The item %q is in low stock! May suggest to donors for donation.",
					item.ItemName),
			})
		}
	}
	return notifications
}

func expiryNotification(item model.InventoryItem, batch model.ExpiryBatch, today time.Time) (model.Notification, bool) {
	expiry, err := time.Parse(model.ExpiryDateLayout, batch.ExpiryDate)
	if err != nil {
		// Malformed dates are rejected at the storage boundary; skip
		// anything that slipped through rather than failing the scan.
		return model.Notification{}, false
	}

	daysToExpiry := int(expiry.Sub(today).Hours() / 24)
	switch {
	case daysToExpiry < 0:
		return model.Notification{
			Type:       model.NotificationExpiry,
			Severity:   model.SeverityExpired,
			ItemName:   item.ItemName,
			Campus:     item.Campus,
			ExpiryDate: batch.ExpiryDate,
			Title:      "Item is Expired",
			Message:    fmt.Sprintf("The item %q has expired. Please take action!", item.ItemName),
		}, true
	case daysToExpiry > 0 && daysToExpiry <= ExpiryWindowDays:
		return model.Notification{
			Type:       model.NotificationExpiry,
			Severity:   model.SeverityExpiring,
			ItemName:   item.ItemName,
			Campus:     item.Campus,
			ExpiryDate: batch.ExpiryDate,
			Title:      "Expiring Item!",
			Message:    fmt.Sprintf("The item %q is almost expired. Please take action!", item.ItemName),
		}, true
	}
	return model.Notification{}, false
}
