package api

import (
	"database/sql"
	"net/http"

	"github.com/yzlim/campuspantry/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	studentsHandler := &StudentsHandler{DB: db}
	inventoryHandler := &InventoryHandler{DB: db}
	notificationsHandler := &NotificationsHandler{DB: db}
	collectionsHandler := &CollectionsHandler{DB: db, JWTSecret: jwtSecret}
	donationsHandler := &DonationsHandler{DB: db}
	weeklyHandler := &WeeklyHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireStudent := RequireRole(model.RoleStudent)
	requireDonor := RequireRole(model.RoleDonor)

	// Public: signup and login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated session management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Inventory: read (all roles), write (admin).
	mux.Handle("GET /api/inventory", authMW(http.HandlerFunc(inventoryHandler.List)))
	mux.Handle("POST /api/inventory/stock", authMW(requireAdmin(http.HandlerFunc(inventoryHandler.AddStock))))
	mux.Handle("DELETE /api/inventory/{id}", authMW(requireAdmin(http.HandlerFunc(inventoryHandler.Delete))))

	// Derived notifications (admin only).
	mux.Handle("GET /api/notifications", authMW(requireAdmin(http.HandlerFunc(notificationsHandler.List))))

	// Collection lifecycle.
	mux.Handle("POST /api/collections/reserve", authMW(requireStudent(http.HandlerFunc(collectionsHandler.Reserve))))
	mux.Handle("POST /api/collections/request", authMW(requireStudent(http.HandlerFunc(collectionsHandler.Request))))
	mux.Handle("GET /api/collections", authMW(http.HandlerFunc(collectionsHandler.List)))
	mux.Handle("GET /api/collections/{ref}/qr", authMW(requireStudent(http.HandlerFunc(collectionsHandler.QRToken))))
	mux.Handle("POST /api/collections/redeem", authMW(requireAdmin(http.HandlerFunc(collectionsHandler.Redeem))))
	mux.Handle("GET /api/requests", authMW(requireAdmin(http.HandlerFunc(collectionsHandler.Requests))))

	// Donation applications.
	mux.Handle("POST /api/donations", authMW(requireDonor(http.HandlerFunc(donationsHandler.Create))))
	mux.Handle("GET /api/donations", authMW(http.HandlerFunc(donationsHandler.List)))
	mux.Handle("GET /api/donations/{id}/photo", authMW(http.HandlerFunc(donationsHandler.Photo)))
	mux.Handle("PUT /api/donations/{id}/review", authMW(requireAdmin(http.HandlerFunc(donationsHandler.Review))))

	// Weekly needed items: read (all roles), write (admin).
	mux.Handle("GET /api/weekly-items", authMW(http.HandlerFunc(weeklyHandler.List)))
	mux.Handle("POST /api/weekly-items", authMW(requireAdmin(http.HandlerFunc(weeklyHandler.Create))))
	mux.Handle("DELETE /api/weekly-items/{id}", authMW(requireAdmin(http.HandlerFunc(weeklyHandler.Delete))))

	// Administration.
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/students", authMW(requireAdmin(http.HandlerFunc(studentsHandler.Create))))

	return mux
}
