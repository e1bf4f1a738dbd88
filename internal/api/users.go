package api

import (
	"database/sql"
	"net/http"

	"github.com/yzlim/campuspantry/internal/model"
	"github.com/yzlim/campuspantry/internal/store"
)

// UsersHandler handles user administration endpoints.
type UsersHandler struct {
	DB *sql.DB
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// StudentsHandler maintains the eligibility registry.
type StudentsHandler struct {
	DB *sql.DB
}

type createStudentRequest struct {
	MatricNo        string `json:"matric_no"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	School          string `json:"school"`
	HouseholdIncome int    `json:"household_income"`
}

// Create handles POST /api/students.
func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := store.CreateStudent(r.Context(), h.DB, model.Student{
		MatricNo:        req.MatricNo,
		Email:           req.Email,
		Name:            req.Name,
		School:          req.School,
		HouseholdIncome: req.HouseholdIncome,
	})
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, student)
}
