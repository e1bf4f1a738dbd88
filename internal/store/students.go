package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yzlim/campuspantry/internal/model"
)

// CreateStudent adds an entry to the eligibility registry.
func CreateStudent(ctx context.Context, db *sql.DB, s model.Student) (*model.Student, error) {
	if s.MatricNo == "" || s.Email == "" || s.Name == "" {
		return nil, fmt.Errorf("%w: matric number, email and name required", ErrValidation)
	}
	if s.HouseholdIncome < 0 {
		return nil, fmt.Errorf("%w: household income cannot be negative", ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO students (matric_no, email, name, school, household_income)
		 VALUES (?, ?, ?, ?, ?)`,
		s.MatricNo, s.Email, s.Name, s.School, s.HouseholdIncome,
	)
	if err != nil {
		return nil, fmt.Errorf("creating student record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting student id: %w", err)
	}
	s.ID = id
	return &s, nil
}

// FindStudent looks up the eligibility registry by matric number and email.
// Both must match the same record; returns nil when absent.
func FindStudent(ctx context.Context, db *sql.DB, matricNo, email string) (*model.Student, error) {
	s := &model.Student{}
	err := db.QueryRowContext(ctx,
		`SELECT id, matric_no, email, name, school, household_income
		 FROM students WHERE matric_no = ? AND email = ?`,
		matricNo, email,
	).Scan(&s.ID, &s.MatricNo, &s.Email, &s.Name, &s.School, &s.HouseholdIncome)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding student record: %w", err)
	}
	return s, nil
}
