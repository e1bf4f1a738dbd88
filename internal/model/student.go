package model

// IncomeThreshold is the maximum monthly household income (B40 cutoff)
// for a student to qualify for aid.
const IncomeThreshold = 5249

// Student is an entry in the eligibility registry, keyed by matric number.
// Signup is only allowed for students present here whose household income
// does not exceed IncomeThreshold.
type Student struct {
	ID              int64  `json:"id"`
	MatricNo        string `json:"matric_no"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	School          string `json:"school"`
	HouseholdIncome int    `json:"household_income"`
}

// Eligible reports whether the student's household income is within the
// aid threshold.
func (s *Student) Eligible() bool {
	return s.HouseholdIncome <= IncomeThreshold
}
