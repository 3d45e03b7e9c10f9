package domain

import "time"

// FinanceSnapshot is the latest recorded money picture. RunwayMonths is nil
// when the runway has never been entered.
type FinanceSnapshot struct {
	RunwayMonths   *float64  `json:"runwayMonths,omitempty"`
	Cash           float64   `json:"cash"`
	MonthlyBurn    float64   `json:"monthlyBurn"`
	Pipeline       float64   `json:"pipeline"`
	ExpectedIncome float64   `json:"expectedIncome"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Habit tracks daily completions keyed by YYYY-MM-DD.
type Habit struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Completions map[string]bool `json:"completions"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// DateKey formats t as the YYYY-MM-DD key used by habit completions.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
