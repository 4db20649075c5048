// vortexa/types/chat.go
package types

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatRequest struct {
	Content string `json:"content"`
}

// Loan is one ongoing loan extracted from the user's prompt.
type Loan struct {
	Name         string  `json:"name"`
	Principal    float64 `json:"principal"`
	InterestRate float64 `json:"interestRate"`
}

// Asset is a named holding (or liability) with a current value.
type Asset struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Profile is the structured financial picture extracted from a free-form
// prompt. Field names match the strategist request body.
type Profile struct {
	OngoingLoans        []Loan  `json:"ongoing_loans"`
	FinancialContext    string  `json:"financial_context"`
	Assets              []Asset `json:"assets"`
	Liabilities         []Asset `json:"liabilities"`
	MonthlyIncome       float64 `json:"monthly_income"`
	DesiredTenureMonths float64 `json:"desired_interest_tenure"`
}

// ChartSpec carries optional visualization data returned by the strategist.
// "type" is either "pie" or "bar".
type ChartSpec struct {
	Kind   string       `json:"type"`
	Title  string       `json:"title"`
	Series []ChartPoint `json:"data"`
}

type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Chart     *ChartSpec `json:"chart,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionTitle is the sidebar projection of a session.
type SessionTitle struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Reminder struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}
