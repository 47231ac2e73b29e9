package transaction

import "time"

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single income or expense entry. Amount is stored as a
// non-negative magnitude; Type decides whether it counts for or against a
// balance.
type Transaction struct {
	ID         int
	Title      string
	Amount     float64
	Type       Type
	CategoryID *int
	PageID     *int
	Tags       []string
	// OccurredOn is the booking date; the zero time means the date is unknown
	OccurredOn time.Time
	Notes      string
	Metadata   map[string]string
}

// Period returns the YYYY-MM bucket the transaction belongs to, and false
// when the date is unknown.
func (t Transaction) Period() (string, bool) {
	if t.OccurredOn.IsZero() {
		return "", false
	}
	return t.OccurredOn.Format("2006-01"), true
}
