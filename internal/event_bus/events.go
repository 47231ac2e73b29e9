package event_bus

import "time"

const (
	TransactionCreatedEvent  EventType = "transaction.created"
	TransactionsClearedEvent EventType = "transaction.cleared"
	FixedExpenseChangedEvent EventType = "fixedexpense.changed"
	StoreReplacedEvent       EventType = "store.replaced"
)

type TransactionCreated struct {
	Id         int
	Title      string
	Amount     float64
	Type       string
	CategoryId *int
	PageId     *int
	Tags       []string
	OccurredOn time.Time
}

type FixedExpenseChanged struct {
	Id             int
	Name           string
	AmountPerMonth float64
	PriceChanged   bool
}

// StoreReplaced is published after a successful full import. Subscribers
// holding derived state must rebuild from scratch.
type StoreReplaced struct {
	Transactions  int
	FixedExpenses int
}
