package settings

// OwnerProfile attributes income to a household member. Name doubles as
// the free-text key matched against FixedExpense.Owners, so renames and
// deletes must cascade through every expense.
type OwnerProfile struct {
	ID   int
	Name string
	// MonthlyNetIncome is nil while the member has not filled it in
	MonthlyNetIncome   *float64
	SharedContribution float64
	BankContributions  map[string]float64
}

// Settings is the process-wide singleton configuring dashboard defaults.
// The lock fields are stored for the client but never enforced server-side.
type Settings struct {
	MonthlyNetIncome           float64
	DefaultFixedExpensesOwners []string
	BankModeEnabled            bool
	BankAccounts               []string
	LockEnabled                bool
	LockCode                   string
}
