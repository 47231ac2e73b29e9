package dashboard

import (
	"github.com/budsjett/budsjett/pkg/category"
	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/page"
	"github.com/budsjett/budsjett/pkg/settings"
	"github.com/budsjett/budsjett/pkg/transaction"
)

// DefaultCategoryColor annotates uncategorized groups in the breakdowns.
const DefaultCategoryColor = "#9ca3af"

// Snapshot is a consistent read of the whole store. The summary is a pure
// function of a snapshot plus "now", so it can be recomputed or cached per
// snapshot without coordination.
type Snapshot struct {
	Categories    []category.Category
	Pages         []page.Page
	Transactions  []transaction.Transaction
	FixedExpenses []fixedexpense.FixedExpense
	Profiles      []settings.OwnerProfile
	Settings      settings.Settings
}

// The summary document below is the wire contract consumed by the browser
// client; field names must stay stable.

type CategoryTotal struct {
	CategoryID int     `json:"categoryId"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Total      float64 `json:"total"`
}

type MonthlyEntry struct {
	Period   string  `json:"period"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type TagTotal struct {
	Tag string  `json:"tag"`
	Net float64 `json:"net"`
}

type PageBalance struct {
	PageID  int     `json:"pageId"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type FixedCategoryTotal struct {
	Category string  `json:"category"`
	Color    string  `json:"color"`
	Total    float64 `json:"total"`
}

type FixedLevelTotal struct {
	Level string  `json:"level"`
	Total float64 `json:"total"`
}

type BindingExpiration struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	AmountPerMonth     float64 `json:"amountPerMonth"`
	BindingEndDate     string  `json:"bindingEndDate"`
	DaysLeft           int     `json:"daysLeft"`
	NoticePeriodMonths *int    `json:"noticePeriodMonths"`
}

type PricePoint struct {
	Amount    float64 `json:"amount"`
	ChangedAt string  `json:"changedAt"`
}

type PriceHistorySeries struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Category string       `json:"category"`
	Color    string       `json:"color"`
	History  []PricePoint `json:"history"`
}

type BankOwnerSummary struct {
	Name               string  `json:"name"`
	MonthlyNetIncome   float64 `json:"monthlyNetIncome"`
	SharedContribution float64 `json:"sharedContribution"`
	RemainingPersonal  float64 `json:"remainingPersonal"`
}

// BankModeSummary pools every profile's contribution into the shared
// account, regardless of any active owner filter.
type BankModeSummary struct {
	Enabled           bool               `json:"enabled"`
	TotalIncome       float64            `json:"totalIncome"`
	TotalContribution float64            `json:"totalContribution"`
	FreeAfterFixed    float64            `json:"freeAfterFixed"`
	RemainingPersonal float64            `json:"remainingPersonal"`
	Owners            []BankOwnerSummary `json:"owners"`
}

type Summary struct {
	TotalIncome                float64              `json:"totalIncome"`
	TotalExpense               float64              `json:"totalExpense"`
	Net                        float64              `json:"net"`
	CategoryTotals             []CategoryTotal      `json:"categoryTotals"`
	Monthly                    []MonthlyEntry       `json:"monthly"`
	TagTotals                  []TagTotal           `json:"tagTotals"`
	PageBalances               []PageBalance        `json:"pageBalances"`
	FixedExpenseTotal          float64              `json:"fixedExpenseTotal"`
	FixedExpenseCategoryTotals []FixedCategoryTotal `json:"fixedExpenseCategoryTotals"`
	FixedExpenseLevelTotals    []FixedLevelTotal    `json:"fixedExpenseLevelTotals"`
	MonthlyNetIncome           float64              `json:"monthlyNetIncome"`
	ActiveMonthlyNetIncome     float64              `json:"activeMonthlyNetIncome"`
	FreeAfterFixed             float64              `json:"freeAfterFixed"`
	BankModeSummary            BankModeSummary      `json:"bankModeSummary"`
	EffectiveFixedExpenseTotal float64              `json:"effectiveFixedExpenseTotal"`
	BindingExpirations         []BindingExpiration  `json:"bindingExpirations"`
	FixedExpensesCount         int                  `json:"fixedExpensesCount"`
	FixedExpensePriceHistory   []PriceHistorySeries `json:"fixedExpensePriceHistory"`
	MissingIncomeOwners        []string             `json:"missingIncomeOwners"`
}
