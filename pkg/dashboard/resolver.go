package dashboard

import (
	"github.com/budsjett/budsjett/internal/utils"
	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/settings"
)

// Resolution is the outcome of applying an owner filter to the household:
// which fixed expenses count, how much income backs them, and which owners
// could not be matched to a usable income.
type Resolution struct {
	Owners              []string
	FixedExpenses       []fixedexpense.FixedExpense
	FixedExpenseTotal   float64
	MonthlyNetIncome    float64
	ActiveIncome        float64
	FreeAfterFixed      float64
	MissingIncomeOwners []string
	BankModeEnabled     bool
}

// Resolve picks the active owner set by precedence: the explicit filter if it
// names anyone, otherwise the configured default owners, otherwise the whole
// household (no filtering). Income follows the same set unless bank mode is
// enabled, where the pooled contributions of every profile apply instead.
func Resolve(ownerFilter []string, s settings.Settings, profiles []settings.OwnerProfile, expenses []fixedexpense.FixedExpense) Resolution {
	owners := utils.NormalizeNames(ownerFilter)
	if len(owners) == 0 {
		owners = utils.NormalizeNames(s.DefaultFixedExpensesOwners)
	}

	res := Resolution{
		Owners:              owners,
		MonthlyNetIncome:    s.MonthlyNetIncome,
		MissingIncomeOwners: []string{},
		BankModeEnabled:     s.BankModeEnabled,
	}

	res.FixedExpenses = make([]fixedexpense.FixedExpense, 0, len(expenses))
	for _, e := range expenses {
		if e.OwnedByAny(owners) {
			res.FixedExpenses = append(res.FixedExpenses, e)
			res.FixedExpenseTotal += e.AmountPerMonth
		}
	}

	byName := make(map[string]settings.OwnerProfile, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
	}

	ownerIncome := 0.0
	for _, name := range owners {
		p, ok := byName[name]
		if !ok || p.MonthlyNetIncome == nil {
			res.MissingIncomeOwners = append(res.MissingIncomeOwners, name)
			continue
		}
		ownerIncome += *p.MonthlyNetIncome
	}

	switch {
	case s.BankModeEnabled:
		for _, p := range profiles {
			res.ActiveIncome += p.SharedContribution
		}
	case len(owners) > 0 && len(res.MissingIncomeOwners) == 0:
		res.ActiveIncome = ownerIncome
	default:
		res.ActiveIncome = s.MonthlyNetIncome
	}

	res.FreeAfterFixed = res.ActiveIncome - res.FixedExpenseTotal
	return res
}
