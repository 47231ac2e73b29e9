package dashboard

import (
	"testing"

	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/settings"
	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 {
	return &f
}

func expenseFixture(name string, amount float64, owners ...string) fixedexpense.FixedExpense {
	return fixedexpense.FixedExpense{
		Name:           name,
		AmountPerMonth: amount,
		Owners:         owners,
		Level:          fixedexpense.LevelMustHave,
	}
}

func TestResolve_OwnerPrecedence(t *testing.T) {
	expenses := []fixedexpense.FixedExpense{
		expenseFixture("Strøm", 1000, "Kari"),
		expenseFixture("Netflix", 129, "Ola"),
		expenseFixture("Husleie", 9000, "Kari", "Ola"),
		expenseFixture("Felleskostnader", 500),
	}

	t.Run("an explicit filter wins over the defaults", func(t *testing.T) {
		s := settings.Settings{DefaultFixedExpensesOwners: []string{"Ola"}}

		res := Resolve([]string{"Kari"}, s, nil, expenses)

		assert.Equal(t, []string{"Kari"}, res.Owners)
		assert.Equal(t, 10000.0, res.FixedExpenseTotal)
	})

	t.Run("the default owners apply when the filter is empty", func(t *testing.T) {
		s := settings.Settings{DefaultFixedExpensesOwners: []string{"Ola"}}

		res := Resolve(nil, s, nil, expenses)

		assert.Equal(t, []string{"Ola"}, res.Owners)
		assert.Equal(t, 9129.0, res.FixedExpenseTotal)
	})

	t.Run("no filter and no defaults means every expense counts", func(t *testing.T) {
		res := Resolve(nil, settings.Settings{}, nil, expenses)

		assert.Empty(t, res.Owners)
		assert.Equal(t, 10629.0, res.FixedExpenseTotal)
	})

	t.Run("an expense without owners only counts when no owner set is active", func(t *testing.T) {
		res := Resolve([]string{"Ola"}, settings.Settings{}, nil, expenses)

		assert.Equal(t, 9129.0, res.FixedExpenseTotal)
	})

	t.Run("widening the filter never shrinks the total", func(t *testing.T) {
		narrow := Resolve([]string{"Ola"}, settings.Settings{}, nil, expenses)
		wide := Resolve([]string{"Ola", "Kari"}, settings.Settings{}, nil, expenses)

		assert.GreaterOrEqual(t, wide.FixedExpenseTotal, narrow.FixedExpenseTotal)
	})
}

func TestResolve_ActiveIncome(t *testing.T) {
	profiles := []settings.OwnerProfile{
		{ID: 1, Name: "Kari", MonthlyNetIncome: floatPtr(32000), SharedContribution: 15000},
		{ID: 2, Name: "Ola", MonthlyNetIncome: floatPtr(28000), SharedContribution: 12000},
	}

	t.Run("sums the filtered owners' incomes", func(t *testing.T) {
		res := Resolve([]string{"Kari"}, settings.Settings{MonthlyNetIncome: 50000}, profiles, nil)

		assert.Equal(t, 32000.0, res.ActiveIncome)
		assert.Empty(t, res.MissingIncomeOwners)
	})

	t.Run("falls back to the global income when no owners are active", func(t *testing.T) {
		res := Resolve(nil, settings.Settings{MonthlyNetIncome: 50000}, profiles, nil)

		assert.Equal(t, 50000.0, res.ActiveIncome)
	})

	t.Run("reports owners without a profile and falls back", func(t *testing.T) {
		res := Resolve([]string{"Kari", "Per"}, settings.Settings{MonthlyNetIncome: 50000}, profiles, nil)

		assert.Equal(t, []string{"Per"}, res.MissingIncomeOwners)
		assert.Equal(t, 50000.0, res.ActiveIncome)
	})

	t.Run("reports owners whose profile has no income", func(t *testing.T) {
		withUnknown := append(profiles, settings.OwnerProfile{ID: 3, Name: "Per"})

		res := Resolve([]string{"Kari", "Per"}, settings.Settings{MonthlyNetIncome: 50000}, withUnknown, nil)

		assert.Equal(t, []string{"Per"}, res.MissingIncomeOwners)
		assert.Equal(t, 50000.0, res.ActiveIncome)
	})

	t.Run("treats a zero income as defined", func(t *testing.T) {
		withZero := append(profiles, settings.OwnerProfile{ID: 3, Name: "Per", MonthlyNetIncome: floatPtr(0)})

		res := Resolve([]string{"Kari", "Per"}, settings.Settings{MonthlyNetIncome: 50000}, withZero, nil)

		assert.Empty(t, res.MissingIncomeOwners)
		assert.Equal(t, 32000.0, res.ActiveIncome)
	})

	t.Run("bank mode pools every profile's contribution regardless of filter", func(t *testing.T) {
		s := settings.Settings{MonthlyNetIncome: 50000, BankModeEnabled: true}

		res := Resolve([]string{"Kari"}, s, profiles, nil)

		assert.Equal(t, 27000.0, res.ActiveIncome)
	})

	t.Run("computes free cash after fixed costs", func(t *testing.T) {
		expenses := []fixedexpense.FixedExpense{expenseFixture("Husleie", 9000, "Kari")}

		res := Resolve([]string{"Kari"}, settings.Settings{}, profiles, expenses)

		assert.Equal(t, 23000.0, res.FreeAfterFixed)
	})
}
