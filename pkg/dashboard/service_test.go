package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/budsjett/budsjett/internal/utils"
	"github.com/budsjett/budsjett/pkg/category"
	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/page"
	"github.com/budsjett/budsjett/pkg/settings"
	"github.com/budsjett/budsjett/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceImpl_GetSummary(t *testing.T) {
	ctx := context.Background()

	// given
	categoryRepo := category.NewRepositoryStub()
	pageRepo := page.NewRepositoryStub()
	transactionRepo := transaction.NewRepositoryStub()
	expenseRepo := fixedexpense.NewRepositoryStub()
	settingsRepo := settings.NewRepositoryStub()

	matId, err := categoryRepo.Store(ctx, category.Category{Name: "Mat", Color: "#ff0000"})
	require.NoError(t, err)
	_, err = pageRepo.Store(ctx, page.Page{Name: "Ferie"})
	require.NoError(t, err)
	_, err = transactionRepo.Store(ctx, transaction.Transaction{
		Title: "Lønn", Amount: 32000, Type: transaction.TypeIncome, OccurredOn: date(2025, time.May, 25),
	})
	require.NoError(t, err)
	_, err = transactionRepo.Store(ctx, transaction.Transaction{
		Title: "Dagligvarer", Amount: 4500, Type: transaction.TypeExpense,
		CategoryID: &matId, OccurredOn: date(2025, time.June, 2),
	})
	require.NoError(t, err)
	_, err = expenseRepo.Store(ctx, fixedexpense.FixedExpense{
		Name: "Husleie", AmountPerMonth: 9000, Owners: []string{"Kari"},
		Level: fixedexpense.LevelMustHave,
		PriceHistory: []fixedexpense.PriceEntry{{Amount: 9000, ChangedAt: date(2025, time.January, 1)}},
	})
	require.NoError(t, err)
	_, err = expenseRepo.Store(ctx, fixedexpense.FixedExpense{
		Name: "Netflix", AmountPerMonth: 129, Owners: []string{"Ola"},
		Level: fixedexpense.LevelLuxury,
		PriceHistory: []fixedexpense.PriceEntry{{Amount: 129, ChangedAt: date(2025, time.January, 1)}},
	})
	require.NoError(t, err)
	_, err = settingsRepo.StoreProfile(ctx, settings.OwnerProfile{Name: "Kari", MonthlyNetIncome: floatPtr(32000)})
	require.NoError(t, err)
	require.NoError(t, settingsRepo.UpdateSettings(ctx, settings.Settings{MonthlyNetIncome: 60000}))

	service := &ServiceImpl{
		categories:   categoryRepo,
		pages:        pageRepo,
		transactions: transactionRepo,
		expenses:     expenseRepo,
		settings:     settingsRepo,
		clock:        &utils.MockClock{FixedNow: now},
	}

	t.Run("computes the filtered summary", func(t *testing.T) {
		// when
		summary, err := service.GetSummary(ctx, []string{"Kari"})

		// then
		require.NoError(t, err)
		assert.Equal(t, 32000.0, summary.TotalIncome)
		assert.Equal(t, 4500.0, summary.TotalExpense)
		assert.Equal(t, 9000.0, summary.FixedExpenseTotal)
		assert.Equal(t, 32000.0, summary.ActiveMonthlyNetIncome)
		assert.Equal(t, 23000.0, summary.FreeAfterFixed)
		assert.Equal(t, 1, summary.FixedExpensesCount)
	})

	t.Run("falls back to the global income without a filter", func(t *testing.T) {
		summary, err := service.GetSummary(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, 9129.0, summary.FixedExpenseTotal)
		assert.Equal(t, 60000.0, summary.ActiveMonthlyNetIncome)
	})
}
