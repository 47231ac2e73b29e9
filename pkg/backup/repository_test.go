package backup

import (
	"context"
	"testing"
	"time"

	"github.com/budsjett/budsjett/internal/test_utils"
	"github.com/budsjett/budsjett/pkg/category"
	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/page"
	"github.com/budsjett/budsjett/pkg/settings"
	"github.com/budsjett/budsjett/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryImpl_ReplaceAll(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	categoryRepo := category.NewRepository(db)
	transactionRepo := transaction.NewRepository(db)
	expenseRepo := fixedexpense.NewRepository(db)
	settingsRepo := settings.NewRepository(db)
	ctx := context.Background()

	// given: pre-existing data that the import must fully replace
	_, err := categoryRepo.Store(ctx, category.Category{Name: "Gammel"})
	require.NoError(t, err)
	_, err = transactionRepo.Store(ctx, transaction.Transaction{
		Title: "Gammel", Amount: 1, Type: transaction.TypeExpense,
	})
	require.NoError(t, err)

	created := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	income := 32000.0
	catId := 3
	store := Store{
		Categories: []category.Category{{ID: 3, Name: "Mat", Color: "#ff0000"}},
		Pages:      []page.Page{{ID: 1, Name: "Ferie"}},
		Transactions: []transaction.Transaction{
			{
				ID: 5, Title: "Dagligvarer", Amount: 450, Type: transaction.TypeExpense,
				CategoryID: &catId, Tags: []string{"mat"},
				OccurredOn: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
			},
		},
		FixedExpenses: []fixedexpense.FixedExpense{
			{
				ID: 2, Name: "Husleie", AmountPerMonth: 9000,
				Owners: []string{"Kari"}, Level: fixedexpense.LevelMustHave,
				PriceHistory: []fixedexpense.PriceEntry{
					{Amount: 8500, ChangedAt: created},
					{Amount: 9000, ChangedAt: created.AddDate(0, 3, 0)},
				},
				CreatedAt: created, UpdatedAt: created,
			},
		},
		Profiles: []settings.OwnerProfile{
			{ID: 1, Name: "Kari", MonthlyNetIncome: &income, SharedContribution: 15000},
		},
		Settings: settings.Settings{
			MonthlyNetIncome:           52000,
			DefaultFixedExpensesOwners: []string{"Kari"},
		},
	}

	// when
	err = repo.ReplaceAll(ctx, store)

	// then
	require.NoError(t, err)

	categories, err := categoryRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Mat", categories[0].Name)

	transactions, err := transactionRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, 5, transactions[0].ID)
	assert.Equal(t, []string{"mat"}, transactions[0].Tags)

	expenses, err := expenseRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, 2, expenses[0].ID)
	assert.Len(t, expenses[0].PriceHistory, 2)

	storedSettings, err := settingsRepo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 52000.0, storedSettings.MonthlyNetIncome)

	// Imported ids drive the next allocation: max(existing)+1
	newId, err := transactionRepo.Store(ctx, transaction.Transaction{
		Title: "Ny", Amount: 10, Type: transaction.TypeExpense,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, newId)
}

func TestRepositoryImpl_ReplaceAllRollsBackOnFailure(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	categoryRepo := category.NewRepository(db)
	ctx := context.Background()

	_, err := categoryRepo.Store(ctx, category.Category{Name: "Beholdes"})
	require.NoError(t, err)

	// Duplicate primary keys make the insert fail midway
	err = repo.ReplaceAll(ctx, Store{
		Categories: []category.Category{
			{ID: 1, Name: "A"},
			{ID: 1, Name: "B"},
		},
	})

	require.Error(t, err)
	categories, err := categoryRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Beholdes", categories[0].Name)
}
