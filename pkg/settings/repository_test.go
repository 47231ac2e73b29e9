package settings

import (
	"context"
	"testing"
	"time"

	"github.com/budsjett/budsjett/internal/test_utils"
	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importTime = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

func TestRepositoryImpl_Settings(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("reads the seeded defaults", func(t *testing.T) {
		settings, err := repo.GetSettings(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0.0, settings.MonthlyNetIncome)
		assert.Empty(t, settings.DefaultFixedExpensesOwners)
		assert.False(t, settings.BankModeEnabled)
	})

	t.Run("round-trips an update", func(t *testing.T) {
		err := repo.UpdateSettings(ctx, Settings{
			MonthlyNetIncome:           52000,
			DefaultFixedExpensesOwners: []string{"Kari", "Ola"},
			BankModeEnabled:            true,
			BankAccounts:               []string{"Felles"},
			LockEnabled:                true,
			LockCode:                   "1234",
		})
		require.NoError(t, err)

		settings, err := repo.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, 52000.0, settings.MonthlyNetIncome)
		assert.Equal(t, []string{"Kari", "Ola"}, settings.DefaultFixedExpensesOwners)
		assert.True(t, settings.BankModeEnabled)
		assert.Equal(t, []string{"Felles"}, settings.BankAccounts)
		assert.True(t, settings.LockEnabled)
		assert.Equal(t, "1234", settings.LockCode)
	})
}

func TestRepositoryImpl_Profiles(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	income := 32000.0
	id, err := repo.StoreProfile(ctx, OwnerProfile{
		Name:               "Kari",
		MonthlyNetIncome:   &income,
		SharedContribution: 15000,
		BankContributions:  map[string]float64{"Felles": 12000},
	})
	require.NoError(t, err)

	stored, err := repo.GetProfileById(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.MonthlyNetIncome)
	assert.Equal(t, 32000.0, *stored.MonthlyNetIncome)
	assert.Equal(t, map[string]float64{"Felles": 12000}, stored.BankContributions)

	// An undefined income stays NULL, distinct from zero
	id2, err := repo.StoreProfile(ctx, OwnerProfile{Name: "Ola"})
	require.NoError(t, err)
	stored2, err := repo.GetProfileById(ctx, id2)
	require.NoError(t, err)
	require.NotNil(t, stored2)
	assert.Nil(t, stored2.MonthlyNetIncome)
}

func TestRepositoryImpl_OwnerCascade(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	expenseRepo := fixedexpense.NewRepository(db)
	ctx := context.Background()

	seed := func(t *testing.T) (int, int) {
		t.Helper()
		_, err := db.Exec("DELETE FROM fixed_expense_price_history")
		require.NoError(t, err)
		_, err = db.Exec("DELETE FROM fixed_expenses")
		require.NoError(t, err)
		_, err = db.Exec("DELETE FROM owner_profiles")
		require.NoError(t, err)

		profileId, err := repo.StoreProfile(ctx, OwnerProfile{Name: "Kari"})
		require.NoError(t, err)
		require.NoError(t, repo.UpdateSettings(ctx, Settings{
			DefaultFixedExpensesOwners: []string{"Kari", "Ola"},
		}))
		expenseId, err := expenseRepo.Store(ctx, fixedexpense.FixedExpense{
			Name:           "Husleie",
			AmountPerMonth: 9000,
			Owners:         []string{"Kari", "Ola"},
			Level:          fixedexpense.LevelMustHave,
			PriceHistory:   fixedexpense.SeedHistory(9000, importTime),
			CreatedAt:      importTime,
			UpdatedAt:      importTime,
		})
		require.NoError(t, err)
		return profileId, expenseId
	}

	t.Run("rename rewrites profiles, defaults, and expenses", func(t *testing.T) {
		_, expenseId := seed(t)

		err := repo.RenameOwner(ctx, "Kari", "Karianne")
		require.NoError(t, err)

		profiles, err := repo.GetProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, profiles, 1)
		assert.Equal(t, "Karianne", profiles[0].Name)

		settings, err := repo.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Karianne", "Ola"}, settings.DefaultFixedExpensesOwners)

		expense, err := expenseRepo.GetById(ctx, expenseId)
		require.NoError(t, err)
		require.NotNil(t, expense)
		assert.Equal(t, []string{"Karianne", "Ola"}, expense.Owners)
	})

	t.Run("remove strips the owner everywhere", func(t *testing.T) {
		_, expenseId := seed(t)

		err := repo.RemoveOwner(ctx, "Kari")
		require.NoError(t, err)

		profiles, err := repo.GetProfiles(ctx)
		require.NoError(t, err)
		assert.Empty(t, profiles)

		settings, err := repo.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ola"}, settings.DefaultFixedExpensesOwners)

		expense, err := expenseRepo.GetById(ctx, expenseId)
		require.NoError(t, err)
		require.NotNil(t, expense)
		assert.Equal(t, []string{"Ola"}, expense.Owners)
	})

	t.Run("renaming to an existing owner name merges without duplicates", func(t *testing.T) {
		_, expenseId := seed(t)

		err := repo.RenameOwner(ctx, "Kari", "Ola")
		require.NoError(t, err)

		expense, err := expenseRepo.GetById(ctx, expenseId)
		require.NoError(t, err)
		require.NotNil(t, expense)
		assert.Equal(t, []string{"Ola"}, expense.Owners)
	})
}
