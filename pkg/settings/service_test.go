package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("normalizes default owners and bank accounts", func(t *testing.T) {
		service := NewService(NewRepositoryStub())

		updated, err := service.Update(context.Background(), Settings{
			MonthlyNetIncome:           52000,
			DefaultFixedExpensesOwners: []string{" Kari ", "Kari", "", "Ola"},
			BankAccounts:               []string{"Felles", "Felles"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"Kari", "Ola"}, updated.DefaultFixedExpensesOwners)
		assert.Equal(t, []string{"Felles"}, updated.BankAccounts)
	})

	t.Run("rejects a negative income", func(t *testing.T) {
		service := NewService(NewRepositoryStub())

		_, err := service.Update(context.Background(), Settings{MonthlyNetIncome: -1})

		assert.ErrorIs(t, err, ErrInvalidSettings)
	})
}

func TestServiceImpl_CreateProfile(t *testing.T) {
	t.Run("rejects a duplicate name", func(t *testing.T) {
		service := NewService(NewRepositoryStub())
		ctx := context.Background()

		// given
		_, err := service.CreateProfile(ctx, OwnerProfile{Name: "Kari"})
		require.NoError(t, err)

		// when
		_, err = service.CreateProfile(ctx, OwnerProfile{Name: " Kari "})

		// then
		assert.ErrorIs(t, err, ErrInvalidProfile)
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		service := NewService(NewRepositoryStub())

		_, err := service.CreateProfile(context.Background(), OwnerProfile{Name: "  "})

		assert.ErrorIs(t, err, ErrInvalidProfile)
	})

	t.Run("keeps an undefined income distinct from zero", func(t *testing.T) {
		service := NewService(NewRepositoryStub())
		ctx := context.Background()

		noIncome, err := service.CreateProfile(ctx, OwnerProfile{Name: "Kari"})
		require.NoError(t, err)
		zeroIncome, err := service.CreateProfile(ctx, OwnerProfile{Name: "Ola", MonthlyNetIncome: floatPtr(0)})
		require.NoError(t, err)

		assert.Nil(t, noIncome.MonthlyNetIncome)
		require.NotNil(t, zeroIncome.MonthlyNetIncome)
		assert.Equal(t, 0.0, *zeroIncome.MonthlyNetIncome)
	})
}

func TestServiceImpl_RenameOwner(t *testing.T) {
	t.Run("cascades the new name into expenses and defaults", func(t *testing.T) {
		repo := NewRepositoryStub()
		service := NewService(repo)
		ctx := context.Background()

		// given
		profile, err := service.CreateProfile(ctx, OwnerProfile{Name: "Kari", MonthlyNetIncome: floatPtr(30000)})
		require.NoError(t, err)
		_, err = service.Update(ctx, Settings{DefaultFixedExpensesOwners: []string{"Kari", "Ola"}})
		require.NoError(t, err)
		repo.ExpenseOwners[1] = []string{"Kari", "Ola"}
		repo.ExpenseOwners[2] = []string{"Ola"}

		// when
		err = service.RenameOwner(ctx, profile.ID, "Karianne")

		// then
		require.NoError(t, err)
		renamed, err := service.GetProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, renamed, 1)
		assert.Equal(t, "Karianne", renamed[0].Name)

		settings, err := service.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Karianne", "Ola"}, settings.DefaultFixedExpensesOwners)
		assert.Equal(t, []string{"Karianne", "Ola"}, repo.ExpenseOwners[1])
		assert.Equal(t, []string{"Ola"}, repo.ExpenseOwners[2])
	})

	t.Run("rejects renaming to an existing name", func(t *testing.T) {
		service := NewService(NewRepositoryStub())
		ctx := context.Background()

		kari, err := service.CreateProfile(ctx, OwnerProfile{Name: "Kari"})
		require.NoError(t, err)
		_, err = service.CreateProfile(ctx, OwnerProfile{Name: "Ola"})
		require.NoError(t, err)

		err = service.RenameOwner(ctx, kari.ID, "Ola")

		assert.ErrorIs(t, err, ErrInvalidProfile)
	})

	t.Run("fails for an unknown profile", func(t *testing.T) {
		service := NewService(NewRepositoryStub())

		err := service.RenameOwner(context.Background(), 42, "Ny")

		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestServiceImpl_UpdateProfile(t *testing.T) {
	t.Run("a name change cascades like a rename", func(t *testing.T) {
		repo := NewRepositoryStub()
		service := NewService(repo)
		ctx := context.Background()

		profile, err := service.CreateProfile(ctx, OwnerProfile{Name: "Kari"})
		require.NoError(t, err)
		repo.ExpenseOwners[1] = []string{"Kari"}

		profile.Name = "Karianne"
		profile.SharedContribution = 12000
		updated, err := service.UpdateProfile(ctx, profile)

		require.NoError(t, err)
		assert.True(t, updated)
		assert.Equal(t, []string{"Karianne"}, repo.ExpenseOwners[1])
	})
}

func TestServiceImpl_DeleteOwner(t *testing.T) {
	repo := NewRepositoryStub()
	service := NewService(repo)
	ctx := context.Background()

	// given
	profile, err := service.CreateProfile(ctx, OwnerProfile{Name: "Kari"})
	require.NoError(t, err)
	_, err = service.Update(ctx, Settings{DefaultFixedExpensesOwners: []string{"Kari", "Ola"}})
	require.NoError(t, err)
	repo.ExpenseOwners[1] = []string{"Kari", "Ola"}

	// when
	err = service.DeleteOwner(ctx, profile.ID)

	// then
	require.NoError(t, err)
	profiles, err := service.GetProfiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles)

	settings, err := service.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ola"}, settings.DefaultFixedExpensesOwners)
	assert.Equal(t, []string{"Ola"}, repo.ExpenseOwners[1])
}
