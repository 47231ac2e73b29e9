package category

import (
	"context"
	"testing"

	"github.com/budsjett/budsjett/internal/test_utils"
	"github.com/budsjett/budsjett/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryImpl_DeleteClearsTransactionReferences(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	transactionRepo := transaction.NewRepository(db)
	ctx := context.Background()

	// given
	categoryId, err := repo.Store(ctx, Category{Name: "Mat", Color: "#ff0000"})
	require.NoError(t, err)
	transactionId, err := transactionRepo.Store(ctx, transaction.Transaction{
		Title:      "Dagligvarer",
		Amount:     450,
		Type:       transaction.TypeExpense,
		CategoryID: &categoryId,
	})
	require.NoError(t, err)

	// when
	deleted, err := repo.Delete(ctx, categoryId)

	// then
	require.NoError(t, err)
	assert.True(t, deleted)

	transactions, err := transactionRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, transactionId, transactions[0].ID)
	assert.Nil(t, transactions[0].CategoryID)
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("trims the name", func(t *testing.T) {
		service := NewService(NewRepositoryStub())

		created, err := service.Create(context.Background(), Category{Name: "  Mat  "})

		require.NoError(t, err)
		assert.Equal(t, "Mat", created.Name)
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		service := NewService(NewRepositoryStub())

		_, err := service.Create(context.Background(), Category{Name: "   "})

		assert.ErrorIs(t, err, ErrInvalidCategory)
	})
}
