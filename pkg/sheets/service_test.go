package sheets

import (
	"context"
	"testing"
	"time"

	"github.com/budsjett/budsjett/internal/event_bus"
	"github.com/budsjett/budsjett/pkg/category"
	"github.com/budsjett/budsjett/pkg/page"
	"github.com/budsjett/budsjett/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writerStub struct {
	appended [][]any
	replaced [][][]any
}

func (w *writerStub) AppendRow(_ context.Context, row []any) error {
	w.appended = append(w.appended, row)
	return nil
}

func (w *writerStub) ReplaceAll(_ context.Context, rows [][]any) error {
	w.replaced = append(w.replaced, rows)
	return nil
}

func TestServiceImpl_Subscribe(t *testing.T) {
	writer := &writerStub{}
	bus := event_bus.NewEventBus()
	transactionRepo := transaction.NewRepositoryStub()
	categoryRepo := category.NewRepositoryStub()
	service := NewService(writer, transactionRepo, categoryRepo, page.NewRepositoryStub())
	service.Subscribe(bus)

	categoryId, err := categoryRepo.Store(context.Background(), category.Category{Name: "Mat"})
	require.NoError(t, err)

	t.Run("mirrors created transactions with resolved names", func(t *testing.T) {
		err := bus.Publish(event_bus.NewEvent(context.Background(), event_bus.TransactionCreatedEvent,
			event_bus.TransactionCreated{
				Id:         1,
				Title:      "Dagligvarer",
				Amount:     450,
				Type:       "expense",
				CategoryId: &categoryId,
				Tags:       []string{"mat", "helg"},
				OccurredOn: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
			}))

		require.NoError(t, err)
		require.Len(t, writer.appended, 1)
		assert.Equal(t, []any{"2025-06-02", "Dagligvarer", "expense", 450.0, "Mat", "", "mat, helg"}, writer.appended[0])
	})

	t.Run("mirrors an unresolvable reference as an empty cell", func(t *testing.T) {
		unknown := 42
		err := bus.Publish(event_bus.NewEvent(context.Background(), event_bus.TransactionCreatedEvent,
			event_bus.TransactionCreated{
				Id:         2,
				Title:      "Ukjent",
				Amount:     100,
				Type:       "expense",
				CategoryId: &unknown,
			}))

		require.NoError(t, err)
		require.Len(t, writer.appended, 2)
		assert.Equal(t, "", writer.appended[1][4])
	})

	t.Run("resyncs after a store replacement", func(t *testing.T) {
		_, err := transactionRepo.Store(context.Background(), transaction.Transaction{
			Title: "Husleie", Amount: 9000, Type: transaction.TypeExpense,
		})
		require.NoError(t, err)

		err = bus.Publish(event_bus.NewEvent(context.Background(), event_bus.StoreReplacedEvent,
			event_bus.StoreReplaced{Transactions: 1}))

		require.NoError(t, err)
		require.Len(t, writer.replaced, 1)
		// Header plus one transaction row
		assert.Len(t, writer.replaced[0], 2)
	})
}

func TestServiceImpl_Disabled(t *testing.T) {
	service := NewService(nil, transaction.NewRepositoryStub(), category.NewRepositoryStub(), page.NewRepositoryStub())

	assert.False(t, service.Enabled())
	assert.Error(t, service.SyncAll(context.Background()))
}
