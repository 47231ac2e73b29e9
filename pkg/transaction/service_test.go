package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/budsjett/budsjett/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService() (*ServiceImpl, *event_bus.EventBus) {
	bus := event_bus.NewEventBus()
	return NewService(NewRepositoryStub(), bus), bus
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("stores a valid transaction and publishes an event", func(t *testing.T) {
		service, bus := setupService()
		ctx := context.Background()

		// given
		var published []event_bus.TransactionCreated
		event_bus.SubscribeTyped(bus, event_bus.TransactionCreatedEvent,
			func(e event_bus.EventT[event_bus.TransactionCreated]) error {
				published = append(published, e.Data)
				return nil
			})

		// when
		categoryId := 3
		created, err := service.Create(ctx, Transaction{
			Title:      "Dagligvarer",
			Amount:     450,
			Type:       TypeExpense,
			CategoryID: &categoryId,
			Tags:       []string{"mat"},
			OccurredOn: time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC),
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, created.ID)
		require.Len(t, published, 1)
		assert.Equal(t, "Dagligvarer", published[0].Title)
		require.NotNil(t, published[0].CategoryId)
		assert.Equal(t, categoryId, *published[0].CategoryId)
	})

	t.Run("rejects a blank title", func(t *testing.T) {
		service, _ := setupService()

		_, err := service.Create(context.Background(), Transaction{
			Title:  "  ",
			Amount: 100,
			Type:   TypeExpense,
		})

		assert.ErrorIs(t, err, ErrInvalidTransaction)
	})

	t.Run("rejects a negative amount", func(t *testing.T) {
		service, _ := setupService()

		_, err := service.Create(context.Background(), Transaction{
			Title:  "Feil",
			Amount: -1,
			Type:   TypeExpense,
		})

		assert.ErrorIs(t, err, ErrInvalidTransaction)
	})

	t.Run("accepts a zero amount", func(t *testing.T) {
		service, _ := setupService()

		created, err := service.Create(context.Background(), Transaction{
			Title:  "Gratis prøve",
			Amount: 0,
			Type:   TypeExpense,
		})

		require.NoError(t, err)
		assert.Equal(t, 0.0, created.Amount)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		service, _ := setupService()

		_, err := service.Create(context.Background(), Transaction{
			Title:  "Feil",
			Amount: 10,
			Type:   Type("transfer"),
		})

		assert.ErrorIs(t, err, ErrInvalidTransaction)
	})

	t.Run("normalizes tags", func(t *testing.T) {
		service, _ := setupService()

		created, err := service.Create(context.Background(), Transaction{
			Title:  "Middag",
			Amount: 350,
			Type:   TypeExpense,
			Tags:   []string{" mat ", "mat", "", "uteliv"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"mat", "uteliv"}, created.Tags)
	})

	t.Run("accepts a transaction without a date", func(t *testing.T) {
		service, _ := setupService()

		created, err := service.Create(context.Background(), Transaction{
			Title:  "Ukjent dato",
			Amount: 80,
			Type:   TypeExpense,
		})

		require.NoError(t, err)
		_, hasPeriod := created.Period()
		assert.False(t, hasPeriod)
	})
}

func TestServiceImpl_DeleteAll(t *testing.T) {
	service, bus := setupService()
	ctx := context.Background()

	// given
	cleared := 0
	bus.Subscribe(event_bus.TransactionsClearedEvent, func(e event_bus.Event) error {
		cleared++
		return nil
	})
	for _, title := range []string{"En", "To", "Tre"} {
		_, err := service.Create(ctx, Transaction{Title: title, Amount: 10, Type: TypeExpense})
		require.NoError(t, err)
	}

	// when
	removed, err := service.DeleteAll(ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.Equal(t, 1, cleared)

	remaining, err := service.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
