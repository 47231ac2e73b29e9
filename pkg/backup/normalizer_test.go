package backup

import (
	"testing"
	"time"

	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importedAt = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func TestNormalize_FixedExpenseAliases(t *testing.T) {
	t.Run("accepts legacy eier and eiere fields", func(t *testing.T) {
		doc := []byte(`{"fixedExpenses": [
			{"navn": "Husleie", "belop": 9000, "eier": ["Kari"]},
			{"name": "Strøm", "amountPerMonth": 1200, "eiere": ["Kari", "Ola"]}
		]}`)

		store, err := Normalize(doc, importedAt)

		require.NoError(t, err)
		require.Len(t, store.FixedExpenses, 2)
		assert.Equal(t, "Husleie", store.FixedExpenses[0].Name)
		assert.Equal(t, 9000.0, store.FixedExpenses[0].AmountPerMonth)
		assert.Equal(t, []string{"Kari"}, store.FixedExpenses[0].Owners)
		assert.Equal(t, []string{"Kari", "Ola"}, store.FixedExpenses[1].Owners)
	})

	t.Run("accepts owners as a comma-separated string", func(t *testing.T) {
		doc := []byte(`{"fixedExpenses": [{"name": "Husleie", "amount": 9000, "owners": "Kari, Ola,, Kari"}]}`)

		store, err := Normalize(doc, importedAt)

		require.NoError(t, err)
		require.Len(t, store.FixedExpenses, 1)
		assert.Equal(t, []string{"Kari", "Ola"}, store.FixedExpenses[0].Owners)
	})

	t.Run("accepts amounts as numeric strings", func(t *testing.T) {
		doc := []byte(`{"fixedExpenses": [{"name": "Husleie", "amount": "9000,50"}]}`)

		store, err := Normalize(doc, importedAt)

		require.NoError(t, err)
		assert.Equal(t, 9000.5, store.FixedExpenses[0].AmountPerMonth)
	})

	t.Run("rejects a non-numeric amount", func(t *testing.T) {
		doc := []byte(`{"fixedExpenses": [{"name": "Husleie", "amount": "mye"}]}`)

		_, err := Normalize(doc, importedAt)

		assert.Error(t, err)
	})

	t.Run("defaults a missing level", func(t *testing.T) {
		doc := []byte(`{"fixedExpenses": [{"name": "Husleie", "amount": 9000}]}`)

		store, err := Normalize(doc, importedAt)

		require.NoError(t, err)
		assert.Equal(t, fixedexpense.LevelNiceToHave, store.FixedExpenses[0].Level)
	})

	t.Run("rejects an unknown level", func(t *testing.T) {
		doc := []byte(`{"fixedExpenses": [{"name": "Husleie", "amount": 9000, "level": "Helt nødvendig"}]}`)

		_, err := Normalize(doc, importedAt)

		assert.Error(t, err)
	})
}

func TestNormalize_PriceHistory(t *testing.T) {
	t.Run("repairs an out-of-order noisy history", func(t *testing.T) {
		doc := []byte(`{"fixedExpenses": [{
			"name": "Strøm", "amount": 1400,
			"priceHistory": [
				{"amount": 1200, "changedAt": "2025-03-01"},
				{"amount": 1000, "changedAt": "2025-01-01"},
				{"amount": "ugyldig", "changedAt": "2025-02-01"},
				{"amount": 1200, "changedAt": "ikke en dato"}
			]
		}]}`)

		store, err := Normalize(doc, importedAt)

		require.NoError(t, err)
		history := store.FixedExpenses[0].PriceHistory
		require.Len(t, history, 3)
		assert.Equal(t, 1000.0, history[0].Amount)
		assert.Equal(t, 1200.0, history[1].Amount)
		// Synthetic trailing entry reconciles the declared amount
		assert.Equal(t, 1400.0, history[2].Amount)
		assert.Equal(t, importedAt, history[2].ChangedAt)
	})

	t.Run("seeds a missing history", func(t *testing.T) {
		doc := []byte(`{"fixedExpenses": [{"name": "Strøm", "amount": 1400}]}`)

		store, err := Normalize(doc, importedAt)

		require.NoError(t, err)
		history := store.FixedExpenses[0].PriceHistory
		require.Len(t, history, 1)
		assert.Equal(t, 1400.0, history[0].Amount)
	})
}

func TestNormalize_Transactions(t *testing.T) {
	t.Run("assigns positional ids where missing", func(t *testing.T) {
		doc := []byte(`{"transactions": [
			{"title": "En", "amount": 10, "type": "expense"},
			{"title": "To", "amount": 20, "type": "expense", "id": 7},
			{"title": "Tre", "amount": 30, "type": "expense"}
		]}`)

		store, err := Normalize(doc, importedAt)

		require.NoError(t, err)
		assert.Equal(t, 1, store.Transactions[0].ID)
		assert.Equal(t, 7, store.Transactions[1].ID)
		assert.Equal(t, 3, store.Transactions[2].ID)
	})

	t.Run("parses several date spellings", func(t *testing.T) {
		doc := []byte(`{"transactions": [
			{"title": "ISO", "amount": 10, "type": "expense", "occurredOn": "2025-06-12"},
			{"title": "Norsk", "amount": 10, "type": "expense", "dato": "12.06.2025"},
			{"title": "Tidsstempel", "amount": 10, "type": "expense", "date": "2025-06-12T14:30:00Z"}
		]}`)

		store, err := Normalize(doc, importedAt)

		require.NoError(t, err)
		for _, tr := range store.Transactions {
			period, ok := tr.Period()
			require.True(t, ok, tr.Title)
			assert.Equal(t, "2025-06", period)
		}
	})

	t.Run("defaults a missing type to expense", func(t *testing.T) {
		doc := []byte(`{"transactions": [{"title": "Mat", "amount": 10}]}`)

		store, err := Normalize(doc, importedAt)

		require.NoError(t, err)
		assert.Equal(t, transaction.TypeExpense, store.Transactions[0].Type)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		doc := []byte(`{"transactions": [{"title": "Mat", "amount": 10, "type": "overføring"}]}`)

		_, err := Normalize(doc, importedAt)

		assert.Error(t, err)
	})
}

func TestNormalize_SettingsAndProfiles(t *testing.T) {
	t.Run("normalizes the default owner list", func(t *testing.T) {
		doc := []byte(`{"settings": {"monthlyNetIncome": 52000, "defaultOwners": " Kari , Ola, Kari "}}`)

		store, err := Normalize(doc, importedAt)

		require.NoError(t, err)
		assert.Equal(t, 52000.0, store.Settings.MonthlyNetIncome)
		assert.Equal(t, []string{"Kari", "Ola"}, store.Settings.DefaultFixedExpensesOwners)
	})

	t.Run("keeps an absent income distinct from zero", func(t *testing.T) {
		doc := []byte(`{"ownerProfiles": [
			{"name": "Kari", "monthlyNetIncome": 0},
			{"name": "Ola"}
		]}`)

		store, err := Normalize(doc, importedAt)

		require.NoError(t, err)
		require.NotNil(t, store.Profiles[0].MonthlyNetIncome)
		assert.Equal(t, 0.0, *store.Profiles[0].MonthlyNetIncome)
		assert.Nil(t, store.Profiles[1].MonthlyNetIncome)
	})

	t.Run("rejects a malformed document", func(t *testing.T) {
		_, err := Normalize([]byte(`{"transactions": [`), importedAt)

		assert.Error(t, err)
	})
}
