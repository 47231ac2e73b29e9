package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type Repository interface {
	// ReplaceAll swaps out the entire store for the given record set in a
	// single transaction.
	ReplaceAll(ctx context.Context, store Store) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const timeLayout = time.RFC3339

func (r *RepositoryImpl) ReplaceAll(ctx context.Context, store Store) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	tables := []string{
		"fixed_expense_price_history",
		"fixed_expenses",
		"transactions",
		"categories",
		"pages",
		"owner_profiles",
	}
	for _, table := range tables {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for _, c := range store.Categories {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO categories (id, name, color) VALUES ($1, $2, $3)",
			c.ID, c.Name, c.Color)
		if err != nil {
			return err
		}
	}

	for _, p := range store.Pages {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO pages (id, name) VALUES ($1, $2)",
			p.ID, p.Name)
		if err != nil {
			return err
		}
	}

	for _, t := range store.Transactions {
		var tags, metadata []byte
		if tags, err = json.Marshal(emptyIfNil(t.Tags)); err != nil {
			return err
		}
		if metadata, err = json.Marshal(nonNilMap(t.Metadata)); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (id, title, amount, type, category_id, page_id, tags, occurred_on, notes, metadata)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			t.ID, t.Title, t.Amount, string(t.Type), t.CategoryID, t.PageID,
			string(tags), dateParam(t.OccurredOn), t.Notes, string(metadata))
		if err != nil {
			return err
		}
	}

	for _, e := range store.FixedExpenses {
		var owners []byte
		if owners, err = json.Marshal(emptyIfNil(e.Owners)); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO fixed_expenses (id, name, amount_per_month, category, owners, level, start_date, binding_end_date, notice_period_months, note, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			e.ID, e.Name, e.AmountPerMonth, e.Category, string(owners), string(e.Level),
			dateParam(e.StartDate), dateParam(e.BindingEndDate), e.NoticePeriodMonths,
			e.Note, e.CreatedAt.Format(timeLayout), e.UpdatedAt.Format(timeLayout))
		if err != nil {
			return err
		}
		for position, entry := range e.PriceHistory {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO fixed_expense_price_history (expense_id, position, amount, changed_at) VALUES ($1, $2, $3, $4)",
				e.ID, position, entry.Amount, entry.ChangedAt.Format(timeLayout))
			if err != nil {
				return err
			}
		}
	}

	for _, p := range store.Profiles {
		var contributions []byte
		if contributions, err = json.Marshal(nonNilContributions(p.BankContributions)); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO owner_profiles (id, name, monthly_net_income, shared_contribution, bank_contributions)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.Name, p.MonthlyNetIncome, p.SharedContribution, string(contributions))
		if err != nil {
			return err
		}
	}

	var defaultOwners, bankAccounts []byte
	if defaultOwners, err = json.Marshal(emptyIfNil(store.Settings.DefaultFixedExpensesOwners)); err != nil {
		return err
	}
	if bankAccounts, err = json.Marshal(emptyIfNil(store.Settings.BankAccounts)); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE settings SET monthly_net_income = $1, default_owners = $2, bank_mode_enabled = $3, bank_accounts = $4, lock_enabled = $5, lock_code = $6 WHERE id = 1`,
		store.Settings.MonthlyNetIncome, string(defaultOwners), boolParam(store.Settings.BankModeEnabled),
		string(bankAccounts), boolParam(store.Settings.LockEnabled), store.Settings.LockCode)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func dateParam(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format("2006-01-02")
}

func boolParam(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilContributions(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}
