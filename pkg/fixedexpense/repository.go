package fixedexpense

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, e FixedExpense) (int, error)
	GetAll(ctx context.Context) ([]FixedExpense, error)
	GetById(ctx context.Context, id int) (*FixedExpense, error)
	// Update rewrites the expense row and its full price history
	Update(ctx context.Context, e FixedExpense) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const timeLayout = time.RFC3339

func (r *RepositoryImpl) Store(ctx context.Context, e FixedExpense) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %v", err)
		log.Error(err)
		return 0, err
	}
	defer tx.Rollback()

	var id int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM fixed_expenses").Scan(&id); err != nil {
		err := fmt.Errorf("could not allocate fixed expense id: %v", err)
		log.Error(err)
		return 0, err
	}

	owners, err := json.Marshal(normalizedOwners(e))
	if err != nil {
		return 0, fmt.Errorf("could not encode owners: %v", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO fixed_expenses (id, name, amount_per_month, category, owners, level, start_date,
		 binding_end_date, notice_period_months, note, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, e.Name, e.AmountPerMonth, e.Category, string(owners), string(e.Level),
		dateParam(e.StartDate), dateParam(e.BindingEndDate), e.NoticePeriodMonths, e.Note,
		e.CreatedAt.Format(timeLayout), e.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return 0, err
	}

	if err := insertHistory(ctx, tx, id, e.PriceHistory); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %v", err)
	}
	return id, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]FixedExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, amount_per_month, category, owners, level, start_date, binding_end_date,
		 notice_period_months, note, created_at, updated_at FROM fixed_expenses ORDER BY id`)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	expenses := make([]FixedExpense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	histories, err := r.loadHistories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i].PriceHistory = histories[expenses[i].ID]
	}
	return expenses, nil
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*FixedExpense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, amount_per_month, category, owners, level, start_date, binding_end_date,
		 notice_period_months, note, created_at, updated_at FROM fixed_expenses WHERE id = $1`, id)

	e, err := scanExpense(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	history, err := r.loadHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	e.PriceHistory = history
	return e, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, e FixedExpense) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %v", err)
		log.Error(err)
		return false, err
	}
	defer tx.Rollback()

	owners, err := json.Marshal(normalizedOwners(e))
	if err != nil {
		return false, fmt.Errorf("could not encode owners: %v", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE fixed_expenses SET name = $1, amount_per_month = $2, category = $3, owners = $4, level = $5,
		 start_date = $6, binding_end_date = $7, notice_period_months = $8, note = $9, updated_at = $10
		 WHERE id = $11`,
		e.Name, e.AmountPerMonth, e.Category, string(owners), string(e.Level),
		dateParam(e.StartDate), dateParam(e.BindingEndDate), e.NoticePeriodMonths, e.Note,
		e.UpdatedAt.Format(timeLayout), e.ID,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get affected rows: %v", err)
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM fixed_expense_price_history WHERE expense_id = $1", e.ID); err != nil {
		err := fmt.Errorf("could not clear price history: %v", err)
		log.Error(err)
		return false, err
	}
	if err := insertHistory(ctx, tx, e.ID, e.PriceHistory); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("could not commit transaction: %v", err)
	}
	return true, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %v", err)
		log.Error(err)
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fixed_expense_price_history WHERE expense_id = $1", id); err != nil {
		err := fmt.Errorf("could not clear price history: %v", err)
		log.Error(err)
		return false, err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM fixed_expenses WHERE id = $1", id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get affected rows: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("could not commit transaction: %v", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*FixedExpense, error) {
	var (
		e          FixedExpense
		ownersRaw  string
		levelStr   string
		startDate  sql.NullString
		bindingEnd sql.NullString
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(&e.ID, &e.Name, &e.AmountPerMonth, &e.Category, &ownersRaw, &levelStr,
		&startDate, &bindingEnd, &e.NoticePeriodMonths, &e.Note, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("could not scan row: %v", err)
	}
	e.Level = Level(levelStr)
	if err := json.Unmarshal([]byte(ownersRaw), &e.Owners); err != nil {
		return nil, fmt.Errorf("could not decode owners: %v", err)
	}
	if startDate.Valid {
		if e.StartDate, err = time.Parse("2006-01-02", startDate.String); err != nil {
			return nil, fmt.Errorf("could not parse start_date: %v", err)
		}
	}
	if bindingEnd.Valid {
		if e.BindingEndDate, err = time.Parse("2006-01-02", bindingEnd.String); err != nil {
			return nil, fmt.Errorf("could not parse binding_end_date: %v", err)
		}
	}
	if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("could not parse created_at: %v", err)
	}
	if e.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("could not parse updated_at: %v", err)
	}
	return &e, nil
}

func (r *RepositoryImpl) loadHistory(ctx context.Context, expenseId int) ([]PriceEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT amount, changed_at FROM fixed_expense_price_history WHERE expense_id = $1 ORDER BY position", expenseId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	history := make([]PriceEntry, 0)
	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

func (r *RepositoryImpl) loadHistories(ctx context.Context) (map[int][]PriceEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT expense_id, amount, changed_at FROM fixed_expense_price_history ORDER BY expense_id, position")
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	histories := make(map[int][]PriceEntry)
	for rows.Next() {
		var (
			expenseId  int
			amount     float64
			changedRaw string
		)
		if err := rows.Scan(&expenseId, &amount, &changedRaw); err != nil {
			return nil, fmt.Errorf("could not scan row: %v", err)
		}
		changedAt, err := time.Parse(timeLayout, changedRaw)
		if err != nil {
			return nil, fmt.Errorf("could not parse changed_at: %v", err)
		}
		histories[expenseId] = append(histories[expenseId], PriceEntry{Amount: amount, ChangedAt: changedAt})
	}
	return histories, rows.Err()
}

func scanHistoryEntry(rows *sql.Rows) (PriceEntry, error) {
	var (
		amount     float64
		changedRaw string
	)
	if err := rows.Scan(&amount, &changedRaw); err != nil {
		return PriceEntry{}, fmt.Errorf("could not scan row: %v", err)
	}
	changedAt, err := time.Parse(timeLayout, changedRaw)
	if err != nil {
		return PriceEntry{}, fmt.Errorf("could not parse changed_at: %v", err)
	}
	return PriceEntry{Amount: amount, ChangedAt: changedAt}, nil
}

func insertHistory(ctx context.Context, tx *sql.Tx, expenseId int, history []PriceEntry) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO fixed_expense_price_history (expense_id, position, amount, changed_at) VALUES ($1, $2, $3, $4)")
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	for i, entry := range history {
		if _, err := stmt.ExecContext(ctx, expenseId, i, entry.Amount, entry.ChangedAt.Format(timeLayout)); err != nil {
			err := fmt.Errorf("could not insert price history entry: %v", err)
			log.Error(err)
			return err
		}
	}
	return nil
}

func normalizedOwners(e FixedExpense) []string {
	if e.Owners == nil {
		return []string{}
	}
	return e.Owners
}

func dateParam(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format("2006-01-02")
}
