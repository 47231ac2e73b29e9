package transaction

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, t Transaction) (int, error)
	GetAll(ctx context.Context) ([]Transaction, error)
	Update(ctx context.Context, t Transaction) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// DeleteAll clears every transaction and returns how many were removed
	DeleteAll(ctx context.Context) (int, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, t Transaction) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %v", err)
		log.Error(err)
		return 0, err
	}
	defer tx.Rollback()

	var id int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM transactions").Scan(&id); err != nil {
		err := fmt.Errorf("could not allocate transaction id: %v", err)
		log.Error(err)
		return 0, err
	}

	tags, metadata, err := encodeJSONColumns(t)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, title, amount, type, category_id, page_id, tags, occurred_on, notes, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, t.Title, t.Amount, string(t.Type), t.CategoryID, t.PageID, tags, occurredOnParam(t), t.Notes, metadata,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %v", err)
	}
	return id, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, amount, type, category_id, page_id, tags, occurred_on, notes, metadata FROM transactions ORDER BY id")
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	transactions := make([]Transaction, 0)
	for rows.Next() {
		var (
			t           Transaction
			typeStr     string
			tagsRaw     string
			metadataRaw string
			occurredOn  sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Amount, &typeStr, &t.CategoryID, &t.PageID, &tagsRaw, &occurredOn, &t.Notes, &metadataRaw); err != nil {
			return nil, fmt.Errorf("could not scan row: %v", err)
		}
		t.Type = Type(typeStr)
		if err := json.Unmarshal([]byte(tagsRaw), &t.Tags); err != nil {
			return nil, fmt.Errorf("could not decode tags: %v", err)
		}
		if err := json.Unmarshal([]byte(metadataRaw), &t.Metadata); err != nil {
			return nil, fmt.Errorf("could not decode metadata: %v", err)
		}
		if occurredOn.Valid {
			parsed, err := time.Parse("2006-01-02", occurredOn.String)
			if err != nil {
				return nil, fmt.Errorf("could not parse occurred_on: %v", err)
			}
			t.OccurredOn = parsed
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, t Transaction) (bool, error) {
	tags, metadata, err := encodeJSONColumns(t)
	if err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET title = $1, amount = $2, type = $3, category_id = $4, page_id = $5,
		 tags = $6, occurred_on = $7, notes = $8, metadata = $9 WHERE id = $10`,
		t.Title, t.Amount, string(t.Type), t.CategoryID, t.PageID, tags, occurredOnParam(t), t.Notes, metadata, t.ID,
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
	return affected > 0, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get affected rows: %v", err)
	}
	return affected > 0, nil
}

func (r *RepositoryImpl) DeleteAll(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM transactions")
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not get affected rows: %v", err)
	}
	return int(affected), nil
}

func encodeJSONColumns(t Transaction) (string, string, error) {
	if t.Tags == nil {
		t.Tags = []string{}
	}
	tags, err := json.Marshal(t.Tags)
	if err != nil {
		return "", "", fmt.Errorf("could not encode tags: %v", err)
	}
	if t.Metadata == nil {
		t.Metadata = map[string]string{}
	}
	metadata, err := json.Marshal(t.Metadata)
	if err != nil {
		return "", "", fmt.Errorf("could not encode metadata: %v", err)
	}
	return string(tags), string(metadata), nil
}

func occurredOnParam(t Transaction) interface{} {
	if t.OccurredOn.IsZero() {
		return nil
	}
	return t.OccurredOn.Format("2006-01-02")
}
