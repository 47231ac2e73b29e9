package category

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// Store stores a new Category and returns its id
	Store(ctx context.Context, category Category) (int, error)
	GetAll(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, category Category) (bool, error)
	// Delete removes the category and clears references from transactions
	Delete(ctx context.Context, categoryId int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, category Category) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %v", err)
		log.Error(err)
		return 0, err
	}
	defer tx.Rollback()

	var id int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM categories").Scan(&id); err != nil {
		err := fmt.Errorf("could not allocate category id: %v", err)
		log.Error(err)
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO categories (id, name, color) VALUES ($1, $2, $3)",
		id, category.Name, category.Color,
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

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, color FROM categories ORDER BY id")
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("could not scan row: %v", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, category Category) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = $1, color = $2 WHERE id = $3",
		category.Name, category.Color, category.ID,
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

func (r *RepositoryImpl) Delete(ctx context.Context, categoryId int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %v", err)
		log.Error(err)
		return false, err
	}
	defer tx.Rollback()

	// Referencing transactions keep existing but lose the category
	_, err = tx.ExecContext(ctx, "UPDATE transactions SET category_id = NULL WHERE category_id = $1", categoryId)
	if err != nil {
		err := fmt.Errorf("could not clear category references: %v", err)
		log.Error(err)
		return false, err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", categoryId)
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
