package page

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, page Page) (int, error)
	GetAll(ctx context.Context) ([]Page, error)
	Update(ctx context.Context, page Page) (bool, error)
	// Delete removes the page and clears references from transactions
	Delete(ctx context.Context, pageId int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, page Page) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %v", err)
		log.Error(err)
		return 0, err
	}
	defer tx.Rollback()

	var id int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM pages").Scan(&id); err != nil {
		err := fmt.Errorf("could not allocate page id: %v", err)
		log.Error(err)
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO pages (id, name) VALUES ($1, $2)", id, page.Name); err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %v", err)
	}
	return id, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]Page, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM pages ORDER BY id")
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	pages := make([]Page, 0)
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("could not scan row: %v", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, page Page) (bool, error) {
	result, err := r.db.ExecContext(ctx, "UPDATE pages SET name = $1 WHERE id = $2", page.Name, page.ID)
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

func (r *RepositoryImpl) Delete(ctx context.Context, pageId int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %v", err)
		log.Error(err)
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE transactions SET page_id = NULL WHERE page_id = $1", pageId); err != nil {
		err := fmt.Errorf("could not clear page references: %v", err)
		log.Error(err)
		return false, err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE id = $1", pageId)
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
