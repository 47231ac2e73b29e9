package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	GetSettings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, s Settings) error
	GetProfiles(ctx context.Context) ([]OwnerProfile, error)
	GetProfileById(ctx context.Context, id int) (*OwnerProfile, error)
	StoreProfile(ctx context.Context, p OwnerProfile) (int, error)
	UpdateProfile(ctx context.Context, p OwnerProfile) (bool, error)
	// RenameOwner rewrites the profile, the default-owner list, and every
	// fixed expense carrying the old name, in one transaction
	RenameOwner(ctx context.Context, oldName string, newName string) error
	// RemoveOwner deletes the profile and strips the name everywhere, in
	// one transaction
	RemoveOwner(ctx context.Context, name string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetSettings(ctx context.Context) (Settings, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT monthly_net_income, default_owners, bank_mode_enabled, bank_accounts, lock_enabled, lock_code FROM settings WHERE id = 1")

	var (
		s           Settings
		defaultsRaw string
		bankMode    int
		accountsRaw string
		lockEnabled int
	)
	if err := row.Scan(&s.MonthlyNetIncome, &defaultsRaw, &bankMode, &accountsRaw, &lockEnabled, &s.LockCode); err != nil {
		err := fmt.Errorf("could not read settings: %v", err)
		log.Error(err)
		return Settings{}, err
	}
	if err := json.Unmarshal([]byte(defaultsRaw), &s.DefaultFixedExpensesOwners); err != nil {
		return Settings{}, fmt.Errorf("could not decode default owners: %v", err)
	}
	if err := json.Unmarshal([]byte(accountsRaw), &s.BankAccounts); err != nil {
		return Settings{}, fmt.Errorf("could not decode bank accounts: %v", err)
	}
	s.BankModeEnabled = bankMode != 0
	s.LockEnabled = lockEnabled != 0
	return s, nil
}

func (r *RepositoryImpl) UpdateSettings(ctx context.Context, s Settings) error {
	defaults, accounts, err := encodeLists(s)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE settings SET monthly_net_income = $1, default_owners = $2, bank_mode_enabled = $3,
		 bank_accounts = $4, lock_enabled = $5, lock_code = $6 WHERE id = 1`,
		s.MonthlyNetIncome, defaults, boolToInt(s.BankModeEnabled), accounts, boolToInt(s.LockEnabled), s.LockCode,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetProfiles(ctx context.Context) ([]OwnerProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, monthly_net_income, shared_contribution, bank_contributions FROM owner_profiles ORDER BY id")
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	profiles := make([]OwnerProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *RepositoryImpl) GetProfileById(ctx context.Context, id int) (*OwnerProfile, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, monthly_net_income, shared_contribution, bank_contributions FROM owner_profiles WHERE id = $1", id)
	p, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *RepositoryImpl) StoreProfile(ctx context.Context, p OwnerProfile) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %v", err)
		log.Error(err)
		return 0, err
	}
	defer tx.Rollback()

	var id int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM owner_profiles").Scan(&id); err != nil {
		err := fmt.Errorf("could not allocate profile id: %v", err)
		log.Error(err)
		return 0, err
	}

	contributions, err := encodeContributions(p)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO owner_profiles (id, name, monthly_net_income, shared_contribution, bank_contributions)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, p.Name, p.MonthlyNetIncome, p.SharedContribution, contributions,
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

func (r *RepositoryImpl) UpdateProfile(ctx context.Context, p OwnerProfile) (bool, error) {
	contributions, err := encodeContributions(p)
	if err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE owner_profiles SET name = $1, monthly_net_income = $2, shared_contribution = $3,
		 bank_contributions = $4 WHERE id = $5`,
		p.Name, p.MonthlyNetIncome, p.SharedContribution, contributions, p.ID,
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

func (r *RepositoryImpl) RenameOwner(ctx context.Context, oldName string, newName string) error {
	return r.rewriteOwner(ctx, oldName, &newName)
}

func (r *RepositoryImpl) RemoveOwner(ctx context.Context, name string) error {
	return r.rewriteOwner(ctx, name, nil)
}

// rewriteOwner replaces (or, with a nil replacement, removes) an owner name
// in the profile table, the default-owner list, and every fixed expense.
func (r *RepositoryImpl) rewriteOwner(ctx context.Context, name string, replacement *string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %v", err)
		log.Error(err)
		return err
	}
	defer tx.Rollback()

	if replacement != nil {
		if _, err := tx.ExecContext(ctx, "UPDATE owner_profiles SET name = $1 WHERE name = $2", *replacement, name); err != nil {
			err := fmt.Errorf("could not rename profile: %v", err)
			log.Error(err)
			return err
		}
	} else {
		if _, err := tx.ExecContext(ctx, "DELETE FROM owner_profiles WHERE name = $1", name); err != nil {
			err := fmt.Errorf("could not delete profile: %v", err)
			log.Error(err)
			return err
		}
	}

	if err := rewriteDefaultOwners(ctx, tx, name, replacement); err != nil {
		return err
	}
	if err := rewriteExpenseOwners(ctx, tx, name, replacement); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %v", err)
	}
	return nil
}

func rewriteDefaultOwners(ctx context.Context, tx *sql.Tx, name string, replacement *string) error {
	var defaultsRaw string
	if err := tx.QueryRowContext(ctx, "SELECT default_owners FROM settings WHERE id = 1").Scan(&defaultsRaw); err != nil {
		return fmt.Errorf("could not read default owners: %v", err)
	}
	var defaults []string
	if err := json.Unmarshal([]byte(defaultsRaw), &defaults); err != nil {
		return fmt.Errorf("could not decode default owners: %v", err)
	}

	rewritten, changed := replaceName(defaults, name, replacement)
	if !changed {
		return nil
	}
	encoded, err := json.Marshal(rewritten)
	if err != nil {
		return fmt.Errorf("could not encode default owners: %v", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE settings SET default_owners = $1 WHERE id = 1", string(encoded)); err != nil {
		return fmt.Errorf("could not update default owners: %v", err)
	}
	return nil
}

func rewriteExpenseOwners(ctx context.Context, tx *sql.Tx, name string, replacement *string) error {
	rows, err := tx.QueryContext(ctx, "SELECT id, owners FROM fixed_expenses")
	if err != nil {
		return fmt.Errorf("could not read expense owners: %v", err)
	}
	defer rows.Close()

	type update struct {
		id     int
		owners string
	}
	updates := make([]update, 0)
	for rows.Next() {
		var (
			id        int
			ownersRaw string
		)
		if err := rows.Scan(&id, &ownersRaw); err != nil {
			return fmt.Errorf("could not scan row: %v", err)
		}
		var owners []string
		if err := json.Unmarshal([]byte(ownersRaw), &owners); err != nil {
			return fmt.Errorf("could not decode owners: %v", err)
		}
		rewritten, changed := replaceName(owners, name, replacement)
		if !changed {
			continue
		}
		encoded, err := json.Marshal(rewritten)
		if err != nil {
			return fmt.Errorf("could not encode owners: %v", err)
		}
		updates = append(updates, update{id: id, owners: string(encoded)})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, "UPDATE fixed_expenses SET owners = $1 WHERE id = $2", u.owners, u.id); err != nil {
			return fmt.Errorf("could not update expense owners: %v", err)
		}
	}
	return nil
}

// replaceName substitutes or removes a name, de-duplicating in case the
// replacement already exists in the list.
func replaceName(names []string, name string, replacement *string) ([]string, bool) {
	rewritten := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	changed := false
	for _, n := range names {
		if n == name {
			changed = true
			if replacement == nil {
				continue
			}
			n = *replacement
		}
		if seen[n] {
			changed = true
			continue
		}
		seen[n] = true
		rewritten = append(rewritten, n)
	}
	return rewritten, changed
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*OwnerProfile, error) {
	var (
		p                OwnerProfile
		income           sql.NullFloat64
		contributionsRaw string
	)
	if err := row.Scan(&p.ID, &p.Name, &income, &p.SharedContribution, &contributionsRaw); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("could not scan row: %v", err)
	}
	if income.Valid {
		value := income.Float64
		p.MonthlyNetIncome = &value
	}
	if err := json.Unmarshal([]byte(contributionsRaw), &p.BankContributions); err != nil {
		return nil, fmt.Errorf("could not decode bank contributions: %v", err)
	}
	return &p, nil
}

func encodeLists(s Settings) (string, string, error) {
	if s.DefaultFixedExpensesOwners == nil {
		s.DefaultFixedExpensesOwners = []string{}
	}
	defaults, err := json.Marshal(s.DefaultFixedExpensesOwners)
	if err != nil {
		return "", "", fmt.Errorf("could not encode default owners: %v", err)
	}
	if s.BankAccounts == nil {
		s.BankAccounts = []string{}
	}
	accounts, err := json.Marshal(s.BankAccounts)
	if err != nil {
		return "", "", fmt.Errorf("could not encode bank accounts: %v", err)
	}
	return string(defaults), string(accounts), nil
}

func encodeContributions(p OwnerProfile) (string, error) {
	if p.BankContributions == nil {
		p.BankContributions = map[string]float64{}
	}
	contributions, err := json.Marshal(p.BankContributions)
	if err != nil {
		return "", fmt.Errorf("could not encode bank contributions: %v", err)
	}
	return string(contributions), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
