package dashboard

import (
	"context"
	"fmt"

	"github.com/budsjett/budsjett/internal/utils"
	"github.com/budsjett/budsjett/pkg/category"
	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/page"
	"github.com/budsjett/budsjett/pkg/settings"
	"github.com/budsjett/budsjett/pkg/transaction"
)

type Service interface {
	// GetSummary computes the dashboard for the given owner filter.
	// An empty filter falls back to the configured default owners.
	GetSummary(ctx context.Context, ownerFilter []string) (Summary, error)
}

type ServiceImpl struct {
	categories   category.Repository
	pages        page.Repository
	transactions transaction.Repository
	expenses     fixedexpense.Repository
	settings     settings.Repository
	clock        utils.Clock
}

func NewService(
	categories category.Repository,
	pages page.Repository,
	transactions transaction.Repository,
	expenses fixedexpense.Repository,
	settingsRepo settings.Repository,
) *ServiceImpl {
	return &ServiceImpl{
		categories:   categories,
		pages:        pages,
		transactions: transactions,
		expenses:     expenses,
		settings:     settingsRepo,
		clock:        &utils.SystemClock{},
	}
}

func (s *ServiceImpl) GetSummary(ctx context.Context, ownerFilter []string) (Summary, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return Summary{}, err
	}
	res := Resolve(ownerFilter, snapshot.Settings, snapshot.Profiles, snapshot.FixedExpenses)
	return BuildSummary(snapshot, res, s.clock.Now()), nil
}

func (s *ServiceImpl) loadSnapshot(ctx context.Context) (Snapshot, error) {
	var (
		snapshot Snapshot
		err      error
	)
	if snapshot.Categories, err = s.categories.GetAll(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("loading categories: %w", err)
	}
	if snapshot.Pages, err = s.pages.GetAll(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("loading pages: %w", err)
	}
	if snapshot.Transactions, err = s.transactions.GetAll(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("loading transactions: %w", err)
	}
	if snapshot.FixedExpenses, err = s.expenses.GetAll(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("loading fixed expenses: %w", err)
	}
	if snapshot.Profiles, err = s.settings.GetProfiles(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("loading owner profiles: %w", err)
	}
	if snapshot.Settings, err = s.settings.GetSettings(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("loading settings: %w", err)
	}
	return snapshot, nil
}
