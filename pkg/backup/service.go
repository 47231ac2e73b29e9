package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/budsjett/budsjett/internal/event_bus"
	"github.com/budsjett/budsjett/internal/utils"
	"github.com/budsjett/budsjett/pkg/category"
	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/page"
	"github.com/budsjett/budsjett/pkg/settings"
	"github.com/budsjett/budsjett/pkg/transaction"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Export reads the whole store into a portable document.
	Export(ctx context.Context) (Document, error)
	// Import normalizes the document and atomically replaces the store.
	// Nothing is written when normalization or validation fails.
	Import(ctx context.Context, raw []byte) (ImportResult, error)
}

type ImportResult struct {
	Categories    int `json:"categories"`
	Pages         int `json:"pages"`
	Transactions  int `json:"transactions"`
	FixedExpenses int `json:"fixedExpenses"`
	OwnerProfiles int `json:"ownerProfiles"`
}

type ServiceImpl struct {
	repo         Repository
	categories   category.Repository
	pages        page.Repository
	transactions transaction.Repository
	expenses     fixedexpense.Repository
	settings     settings.Repository
	bus          *event_bus.EventBus
	clock        utils.Clock
}

func NewService(
	repo Repository,
	categories category.Repository,
	pages page.Repository,
	transactions transaction.Repository,
	expenses fixedexpense.Repository,
	settingsRepo settings.Repository,
	bus *event_bus.EventBus,
) *ServiceImpl {
	return &ServiceImpl{
		repo:         repo,
		categories:   categories,
		pages:        pages,
		transactions: transactions,
		expenses:     expenses,
		settings:     settingsRepo,
		bus:          bus,
		clock:        &utils.SystemClock{},
	}
}

func (s *ServiceImpl) Export(ctx context.Context) (Document, error) {
	var (
		store Store
		err   error
	)
	if store.Categories, err = s.categories.GetAll(ctx); err != nil {
		return Document{}, fmt.Errorf("reading categories: %w", err)
	}
	if store.Pages, err = s.pages.GetAll(ctx); err != nil {
		return Document{}, fmt.Errorf("reading pages: %w", err)
	}
	if store.Transactions, err = s.transactions.GetAll(ctx); err != nil {
		return Document{}, fmt.Errorf("reading transactions: %w", err)
	}
	if store.FixedExpenses, err = s.expenses.GetAll(ctx); err != nil {
		return Document{}, fmt.Errorf("reading fixed expenses: %w", err)
	}
	if store.Profiles, err = s.settings.GetProfiles(ctx); err != nil {
		return Document{}, fmt.Errorf("reading owner profiles: %w", err)
	}
	if store.Settings, err = s.settings.GetSettings(ctx); err != nil {
		return Document{}, fmt.Errorf("reading settings: %w", err)
	}

	doc := toDocument(store)
	doc.ExportID = uuid.NewString()
	doc.ExportedAt = s.clock.Now().Format(time.RFC3339)
	return doc, nil
}

func (s *ServiceImpl) Import(ctx context.Context, raw []byte) (ImportResult, error) {
	store, err := Normalize(raw, s.clock.Now())
	if err != nil {
		return ImportResult{}, err
	}
	if err = validateStore(store); err != nil {
		return ImportResult{}, err
	}
	if err = s.repo.ReplaceAll(ctx, store); err != nil {
		return ImportResult{}, fmt.Errorf("replacing store: %w", err)
	}

	log.Infof("Imported backup: %d transactions, %d fixed expenses",
		len(store.Transactions), len(store.FixedExpenses))

	err = s.bus.Publish(event_bus.NewEvent(ctx, event_bus.StoreReplacedEvent, event_bus.StoreReplaced{
		Transactions:  len(store.Transactions),
		FixedExpenses: len(store.FixedExpenses),
	}))
	if err != nil {
		log.Warnf("Error publishing store replaced event: %v", err)
	}

	return ImportResult{
		Categories:    len(store.Categories),
		Pages:         len(store.Pages),
		Transactions:  len(store.Transactions),
		FixedExpenses: len(store.FixedExpenses),
		OwnerProfiles: len(store.Profiles),
	}, nil
}

// validateStore rejects documents that would violate store constraints
// before any write happens.
func validateStore(store Store) error {
	if err := uniqueIds("category", categoryIds(store.Categories)); err != nil {
		return err
	}
	if err := uniqueIds("page", pageIds(store.Pages)); err != nil {
		return err
	}
	if err := uniqueIds("transaction", transactionIds(store.Transactions)); err != nil {
		return err
	}
	if err := uniqueIds("fixed expense", expenseIds(store.FixedExpenses)); err != nil {
		return err
	}
	if err := uniqueIds("owner profile", profileIds(store.Profiles)); err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, p := range store.Profiles {
		if seen[p.Name] {
			return fmt.Errorf("duplicate owner profile name %q", p.Name)
		}
		seen[p.Name] = true
		if p.MonthlyNetIncome != nil && *p.MonthlyNetIncome < 0 {
			return fmt.Errorf("owner profile %q: negative income", p.Name)
		}
		if p.SharedContribution < 0 {
			return fmt.Errorf("owner profile %q: negative contribution", p.Name)
		}
	}

	for _, t := range store.Transactions {
		if t.Amount < 0 {
			return fmt.Errorf("transaction %q: negative amount", t.Title)
		}
	}
	for _, e := range store.FixedExpenses {
		if e.AmountPerMonth < 0 {
			return fmt.Errorf("fixed expense %q: negative amount", e.Name)
		}
	}
	return nil
}

func uniqueIds(kind string, ids []int) error {
	seen := map[int]bool{}
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("duplicate %s id %d", kind, id)
		}
		seen[id] = true
	}
	return nil
}

func categoryIds(records []category.Category) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func pageIds(records []page.Page) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func transactionIds(records []transaction.Transaction) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func expenseIds(records []fixedexpense.FixedExpense) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func profileIds(records []settings.OwnerProfile) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}
