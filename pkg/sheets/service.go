package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/budsjett/budsjett/internal/event_bus"
	"github.com/budsjett/budsjett/pkg/category"
	"github.com/budsjett/budsjett/pkg/page"
	"github.com/budsjett/budsjett/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

// RowWriter is the spreadsheet surface the service writes to.
type RowWriter interface {
	AppendRow(ctx context.Context, row []any) error
	ReplaceAll(ctx context.Context, rows [][]any) error
}

type Service interface {
	Enabled() bool
	// SyncAll rewrites the spreadsheet tab from the current transaction set.
	SyncAll(ctx context.Context) error
}

type ServiceImpl struct {
	writer       RowWriter
	transactions transaction.Repository
	categories   category.Repository
	pages        page.Repository
}

func NewService(
	writer RowWriter,
	transactions transaction.Repository,
	categories category.Repository,
	pages page.Repository,
) *ServiceImpl {
	return &ServiceImpl{
		writer:       writer,
		transactions: transactions,
		categories:   categories,
		pages:        pages,
	}
}

func (s *ServiceImpl) Enabled() bool {
	return s.writer != nil
}

// Subscribe mirrors store changes into the spreadsheet. Failures are logged
// and never fail the originating operation.
func (s *ServiceImpl) Subscribe(bus *event_bus.EventBus) {
	if !s.Enabled() {
		return
	}
	event_bus.SubscribeTyped(bus, event_bus.TransactionCreatedEvent,
		func(e event_bus.EventT[event_bus.TransactionCreated]) error {
			row := []any{
				formatDate(e.Data.OccurredOn),
				e.Data.Title,
				e.Data.Type,
				e.Data.Amount,
				s.categoryName(e.Context(), e.Data.CategoryId),
				s.pageName(e.Context(), e.Data.PageId),
				strings.Join(e.Data.Tags, ", "),
			}
			if err := s.writer.AppendRow(e.Context(), row); err != nil {
				log.Warnf("Error mirroring transaction %d to sheet: %v", e.Data.Id, err)
			}
			return nil
		})
	bus.Subscribe(event_bus.TransactionsClearedEvent, func(e event_bus.Event) error {
		if err := s.SyncAll(e.Context()); err != nil {
			log.Warnf("Error resyncing sheet after clear: %v", err)
		}
		return nil
	})
	bus.Subscribe(event_bus.StoreReplacedEvent, func(e event_bus.Event) error {
		if err := s.SyncAll(e.Context()); err != nil {
			log.Warnf("Error resyncing sheet after import: %v", err)
		}
		return nil
	})
}

func (s *ServiceImpl) SyncAll(ctx context.Context) error {
	if !s.Enabled() {
		return fmt.Errorf("sheets mirror is not configured")
	}

	transactions, err := s.transactions.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reading transactions: %w", err)
	}
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reading categories: %w", err)
	}
	pages, err := s.pages.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reading pages: %w", err)
	}

	categoryNames := make(map[int]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}
	pageNames := make(map[int]string, len(pages))
	for _, p := range pages {
		pageNames[p.ID] = p.Name
	}

	rows := make([][]any, 0, len(transactions)+1)
	rows = append(rows, []any{"Dato", "Tittel", "Type", "Beløp", "Kategori", "Side", "Tagger"})
	for _, t := range transactions {
		categoryName := ""
		if t.CategoryID != nil {
			categoryName = categoryNames[*t.CategoryID]
		}
		pageName := ""
		if t.PageID != nil {
			pageName = pageNames[*t.PageID]
		}
		rows = append(rows, []any{
			formatDate(t.OccurredOn),
			t.Title,
			string(t.Type),
			t.Amount,
			categoryName,
			pageName,
			strings.Join(t.Tags, ", "),
		})
	}

	log.Infof("Syncing %d transactions to sheet", len(transactions))
	return s.writer.ReplaceAll(ctx, rows)
}

// categoryName resolves a category reference to its display name. Unresolvable
// references mirror as an empty cell rather than failing the append.
func (s *ServiceImpl) categoryName(ctx context.Context, id *int) string {
	if id == nil {
		return ""
	}
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		log.Warnf("Error resolving category %d for sheet row: %v", *id, err)
		return ""
	}
	for _, c := range categories {
		if c.ID == *id {
			return c.Name
		}
	}
	return ""
}

func (s *ServiceImpl) pageName(ctx context.Context, id *int) string {
	if id == nil {
		return ""
	}
	pages, err := s.pages.GetAll(ctx)
	if err != nil {
		log.Warnf("Error resolving page %d for sheet row: %v", *id, err)
		return ""
	}
	for _, p := range pages {
		if p.ID == *id {
			return p.Name
		}
	}
	return ""
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
