package backup

import (
	"time"

	"github.com/budsjett/budsjett/pkg/category"
	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/page"
	"github.com/budsjett/budsjett/pkg/settings"
	"github.com/budsjett/budsjett/pkg/transaction"
)

// Store is the canonical record set an import resolves to and an export is
// built from.
type Store struct {
	Categories    []category.Category
	Pages         []page.Page
	Transactions  []transaction.Transaction
	FixedExpenses []fixedexpense.FixedExpense
	Profiles      []settings.OwnerProfile
	Settings      settings.Settings
}

// Document is the export wire format. Imports accept this shape plus the
// legacy spellings handled by the normalizer.
type Document struct {
	ExportID      string               `json:"exportId"`
	ExportedAt    string               `json:"exportedAt"`
	Categories    []CategoryRecord     `json:"categories"`
	Pages         []PageRecord         `json:"pages"`
	Transactions  []TransactionRecord  `json:"transactions"`
	FixedExpenses []FixedExpenseRecord `json:"fixedExpenses"`
	OwnerProfiles []OwnerProfileRecord `json:"ownerProfiles"`
	Settings      SettingsRecord       `json:"settings"`
	NextIDs       map[string]int       `json:"nextIds"`
}

type CategoryRecord struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type PageRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TransactionRecord struct {
	ID         int               `json:"id"`
	Title      string            `json:"title"`
	Amount     float64           `json:"amount"`
	Type       string            `json:"type"`
	CategoryID *int              `json:"categoryId"`
	PageID     *int              `json:"pageId"`
	Tags       []string          `json:"tags"`
	OccurredOn string            `json:"occurredOn,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type PriceRecord struct {
	Amount    float64 `json:"amount"`
	ChangedAt string  `json:"changedAt"`
}

type FixedExpenseRecord struct {
	ID                 int           `json:"id"`
	Name               string        `json:"name"`
	AmountPerMonth     float64       `json:"amountPerMonth"`
	Category           string        `json:"category"`
	Owners             []string      `json:"owners"`
	Level              string        `json:"level"`
	StartDate          string        `json:"startDate,omitempty"`
	BindingEndDate     string        `json:"bindingEndDate,omitempty"`
	NoticePeriodMonths *int          `json:"noticePeriodMonths"`
	Note               string        `json:"note,omitempty"`
	PriceHistory       []PriceRecord `json:"priceHistory"`
	CreatedAt          string        `json:"createdAt,omitempty"`
	UpdatedAt          string        `json:"updatedAt,omitempty"`
}

type OwnerProfileRecord struct {
	ID                 int                `json:"id"`
	Name               string             `json:"name"`
	MonthlyNetIncome   *float64           `json:"monthlyNetIncome"`
	SharedContribution float64            `json:"sharedContribution"`
	BankContributions  map[string]float64 `json:"bankContributions"`
}

type SettingsRecord struct {
	MonthlyNetIncome           float64  `json:"monthlyNetIncome"`
	DefaultFixedExpensesOwners []string `json:"defaultFixedExpensesOwners"`
	BankModeEnabled            bool     `json:"bankModeEnabled"`
	BankAccounts               []string `json:"bankAccounts"`
	LockEnabled                bool     `json:"lockEnabled"`
	LockCode                   string   `json:"lockCode,omitempty"`
}

func toDocument(store Store) Document {
	doc := Document{
		Categories:    make([]CategoryRecord, 0, len(store.Categories)),
		Pages:         make([]PageRecord, 0, len(store.Pages)),
		Transactions:  make([]TransactionRecord, 0, len(store.Transactions)),
		FixedExpenses: make([]FixedExpenseRecord, 0, len(store.FixedExpenses)),
		OwnerProfiles: make([]OwnerProfileRecord, 0, len(store.Profiles)),
		Settings: SettingsRecord{
			MonthlyNetIncome:           store.Settings.MonthlyNetIncome,
			DefaultFixedExpensesOwners: emptyIfNil(store.Settings.DefaultFixedExpensesOwners),
			BankModeEnabled:            store.Settings.BankModeEnabled,
			BankAccounts:               emptyIfNil(store.Settings.BankAccounts),
			LockEnabled:                store.Settings.LockEnabled,
			LockCode:                   store.Settings.LockCode,
		},
		NextIDs: map[string]int{
			"categories":    maxCategoryId(store.Categories) + 1,
			"pages":         maxPageId(store.Pages) + 1,
			"transactions":  maxTransactionId(store.Transactions) + 1,
			"fixedExpenses": maxExpenseId(store.FixedExpenses) + 1,
			"ownerProfiles": maxProfileId(store.Profiles) + 1,
		},
	}
	for _, c := range store.Categories {
		doc.Categories = append(doc.Categories, CategoryRecord{ID: c.ID, Name: c.Name, Color: c.Color})
	}
	for _, p := range store.Pages {
		doc.Pages = append(doc.Pages, PageRecord{ID: p.ID, Name: p.Name})
	}
	for _, t := range store.Transactions {
		doc.Transactions = append(doc.Transactions, TransactionRecord{
			ID:         t.ID,
			Title:      t.Title,
			Amount:     t.Amount,
			Type:       string(t.Type),
			CategoryID: t.CategoryID,
			PageID:     t.PageID,
			Tags:       emptyIfNil(t.Tags),
			OccurredOn: formatDate(t.OccurredOn),
			Notes:      t.Notes,
			Metadata:   t.Metadata,
		})
	}
	for _, e := range store.FixedExpenses {
		history := make([]PriceRecord, 0, len(e.PriceHistory))
		for _, entry := range e.PriceHistory {
			history = append(history, PriceRecord{
				Amount:    entry.Amount,
				ChangedAt: entry.ChangedAt.Format(time.RFC3339),
			})
		}
		doc.FixedExpenses = append(doc.FixedExpenses, FixedExpenseRecord{
			ID:                 e.ID,
			Name:               e.Name,
			AmountPerMonth:     e.AmountPerMonth,
			Category:           e.Category,
			Owners:             emptyIfNil(e.Owners),
			Level:              string(e.Level),
			StartDate:          formatDate(e.StartDate),
			BindingEndDate:     formatDate(e.BindingEndDate),
			NoticePeriodMonths: e.NoticePeriodMonths,
			Note:               e.Note,
			PriceHistory:       history,
			CreatedAt:          formatTimestamp(e.CreatedAt),
			UpdatedAt:          formatTimestamp(e.UpdatedAt),
		})
	}
	for _, p := range store.Profiles {
		doc.OwnerProfiles = append(doc.OwnerProfiles, OwnerProfileRecord{
			ID:                 p.ID,
			Name:               p.Name,
			MonthlyNetIncome:   p.MonthlyNetIncome,
			SharedContribution: p.SharedContribution,
			BankContributions:  p.BankContributions,
		})
	}
	return doc
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func maxCategoryId(records []category.Category) int {
	max := 0
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}

func maxPageId(records []page.Page) int {
	max := 0
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}

func maxTransactionId(records []transaction.Transaction) int {
	max := 0
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}

func maxExpenseId(records []fixedexpense.FixedExpense) int {
	max := 0
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}

func maxProfileId(records []settings.OwnerProfile) int {
	max := 0
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}
