package backup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/budsjett/budsjett/internal/utils"
	"github.com/budsjett/budsjett/pkg/category"
	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/page"
	"github.com/budsjett/budsjett/pkg/settings"
	"github.com/budsjett/budsjett/pkg/transaction"
)

// Field-alias tables. Imports have to accept documents produced by several
// generations of the app, some with Norwegian field names, so every concept
// resolves through one table instead of inline fallbacks scattered per field.
var (
	collectionAliases = map[string][]string{
		"categories":    {"categories", "kategorier"},
		"pages":         {"pages", "sider"},
		"transactions":  {"transactions", "transaksjoner"},
		"fixedExpenses": {"fixedExpenses", "fixed_expenses", "fasteUtgifter", "faste_utgifter"},
		"ownerProfiles": {"ownerProfiles", "owner_profiles", "eierProfiler", "profiles"},
		"settings":      {"settings", "innstillinger"},
	}

	categoryAliases = map[string][]string{
		"id":    {"id"},
		"name":  {"name", "navn", "title"},
		"color": {"color", "farge"},
	}

	pageAliases = map[string][]string{
		"id":   {"id"},
		"name": {"name", "navn", "title"},
	}

	transactionAliases = map[string][]string{
		"id":         {"id"},
		"title":      {"title", "name", "navn", "beskrivelse", "description"},
		"amount":     {"amount", "belop", "beløp", "sum"},
		"type":       {"type"},
		"categoryId": {"categoryId", "category_id", "kategoriId"},
		"pageId":     {"pageId", "page_id", "sideId"},
		"tags":       {"tags", "tagger"},
		"occurredOn": {"occurredOn", "occurred_on", "date", "dato"},
		"notes":      {"notes", "notat", "kommentar"},
		"metadata":   {"metadata"},
	}

	fixedExpenseAliases = map[string][]string{
		"id":                 {"id"},
		"name":               {"name", "navn", "title"},
		"amountPerMonth":     {"amountPerMonth", "amount_per_month", "amount", "belop", "beløp", "pris"},
		"category":           {"category", "kategori"},
		"owners":             {"owners", "eier", "eiere"},
		"level":              {"level", "niva", "nivå", "prioritet"},
		"startDate":          {"startDate", "start_date", "start"},
		"bindingEndDate":     {"bindingEndDate", "binding_end_date", "bindingSlutt", "bindingstid"},
		"noticePeriodMonths": {"noticePeriodMonths", "notice_period_months", "oppsigelsestid"},
		"note":               {"note", "notat", "kommentar"},
		"priceHistory":       {"priceHistory", "price_history", "prishistorikk", "historikk"},
		"createdAt":          {"createdAt", "created_at", "opprettet"},
		"updatedAt":          {"updatedAt", "updated_at", "endret"},
	}

	priceEntryAliases = map[string][]string{
		"amount":    {"amount", "belop", "beløp", "pris"},
		"changedAt": {"changedAt", "changed_at", "date", "dato", "timestamp"},
	}

	ownerProfileAliases = map[string][]string{
		"id":                 {"id"},
		"name":               {"name", "navn", "eier"},
		"monthlyNetIncome":   {"monthlyNetIncome", "monthly_net_income", "inntekt", "nettoInntekt"},
		"sharedContribution": {"sharedContribution", "shared_contribution", "bidrag"},
		"bankContributions":  {"bankContributions", "bank_contributions"},
	}

	settingsAliases = map[string][]string{
		"monthlyNetIncome":           {"monthlyNetIncome", "monthly_net_income", "inntekt"},
		"defaultFixedExpensesOwners": {"defaultFixedExpensesOwners", "default_fixed_expenses_owners", "defaultOwners", "standardEiere"},
		"bankModeEnabled":            {"bankModeEnabled", "bank_mode_enabled", "bankModus"},
		"bankAccounts":               {"bankAccounts", "bank_accounts", "kontoer"},
		"lockEnabled":                {"lockEnabled", "lock_enabled"},
		"lockCode":                   {"lockCode", "lock_code"},
	}
)

// Normalize reshapes an arbitrary export document, current or legacy, into
// the canonical record set. Shape problems that would corrupt arithmetic
// (non-numeric amounts, unknown transaction types) abort the whole import;
// unparseable dates merely clear the field.
func Normalize(raw []byte, now time.Time) (Store, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Store{}, fmt.Errorf("parsing import document: %w", err)
	}

	store := Store{
		Categories:    []category.Category{},
		Pages:         []page.Page{},
		Transactions:  []transaction.Transaction{},
		FixedExpenses: []fixedexpense.FixedExpense{},
		Profiles:      []settings.OwnerProfile{},
	}

	for i, record := range records(doc, "categories") {
		c := category.Category{
			ID:    recordId(record, categoryAliases["id"], i),
			Name:  stringField(record, categoryAliases["name"]),
			Color: stringField(record, categoryAliases["color"]),
		}
		if strings.TrimSpace(c.Name) == "" {
			return Store{}, fmt.Errorf("category %d: missing name", i)
		}
		store.Categories = append(store.Categories, c)
	}

	for i, record := range records(doc, "pages") {
		p := page.Page{
			ID:   recordId(record, pageAliases["id"], i),
			Name: stringField(record, pageAliases["name"]),
		}
		if strings.TrimSpace(p.Name) == "" {
			return Store{}, fmt.Errorf("page %d: missing name", i)
		}
		store.Pages = append(store.Pages, p)
	}

	for i, record := range records(doc, "transactions") {
		t, err := normalizeTransaction(record, i)
		if err != nil {
			return Store{}, err
		}
		store.Transactions = append(store.Transactions, t)
	}

	for i, record := range records(doc, "fixedExpenses") {
		e, err := normalizeFixedExpense(record, i, now)
		if err != nil {
			return Store{}, err
		}
		store.FixedExpenses = append(store.FixedExpenses, e)
	}

	for i, record := range records(doc, "ownerProfiles") {
		p, err := normalizeProfile(record, i)
		if err != nil {
			return Store{}, err
		}
		store.Profiles = append(store.Profiles, p)
	}

	s, err := normalizeSettings(doc)
	if err != nil {
		return Store{}, err
	}
	store.Settings = s

	return store, nil
}

func normalizeTransaction(record map[string]any, i int) (transaction.Transaction, error) {
	amount, err := numberField(record, transactionAliases["amount"])
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("transaction %d: %w", i, err)
	}
	t := transaction.Transaction{
		ID:         recordId(record, transactionAliases["id"], i),
		Title:      stringField(record, transactionAliases["title"]),
		Amount:     amount,
		Type:       transaction.Type(stringField(record, transactionAliases["type"])),
		CategoryID: intPtrField(record, transactionAliases["categoryId"]),
		PageID:     intPtrField(record, transactionAliases["pageId"]),
		Tags:       utils.NormalizeNames(namesField(record, transactionAliases["tags"])),
		OccurredOn: dateField(record, transactionAliases["occurredOn"]),
		Notes:      stringField(record, transactionAliases["notes"]),
		Metadata:   metadataField(record, transactionAliases["metadata"]),
	}
	if t.Type == "" {
		t.Type = transaction.TypeExpense
	}
	if !t.Type.Valid() {
		return transaction.Transaction{}, fmt.Errorf("transaction %d: unknown type %q", i, t.Type)
	}
	if strings.TrimSpace(t.Title) == "" {
		return transaction.Transaction{}, fmt.Errorf("transaction %d: missing title", i)
	}
	return t, nil
}

func normalizeFixedExpense(record map[string]any, i int, now time.Time) (fixedexpense.FixedExpense, error) {
	amount, err := numberField(record, fixedExpenseAliases["amountPerMonth"])
	if err != nil {
		return fixedexpense.FixedExpense{}, fmt.Errorf("fixed expense %d: %w", i, err)
	}
	e := fixedexpense.FixedExpense{
		ID:                 recordId(record, fixedExpenseAliases["id"], i),
		Name:               stringField(record, fixedExpenseAliases["name"]),
		AmountPerMonth:     amount,
		Category:           stringField(record, fixedExpenseAliases["category"]),
		Owners:             utils.NormalizeNames(namesField(record, fixedExpenseAliases["owners"])),
		Level:              fixedexpense.Level(stringField(record, fixedExpenseAliases["level"])),
		StartDate:          dateField(record, fixedExpenseAliases["startDate"]),
		BindingEndDate:     dateField(record, fixedExpenseAliases["bindingEndDate"]),
		NoticePeriodMonths: intPtrField(record, fixedExpenseAliases["noticePeriodMonths"]),
		Note:               stringField(record, fixedExpenseAliases["note"]),
		CreatedAt:          dateField(record, fixedExpenseAliases["createdAt"]),
		UpdatedAt:          dateField(record, fixedExpenseAliases["updatedAt"]),
	}
	if strings.TrimSpace(e.Name) == "" {
		return fixedexpense.FixedExpense{}, fmt.Errorf("fixed expense %d: missing name", i)
	}
	if e.Level == "" {
		e.Level = fixedexpense.LevelNiceToHave
	}
	if !e.Level.Valid() {
		return fixedexpense.FixedExpense{}, fmt.Errorf("fixed expense %d: unknown level %q", i, e.Level)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	e.PriceHistory = fixedexpense.NormalizeHistory(
		priceHistoryField(record, fixedExpenseAliases["priceHistory"]),
		e.AmountPerMonth,
		e.UpdatedAt,
	)
	return e, nil
}

func normalizeProfile(record map[string]any, i int) (settings.OwnerProfile, error) {
	p := settings.OwnerProfile{
		ID:                recordId(record, ownerProfileAliases["id"], i),
		Name:              strings.TrimSpace(stringField(record, ownerProfileAliases["name"])),
		BankContributions: bankContributionsField(record, ownerProfileAliases["bankContributions"]),
	}
	if p.Name == "" {
		return settings.OwnerProfile{}, fmt.Errorf("owner profile %d: missing name", i)
	}
	if _, present := field(record, ownerProfileAliases["monthlyNetIncome"]); present {
		income, err := numberField(record, ownerProfileAliases["monthlyNetIncome"])
		if err != nil {
			return settings.OwnerProfile{}, fmt.Errorf("owner profile %d: %w", i, err)
		}
		p.MonthlyNetIncome = &income
	}
	contribution, err := numberField(record, ownerProfileAliases["sharedContribution"])
	if err != nil {
		return settings.OwnerProfile{}, fmt.Errorf("owner profile %d: %w", i, err)
	}
	p.SharedContribution = contribution
	return p, nil
}

func normalizeSettings(doc map[string]any) (settings.Settings, error) {
	raw, _ := field(doc, collectionAliases["settings"])
	record, _ := raw.(map[string]any)
	if record == nil {
		record = map[string]any{}
	}
	income, err := numberField(record, settingsAliases["monthlyNetIncome"])
	if err != nil {
		return settings.Settings{}, fmt.Errorf("settings: %w", err)
	}
	return settings.Settings{
		MonthlyNetIncome:           income,
		DefaultFixedExpensesOwners: utils.NormalizeNames(namesField(record, settingsAliases["defaultFixedExpensesOwners"])),
		BankModeEnabled:            boolField(record, settingsAliases["bankModeEnabled"]),
		BankAccounts:               utils.NormalizeNames(namesField(record, settingsAliases["bankAccounts"])),
		LockEnabled:                boolField(record, settingsAliases["lockEnabled"]),
		LockCode:                   stringField(record, settingsAliases["lockCode"]),
	}, nil
}

// field resolves the first alias present in the record.
func field(record map[string]any, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if value, ok := record[alias]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func records(doc map[string]any, collection string) []map[string]any {
	raw, ok := field(doc, collectionAliases[collection])
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	result := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if record, ok := item.(map[string]any); ok {
			result = append(result, record)
		}
	}
	return result
}

// recordId falls back to the record's position when the id is missing or
// unusable.
func recordId(record map[string]any, aliases []string, position int) int {
	value, err := numberField(record, aliases)
	if err != nil || value <= 0 {
		return position + 1
	}
	return int(value)
}

func stringField(record map[string]any, aliases []string) string {
	value, ok := field(record, aliases)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// numberField accepts JSON numbers and numeric strings. A present but
// unparseable value is an error; an absent one is 0.
func numberField(record map[string]any, aliases []string) (float64, error) {
	value, ok := field(record, aliases)
	if !ok {
		return 0, nil
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if trimmed == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", v)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("invalid number %v", value)
	}
}

func intPtrField(record map[string]any, aliases []string) *int {
	value, err := numberField(record, aliases)
	if err != nil || value <= 0 {
		return nil
	}
	n := int(value)
	return &n
}

func boolField(record map[string]any, aliases []string) bool {
	value, ok := field(record, aliases)
	if !ok {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	case float64:
		return v != 0
	default:
		return false
	}
}

// namesField accepts both an array of strings and a comma-separated string.
func namesField(record map[string]any, aliases []string) []string {
	value, ok := field(record, aliases)
	if !ok {
		return nil
	}
	switch v := value.(type) {
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return names
	case string:
		return utils.SplitNames(v)
	default:
		return nil
	}
}

func dateField(record map[string]any, aliases []string) time.Time {
	value := stringField(record, aliases)
	if value == "" {
		return time.Time{}
	}
	parsed, ok := utils.ParseDate(value)
	if !ok {
		return time.Time{}
	}
	return parsed
}

func metadataField(record map[string]any, aliases []string) map[string]string {
	value, ok := field(record, aliases)
	if !ok {
		return nil
	}
	raw, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	metadata := make(map[string]string, len(raw))
	for key, item := range raw {
		if s, ok := item.(string); ok {
			metadata[key] = s
		}
	}
	if len(metadata) == 0 {
		return nil
	}
	return metadata
}

func bankContributionsField(record map[string]any, aliases []string) map[string]float64 {
	value, ok := field(record, aliases)
	if !ok {
		return nil
	}
	raw, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	contributions := make(map[string]float64, len(raw))
	for account, item := range raw {
		entry := map[string]any{"amount": item}
		amount, err := numberField(entry, []string{"amount"})
		if err != nil {
			continue
		}
		contributions[account] = amount
	}
	if len(contributions) == 0 {
		return nil
	}
	return contributions
}

// priceHistoryField collects the parseable entries; the rest is dropped and
// later reconciled against the declared amount by the history normalizer.
func priceHistoryField(record map[string]any, aliases []string) []fixedexpense.PriceEntry {
	value, ok := field(record, aliases)
	if !ok {
		return nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	entries := make([]fixedexpense.PriceEntry, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		amount, err := numberField(entry, priceEntryAliases["amount"])
		if err != nil {
			continue
		}
		if _, present := field(entry, priceEntryAliases["amount"]); !present {
			continue
		}
		changedAt := dateField(entry, priceEntryAliases["changedAt"])
		if changedAt.IsZero() {
			continue
		}
		entries = append(entries, fixedexpense.PriceEntry{Amount: amount, ChangedAt: changedAt})
	}
	return entries
}
