package dashboard

import (
	"sort"
	"time"

	"github.com/budsjett/budsjett/internal/utils"
	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/transaction"
)

// bindingWindowDays bounds the expiry alerts shown on the dashboard.
const bindingWindowDays = 90

// BuildSummary folds a store snapshot and an owner resolution into the
// dashboard document. It is pure: no I/O, no mutation of the snapshot.
func BuildSummary(snapshot Snapshot, res Resolution, now time.Time) Summary {
	s := Summary{
		CategoryTotals:             categoryTotals(snapshot),
		Monthly:                    monthlySeries(snapshot.Transactions),
		TagTotals:                  tagTotals(snapshot.Transactions),
		PageBalances:               pageBalances(snapshot),
		FixedExpenseTotal:          res.FixedExpenseTotal,
		FixedExpenseCategoryTotals: fixedCategoryTotals(snapshot, res.FixedExpenses),
		FixedExpenseLevelTotals:    fixedLevelTotals(res.FixedExpenses),
		MonthlyNetIncome:           res.MonthlyNetIncome,
		ActiveMonthlyNetIncome:     res.ActiveIncome,
		FreeAfterFixed:             res.FreeAfterFixed,
		BankModeSummary:            bankModeSummary(snapshot, res),
		EffectiveFixedExpenseTotal: res.FixedExpenseTotal,
		BindingExpirations:         bindingExpirations(res.FixedExpenses, now),
		FixedExpensesCount:         len(res.FixedExpenses),
		FixedExpensePriceHistory:   priceHistorySeries(snapshot, res.FixedExpenses),
		MissingIncomeOwners:        res.MissingIncomeOwners,
	}

	for _, t := range snapshot.Transactions {
		switch t.Type {
		case transaction.TypeIncome:
			s.TotalIncome += t.Amount
		case transaction.TypeExpense:
			s.TotalExpense += t.Amount
		}
	}
	s.Net = s.TotalIncome - s.TotalExpense
	return s
}

// categoryTotals sums expense transactions per category. Every category is
// emitted, so income-only categories show an explicit zero.
func categoryTotals(snapshot Snapshot) []CategoryTotal {
	totals := make([]CategoryTotal, 0, len(snapshot.Categories))
	byId := make(map[int]float64)
	for _, t := range snapshot.Transactions {
		if t.Type == transaction.TypeExpense && t.CategoryID != nil {
			byId[*t.CategoryID] += t.Amount
		}
	}
	for _, c := range snapshot.Categories {
		totals = append(totals, CategoryTotal{
			CategoryID: c.ID,
			Name:       c.Name,
			Color:      c.Color,
			Total:      byId[c.ID],
		})
	}
	return totals
}

func monthlySeries(transactions []transaction.Transaction) []MonthlyEntry {
	byPeriod := make(map[string]*MonthlyEntry)
	for _, t := range transactions {
		period, ok := t.Period()
		if !ok {
			continue
		}
		entry, exists := byPeriod[period]
		if !exists {
			entry = &MonthlyEntry{Period: period}
			byPeriod[period] = entry
		}
		switch t.Type {
		case transaction.TypeIncome:
			entry.Income += t.Amount
		case transaction.TypeExpense:
			entry.Expenses += t.Amount
		}
	}
	series := make([]MonthlyEntry, 0, len(byPeriod))
	for _, entry := range byPeriod {
		series = append(series, *entry)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Period < series[j].Period })
	return series
}

// tagTotals nets income against expense per tag. A transaction carrying
// several tags contributes its full amount to each of them.
func tagTotals(transactions []transaction.Transaction) []TagTotal {
	byTag := make(map[string]float64)
	for _, t := range transactions {
		amount := t.Amount
		if t.Type == transaction.TypeExpense {
			amount = -amount
		}
		for _, tag := range t.Tags {
			byTag[tag] += amount
		}
	}
	totals := make([]TagTotal, 0, len(byTag))
	for tag, net := range byTag {
		totals = append(totals, TagTotal{Tag: tag, Net: net})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Tag < totals[j].Tag })
	return totals
}

func pageBalances(snapshot Snapshot) []PageBalance {
	byId := make(map[int]float64)
	for _, t := range snapshot.Transactions {
		if t.PageID == nil {
			continue
		}
		switch t.Type {
		case transaction.TypeIncome:
			byId[*t.PageID] += t.Amount
		case transaction.TypeExpense:
			byId[*t.PageID] -= t.Amount
		}
	}
	balances := make([]PageBalance, 0, len(snapshot.Pages))
	for _, p := range snapshot.Pages {
		balances = append(balances, PageBalance{PageID: p.ID, Name: p.Name, Balance: byId[p.ID]})
	}
	return balances
}

func fixedCategoryTotals(snapshot Snapshot, expenses []fixedexpense.FixedExpense) []FixedCategoryTotal {
	colors := categoryColors(snapshot)
	byCategory := make(map[string]float64)
	for _, e := range expenses {
		byCategory[e.Category] += e.AmountPerMonth
	}
	totals := make([]FixedCategoryTotal, 0, len(byCategory))
	for name, total := range byCategory {
		color, ok := colors[name]
		if !ok {
			color = DefaultCategoryColor
		}
		totals = append(totals, FixedCategoryTotal{Category: name, Color: color, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// fixedLevelTotals always reports all levels, zero or not.
func fixedLevelTotals(expenses []fixedexpense.FixedExpense) []FixedLevelTotal {
	byLevel := make(map[fixedexpense.Level]float64)
	for _, e := range expenses {
		byLevel[e.Level] += e.AmountPerMonth
	}
	totals := make([]FixedLevelTotal, 0, len(fixedexpense.Levels()))
	for _, level := range fixedexpense.Levels() {
		totals = append(totals, FixedLevelTotal{Level: string(level), Total: byLevel[level]})
	}
	return totals
}

func bindingExpirations(expenses []fixedexpense.FixedExpense, now time.Time) []BindingExpiration {
	expirations := []BindingExpiration{}
	for _, e := range expenses {
		if e.BindingEndDate.IsZero() {
			continue
		}
		daysLeft := utils.DaysUntil(now, e.BindingEndDate)
		if daysLeft < 0 || daysLeft > bindingWindowDays {
			continue
		}
		expirations = append(expirations, BindingExpiration{
			ID:                 e.ID,
			Name:               e.Name,
			AmountPerMonth:     e.AmountPerMonth,
			BindingEndDate:     e.BindingEndDate.Format("2006-01-02"),
			DaysLeft:           daysLeft,
			NoticePeriodMonths: e.NoticePeriodMonths,
		})
	}
	sort.Slice(expirations, func(i, j int) bool {
		return expirations[i].BindingEndDate < expirations[j].BindingEndDate
	})
	return expirations
}

// priceHistorySeries reports only expenses whose amount has actually changed.
func priceHistorySeries(snapshot Snapshot, expenses []fixedexpense.FixedExpense) []PriceHistorySeries {
	colors := categoryColors(snapshot)
	series := []PriceHistorySeries{}
	for _, e := range expenses {
		if len(e.PriceHistory) <= 1 {
			continue
		}
		color, ok := colors[e.Category]
		if !ok {
			color = DefaultCategoryColor
		}
		points := make([]PricePoint, 0, len(e.PriceHistory))
		for _, entry := range e.PriceHistory {
			points = append(points, PricePoint{
				Amount:    entry.Amount,
				ChangedAt: entry.ChangedAt.Format(time.RFC3339),
			})
		}
		series = append(series, PriceHistorySeries{
			ID:       e.ID,
			Name:     e.Name,
			Category: e.Category,
			Color:    color,
			History:  points,
		})
	}
	return series
}

func bankModeSummary(snapshot Snapshot, res Resolution) BankModeSummary {
	summary := BankModeSummary{
		Enabled: res.BankModeEnabled,
		Owners:  make([]BankOwnerSummary, 0, len(snapshot.Profiles)),
	}
	for _, p := range snapshot.Profiles {
		income := 0.0
		if p.MonthlyNetIncome != nil {
			income = *p.MonthlyNetIncome
		}
		summary.TotalIncome += income
		summary.TotalContribution += p.SharedContribution
		summary.RemainingPersonal += income - p.SharedContribution
		summary.Owners = append(summary.Owners, BankOwnerSummary{
			Name:               p.Name,
			MonthlyNetIncome:   income,
			SharedContribution: p.SharedContribution,
			RemainingPersonal:  income - p.SharedContribution,
		})
	}
	summary.FreeAfterFixed = summary.TotalContribution - res.FixedExpenseTotal
	return summary
}

func categoryColors(snapshot Snapshot) map[string]string {
	colors := make(map[string]string, len(snapshot.Categories))
	for _, c := range snapshot.Categories {
		colors[c.Name] = c.Color
	}
	return colors
}
