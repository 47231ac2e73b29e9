package fixedexpense

import (
	"sort"
	"time"
)

// SeedHistory builds the initial one-entry ledger for a new expense.
func SeedHistory(amount float64, now time.Time) []PriceEntry {
	return []PriceEntry{{Amount: amount, ChangedAt: now}}
}

// ApplyAmountChange appends a ledger entry when the new amount differs from
// the last recorded one. Writing the same amount again leaves the history
// untouched, so repeated no-op saves never grow the ledger.
func ApplyAmountChange(history []PriceEntry, amount float64, now time.Time) []PriceEntry {
	if len(history) > 0 && history[len(history)-1].Amount == amount {
		return history
	}
	return append(history, PriceEntry{Amount: amount, ChangedAt: now})
}

// ResetHistory truncates the ledger to a single entry carrying the current
// amount. Used to recover from accidental imports of noisy history.
func ResetHistory(amount float64, now time.Time) []PriceEntry {
	return []PriceEntry{{Amount: amount, ChangedAt: now}}
}

// NormalizeHistory repairs an externally supplied ledger: entries without a
// timestamp are dropped, the rest are sorted chronologically and collapsed
// so no two consecutive entries carry the same amount. When the resulting
// last amount disagrees with the declared amountPerMonth a synthetic
// trailing entry is appended at the fallback timestamp, so the invariant
// (last entry == current amount) holds after every import.
func NormalizeHistory(entries []PriceEntry, amount float64, fallback time.Time) []PriceEntry {
	kept := make([]PriceEntry, 0, len(entries))
	for _, e := range entries {
		if e.ChangedAt.IsZero() {
			continue
		}
		kept = append(kept, e)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].ChangedAt.Before(kept[j].ChangedAt)
	})

	collapsed := kept[:0]
	for _, e := range kept {
		if len(collapsed) > 0 && collapsed[len(collapsed)-1].Amount == e.Amount {
			continue
		}
		collapsed = append(collapsed, e)
	}

	if len(collapsed) == 0 || collapsed[len(collapsed)-1].Amount != amount {
		collapsed = append(collapsed, PriceEntry{Amount: amount, ChangedAt: fallback})
	}
	return collapsed
}
