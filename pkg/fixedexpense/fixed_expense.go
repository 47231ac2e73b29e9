package fixedexpense

import "time"

// Level classifies how negotiable a recurring cost is. The three values
// are fixed and every breakdown reports all of them.
type Level string

const (
	LevelMustHave   Level = "Må-ha"
	LevelNiceToHave Level = "Kjekt å ha"
	LevelLuxury     Level = "Luksus"
)

func Levels() []Level {
	return []Level{LevelMustHave, LevelNiceToHave, LevelLuxury}
}

func (l Level) Valid() bool {
	return l == LevelMustHave || l == LevelNiceToHave || l == LevelLuxury
}

// PriceEntry is one point in the append-only ledger of amount changes.
type PriceEntry struct {
	Amount    float64
	ChangedAt time.Time
}

// FixedExpense is a recurring monthly cost. Owners are free-text names
// matched against OwnerProfile.Name; they are not foreign keys.
type FixedExpense struct {
	ID                 int
	Name               string
	AmountPerMonth     float64
	Category           string
	Owners             []string
	Level              Level
	StartDate          time.Time
	BindingEndDate     time.Time
	NoticePeriodMonths *int
	Note               string
	// PriceHistory is never empty and its last entry always equals AmountPerMonth
	PriceHistory []PriceEntry
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnedByAny reports whether the expense's owner list intersects the given
// owners. An empty argument matches every expense; an expense without owners
// matches nothing but the empty argument.
func (e FixedExpense) OwnedByAny(owners []string) bool {
	if len(owners) == 0 {
		return true
	}
	for _, owner := range owners {
		for _, name := range e.Owners {
			if name == owner {
				return true
			}
		}
	}
	return false
}
