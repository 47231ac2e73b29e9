package fixedexpense

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/budsjett/budsjett/internal/event_bus"
	"github.com/budsjett/budsjett/internal/utils"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidExpense = errors.New("invalid fixed expense")

// Patch carries a partial update. Nil fields are left unchanged; a zero
// time clears the corresponding date, and a non-positive notice period
// clears the notice period.
type Patch struct {
	Name               *string
	AmountPerMonth     *float64
	Category           *string
	Owners             *[]string
	Level              *Level
	StartDate          *time.Time
	BindingEndDate     *time.Time
	NoticePeriodMonths *int
	Note               *string
}

type Service interface {
	GetAll(ctx context.Context) ([]FixedExpense, error)
	Create(ctx context.Context, e FixedExpense) (FixedExpense, error)
	Update(ctx context.Context, id int, patch Patch) (*FixedExpense, error)
	Delete(ctx context.Context, id int) (bool, error)
	// ResetHistory truncates the price history to a single entry carrying
	// the current amount
	ResetHistory(ctx context.Context, id int) (*FixedExpense, error)
}

type ServiceImpl struct {
	repo  Repository
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewService(repo Repository, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus, clock: &utils.SystemClock{}}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]FixedExpense, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) Create(ctx context.Context, e FixedExpense) (FixedExpense, error) {
	if err := validate(&e); err != nil {
		return FixedExpense{}, err
	}

	now := s.clock.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	e.PriceHistory = SeedHistory(e.AmountPerMonth, now)

	id, err := s.repo.Store(ctx, e)
	if err != nil {
		return FixedExpense{}, err
	}
	e.ID = id

	s.publishChanged(ctx, e, false)
	return e, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int, patch Patch) (*FixedExpense, error) {
	e, err := s.repo.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}

	now := s.clock.Now()
	priceChanged := false

	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Owners != nil {
		e.Owners = utils.NormalizeNames(*patch.Owners)
	}
	if patch.Level != nil {
		e.Level = *patch.Level
	}
	if patch.StartDate != nil {
		e.StartDate = *patch.StartDate
	}
	if patch.BindingEndDate != nil {
		e.BindingEndDate = *patch.BindingEndDate
	}
	if patch.NoticePeriodMonths != nil {
		if *patch.NoticePeriodMonths > 0 {
			months := *patch.NoticePeriodMonths
			e.NoticePeriodMonths = &months
		} else {
			e.NoticePeriodMonths = nil
		}
	}
	if patch.Note != nil {
		e.Note = *patch.Note
	}
	if patch.AmountPerMonth != nil {
		before := len(e.PriceHistory)
		e.PriceHistory = ApplyAmountChange(e.PriceHistory, *patch.AmountPerMonth, now)
		e.AmountPerMonth = *patch.AmountPerMonth
		priceChanged = len(e.PriceHistory) > before
	}

	if err := validate(e); err != nil {
		return nil, err
	}
	e.UpdatedAt = now

	updated, err := s.repo.Update(ctx, *e)
	if err != nil {
		return nil, err
	}
	if !updated {
		log.Warnf("fixed expense not updated, probably because it does not exist (%d)", id)
		return nil, nil
	}

	s.publishChanged(ctx, *e, priceChanged)
	return e, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) ResetHistory(ctx context.Context, id int) (*FixedExpense, error) {
	e, err := s.repo.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}

	now := s.clock.Now()
	e.PriceHistory = ResetHistory(e.AmountPerMonth, now)
	e.UpdatedAt = now

	if _, err := s.repo.Update(ctx, *e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *ServiceImpl) publishChanged(ctx context.Context, e FixedExpense, priceChanged bool) {
	err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.FixedExpenseChangedEvent, event_bus.FixedExpenseChanged{
		Id:             e.ID,
		Name:           e.Name,
		AmountPerMonth: e.AmountPerMonth,
		PriceChanged:   priceChanged,
	}))
	if err != nil {
		log.Warnf("fixed expense stored but event handlers failed: %v", err)
	}
}

func validate(e *FixedExpense) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return fmt.Errorf("%w: name must not be blank", ErrInvalidExpense)
	}
	if e.AmountPerMonth < 0 {
		return fmt.Errorf("%w: amountPerMonth must not be negative", ErrInvalidExpense)
	}
	if !e.Level.Valid() {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidExpense, e.Level)
	}
	e.Owners = utils.NormalizeNames(e.Owners)
	return nil
}
