package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/budsjett/budsjett/internal/event_bus"
	"github.com/budsjett/budsjett/internal/utils"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidTransaction = errors.New("invalid transaction")

type Service interface {
	GetAll(ctx context.Context) ([]Transaction, error)
	Create(ctx context.Context, t Transaction) (Transaction, error)
	Update(ctx context.Context, t Transaction) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	DeleteAll(ctx context.Context) (int, error)
}

type ServiceImpl struct {
	repo Repository
	bus  *event_bus.EventBus
}

func NewService(repo Repository, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Transaction, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) Create(ctx context.Context, t Transaction) (Transaction, error) {
	if err := validate(&t); err != nil {
		return Transaction{}, err
	}

	id, err := s.repo.Store(ctx, t)
	if err != nil {
		return Transaction{}, err
	}
	t.ID = id

	err = s.bus.Publish(event_bus.NewEvent(ctx, event_bus.TransactionCreatedEvent, event_bus.TransactionCreated{
		Id:         t.ID,
		Title:      t.Title,
		Amount:     t.Amount,
		Type:       string(t.Type),
		CategoryId: t.CategoryID,
		PageId:     t.PageID,
		Tags:       t.Tags,
		OccurredOn: t.OccurredOn,
	}))
	if err != nil {
		log.Warnf("transaction created but event handlers failed: %v", err)
	}

	return t, nil
}

func (s *ServiceImpl) Update(ctx context.Context, t Transaction) (bool, error) {
	if err := validate(&t); err != nil {
		return false, err
	}
	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("transaction not updated, probably because it does not exist (%d)", t.ID)
	}
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) DeleteAll(ctx context.Context) (int, error) {
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.TransactionsClearedEvent, nil)); err != nil {
		log.Warnf("transactions cleared but event handlers failed: %v", err)
	}
	return removed, nil
}

func validate(t *Transaction) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return fmt.Errorf("%w: title must not be blank", ErrInvalidTransaction)
	}
	if t.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidTransaction)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, t.Type)
	}
	t.Tags = utils.NormalizeNames(t.Tags)
	return nil
}
