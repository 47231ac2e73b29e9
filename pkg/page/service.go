package page

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPage = errors.New("invalid page")

type Service interface {
	GetAll(ctx context.Context) ([]Page, error)
	Create(ctx context.Context, page Page) (Page, error)
	Update(ctx context.Context, page Page) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Page, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) Create(ctx context.Context, page Page) (Page, error) {
	page.Name = strings.TrimSpace(page.Name)
	if page.Name == "" {
		return Page{}, fmt.Errorf("%w: name must not be blank", ErrInvalidPage)
	}
	id, err := s.repo.Store(ctx, page)
	if err != nil {
		return Page{}, err
	}
	page.ID = id
	return page, nil
}

func (s *ServiceImpl) Update(ctx context.Context, page Page) (bool, error) {
	page.Name = strings.TrimSpace(page.Name)
	if page.Name == "" {
		return false, fmt.Errorf("%w: name must not be blank", ErrInvalidPage)
	}
	return s.repo.Update(ctx, page)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, id)
}
