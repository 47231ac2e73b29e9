package fixedexpense

import "context"

type RepositoryStub struct {
	nextId int
	data   map[int]FixedExpense
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: map[int]FixedExpense{}}
}

func (s *RepositoryStub) Store(ctx context.Context, e FixedExpense) (int, error) {
	s.nextId++
	e.ID = s.nextId
	s.data[e.ID] = e
	return e.ID, nil
}

func (s *RepositoryStub) GetAll(ctx context.Context) ([]FixedExpense, error) {
	expenses := make([]FixedExpense, 0, len(s.data))
	for id := 1; id <= s.nextId; id++ {
		if e, ok := s.data[id]; ok {
			expenses = append(expenses, e)
		}
	}
	return expenses, nil
}

func (s *RepositoryStub) GetById(ctx context.Context, id int) (*FixedExpense, error) {
	if e, ok := s.data[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *RepositoryStub) Update(ctx context.Context, e FixedExpense) (bool, error) {
	if _, ok := s.data[e.ID]; !ok {
		return false, nil
	}
	s.data[e.ID] = e
	return true, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *RepositoryStub) Cleanup() {
	s.data = map[int]FixedExpense{}
	s.nextId = 0
}
