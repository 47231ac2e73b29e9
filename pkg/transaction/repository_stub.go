package transaction

import "context"

type RepositoryStub struct {
	nextId int
	data   map[int]Transaction
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: map[int]Transaction{}}
}

func (s *RepositoryStub) Store(ctx context.Context, t Transaction) (int, error) {
	s.nextId++
	t.ID = s.nextId
	s.data[t.ID] = t
	return t.ID, nil
}

func (s *RepositoryStub) GetAll(ctx context.Context) ([]Transaction, error) {
	transactions := make([]Transaction, 0, len(s.data))
	for id := 1; id <= s.nextId; id++ {
		if t, ok := s.data[id]; ok {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

func (s *RepositoryStub) Update(ctx context.Context, t Transaction) (bool, error) {
	if _, ok := s.data[t.ID]; !ok {
		return false, nil
	}
	s.data[t.ID] = t
	return true, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *RepositoryStub) DeleteAll(ctx context.Context) (int, error) {
	removed := len(s.data)
	s.data = map[int]Transaction{}
	return removed, nil
}

func (s *RepositoryStub) Cleanup() {
	s.data = map[int]Transaction{}
	s.nextId = 0
}
