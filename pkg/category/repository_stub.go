package category

import "context"

type RepositoryStub struct {
	nextId int
	data   map[int]Category
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: map[int]Category{}}
}

func (s *RepositoryStub) Store(ctx context.Context, category Category) (int, error) {
	s.nextId++
	category.ID = s.nextId
	s.data[category.ID] = category
	return category.ID, nil
}

func (s *RepositoryStub) GetAll(ctx context.Context) ([]Category, error) {
	categories := make([]Category, 0, len(s.data))
	for id := 1; id <= s.nextId; id++ {
		if c, ok := s.data[id]; ok {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func (s *RepositoryStub) Update(ctx context.Context, category Category) (bool, error) {
	if _, ok := s.data[category.ID]; !ok {
		return false, nil
	}
	s.data[category.ID] = category
	return true, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, categoryId int) (bool, error) {
	if _, ok := s.data[categoryId]; !ok {
		return false, nil
	}
	delete(s.data, categoryId)
	return true, nil
}

func (s *RepositoryStub) Cleanup() {
	s.data = map[int]Category{}
	s.nextId = 0
}
