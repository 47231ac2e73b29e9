package page

import "context"

type RepositoryStub struct {
	nextId int
	data   map[int]Page
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: map[int]Page{}}
}

func (s *RepositoryStub) Store(ctx context.Context, page Page) (int, error) {
	s.nextId++
	page.ID = s.nextId
	s.data[page.ID] = page
	return page.ID, nil
}

func (s *RepositoryStub) GetAll(ctx context.Context) ([]Page, error) {
	pages := make([]Page, 0, len(s.data))
	for id := 1; id <= s.nextId; id++ {
		if p, ok := s.data[id]; ok {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

func (s *RepositoryStub) Update(ctx context.Context, page Page) (bool, error) {
	if _, ok := s.data[page.ID]; !ok {
		return false, nil
	}
	s.data[page.ID] = page
	return true, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, pageId int) (bool, error) {
	if _, ok := s.data[pageId]; !ok {
		return false, nil
	}
	delete(s.data, pageId)
	return true, nil
}

func (s *RepositoryStub) Cleanup() {
	s.data = map[int]Page{}
	s.nextId = 0
}
