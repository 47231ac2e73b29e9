package backup

import "context"

type RepositoryStub struct {
	Replaced []Store
	Err      error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (r *RepositoryStub) ReplaceAll(_ context.Context, store Store) error {
	if r.Err != nil {
		return r.Err
	}
	r.Replaced = append(r.Replaced, store)
	return nil
}
