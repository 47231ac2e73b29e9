package settings

import "context"

// RepositoryStub keeps settings and profiles in memory. The owner cascade
// rewrites expense owner lists through the ExpenseOwners field so resolver
// and service tests can observe it.
type RepositoryStub struct {
	settings      Settings
	nextProfileId int
	profiles      map[int]OwnerProfile
	ExpenseOwners map[int][]string
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		settings:      Settings{DefaultFixedExpensesOwners: []string{}, BankAccounts: []string{}},
		profiles:      map[int]OwnerProfile{},
		ExpenseOwners: map[int][]string{},
	}
}

func (s *RepositoryStub) GetSettings(ctx context.Context) (Settings, error) {
	return s.settings, nil
}

func (s *RepositoryStub) UpdateSettings(ctx context.Context, settings Settings) error {
	s.settings = settings
	return nil
}

func (s *RepositoryStub) GetProfiles(ctx context.Context) ([]OwnerProfile, error) {
	profiles := make([]OwnerProfile, 0, len(s.profiles))
	for id := 1; id <= s.nextProfileId; id++ {
		if p, ok := s.profiles[id]; ok {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (s *RepositoryStub) GetProfileById(ctx context.Context, id int) (*OwnerProfile, error) {
	if p, ok := s.profiles[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *RepositoryStub) StoreProfile(ctx context.Context, p OwnerProfile) (int, error) {
	s.nextProfileId++
	p.ID = s.nextProfileId
	s.profiles[p.ID] = p
	return p.ID, nil
}

func (s *RepositoryStub) UpdateProfile(ctx context.Context, p OwnerProfile) (bool, error) {
	if _, ok := s.profiles[p.ID]; !ok {
		return false, nil
	}
	s.profiles[p.ID] = p
	return true, nil
}

func (s *RepositoryStub) RenameOwner(ctx context.Context, oldName string, newName string) error {
	s.rewrite(oldName, &newName)
	return nil
}

func (s *RepositoryStub) RemoveOwner(ctx context.Context, name string) error {
	s.rewrite(name, nil)
	return nil
}

func (s *RepositoryStub) rewrite(name string, replacement *string) {
	for id, p := range s.profiles {
		if p.Name != name {
			continue
		}
		if replacement == nil {
			delete(s.profiles, id)
		} else {
			p.Name = *replacement
			s.profiles[id] = p
		}
	}
	s.settings.DefaultFixedExpensesOwners, _ = replaceName(s.settings.DefaultFixedExpensesOwners, name, replacement)
	for id, owners := range s.ExpenseOwners {
		s.ExpenseOwners[id], _ = replaceName(owners, name, replacement)
	}
}

func (s *RepositoryStub) Cleanup() {
	s.settings = Settings{DefaultFixedExpensesOwners: []string{}, BankAccounts: []string{}}
	s.profiles = map[int]OwnerProfile{}
	s.ExpenseOwners = map[int][]string{}
	s.nextProfileId = 0
}
