package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/budsjett/budsjett/internal/utils"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrInvalidProfile  = errors.New("invalid owner profile")
	ErrProfileNotFound = errors.New("owner profile not found")
)

type Service interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, s Settings) (Settings, error)
	GetProfiles(ctx context.Context) ([]OwnerProfile, error)
	CreateProfile(ctx context.Context, p OwnerProfile) (OwnerProfile, error)
	UpdateProfile(ctx context.Context, p OwnerProfile) (bool, error)
	// RenameOwner renames the profile and cascades the new name into every
	// fixed expense and the default-owner list
	RenameOwner(ctx context.Context, profileId int, newName string) error
	// DeleteOwner deletes the profile and strips the name everywhere
	DeleteOwner(ctx context.Context, profileId int) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Get(ctx context.Context) (Settings, error) {
	return s.repo.GetSettings(ctx)
}

func (s *ServiceImpl) Update(ctx context.Context, settings Settings) (Settings, error) {
	if settings.MonthlyNetIncome < 0 {
		return Settings{}, fmt.Errorf("%w: monthlyNetIncome must not be negative", ErrInvalidSettings)
	}
	settings.DefaultFixedExpensesOwners = utils.NormalizeNames(settings.DefaultFixedExpensesOwners)
	settings.BankAccounts = utils.NormalizeNames(settings.BankAccounts)

	if err := s.repo.UpdateSettings(ctx, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s *ServiceImpl) GetProfiles(ctx context.Context) ([]OwnerProfile, error) {
	return s.repo.GetProfiles(ctx)
}

func (s *ServiceImpl) CreateProfile(ctx context.Context, p OwnerProfile) (OwnerProfile, error) {
	if err := validateProfile(&p); err != nil {
		return OwnerProfile{}, err
	}
	if err := s.ensureUniqueName(ctx, p.Name, 0); err != nil {
		return OwnerProfile{}, err
	}

	id, err := s.repo.StoreProfile(ctx, p)
	if err != nil {
		return OwnerProfile{}, err
	}
	p.ID = id
	return p, nil
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, p OwnerProfile) (bool, error) {
	if err := validateProfile(&p); err != nil {
		return false, err
	}

	existing, err := s.repo.GetProfileById(ctx, p.ID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if existing.Name != p.Name {
		// A name change through the profile endpoint is still a rename and
		// must cascade through the fixed expenses
		if err := s.ensureUniqueName(ctx, p.Name, p.ID); err != nil {
			return false, err
		}
		if err := s.repo.RenameOwner(ctx, existing.Name, p.Name); err != nil {
			return false, err
		}
	}
	return s.repo.UpdateProfile(ctx, p)
}

func (s *ServiceImpl) RenameOwner(ctx context.Context, profileId int, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: name must not be blank", ErrInvalidProfile)
	}

	profile, err := s.repo.GetProfileById(ctx, profileId)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}
	if profile.Name == newName {
		return nil
	}
	if err := s.ensureUniqueName(ctx, newName, profileId); err != nil {
		return err
	}

	log.Infof("renaming owner %q to %q", profile.Name, newName)
	return s.repo.RenameOwner(ctx, profile.Name, newName)
}

func (s *ServiceImpl) DeleteOwner(ctx context.Context, profileId int) error {
	profile, err := s.repo.GetProfileById(ctx, profileId)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}

	log.Infof("deleting owner %q", profile.Name)
	return s.repo.RemoveOwner(ctx, profile.Name)
}

func (s *ServiceImpl) ensureUniqueName(ctx context.Context, name string, selfId int) error {
	profiles, err := s.repo.GetProfiles(ctx)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if p.Name == name && p.ID != selfId {
			return fmt.Errorf("%w: an owner named %q already exists", ErrInvalidProfile, name)
		}
	}
	return nil
}

func validateProfile(p *OwnerProfile) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name must not be blank", ErrInvalidProfile)
	}
	if p.MonthlyNetIncome != nil && *p.MonthlyNetIncome < 0 {
		return fmt.Errorf("%w: monthlyNetIncome must not be negative", ErrInvalidProfile)
	}
	if p.SharedContribution < 0 {
		return fmt.Errorf("%w: sharedContribution must not be negative", ErrInvalidProfile)
	}
	for account, amount := range p.BankContributions {
		if amount < 0 {
			return fmt.Errorf("%w: contribution to %q must not be negative", ErrInvalidProfile, account)
		}
	}
	return nil
}
