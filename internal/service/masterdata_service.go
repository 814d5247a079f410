package service

import (
	"context"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/types"
)

// ============================================
// Master Data Service
// ============================================

// Master data backs the dropdown vocabularies used by member profiles
// (educational levels, working sectors, genders).
type MasterDataService interface {
	List(ctx context.Context, kind string) ([]string, error)
	Add(ctx context.Context, kind, name string) error

	// Validate returns ErrInvalidInput unless the value exists for the kind.
	Validate(ctx context.Context, kind, value string) error
}

type masterDataService struct {
	masterRepo repository.MasterDataRepository
}

func NewMasterDataService(masterRepo repository.MasterDataRepository) MasterDataService {
	return &masterDataService{masterRepo: masterRepo}
}

var validKinds = map[string]bool{
	types.MasterEducationalLevel: true,
	types.MasterWorkingSector:    true,
	types.MasterGender:           true,
}

func (s *masterDataService) List(ctx context.Context, kind string) ([]string, error) {
	if !validKinds[kind] {
		return nil, ErrInvalidInput
	}
	return s.masterRepo.List(ctx, kind)
}

func (s *masterDataService) Add(ctx context.Context, kind, name string) error {
	if !validKinds[kind] || name == "" {
		return ErrInvalidInput
	}
	return s.masterRepo.Add(ctx, kind, name)
}

func (s *masterDataService) Validate(ctx context.Context, kind, value string) error {
	ok, err := s.masterRepo.Exists(ctx, kind, value)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidInput
	}
	return nil
}
