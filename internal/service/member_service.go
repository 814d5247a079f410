package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sewa-org/sewa-backend/internal/config"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/socket"
	"github.com/sewa-org/sewa-backend/internal/types"
)

// ============================================
// Member Service
// ============================================

type MemberService interface {
	List(ctx context.Context, filter repository.MemberFilter) ([]*repository.Member, error)
	ListPending(ctx context.Context) ([]*repository.Member, error)
	GetByID(ctx context.Context, id int) (*repository.Member, error)
	GetByCode(ctx context.Context, code string) (*repository.Member, error)
	GetByUserID(ctx context.Context, userID int) (*repository.Member, error)

	// Approve assigns the next free membership code, activates the owning
	// login and moves the profile to ACTIVE. Approving an already active
	// profile is a no-op; approving a rejected one fails.
	Approve(ctx context.Context, id int) (*repository.Member, error)

	// Reject moves a pending profile to REJECTED without assigning a code.
	Reject(ctx context.Context, id int) (*repository.Member, error)

	Update(ctx context.Context, member *repository.Member) (*repository.Member, error)

	// UpdateStatus sets the status directly, bypassing transition rules.
	// Admin repair endpoint; no code is assigned or revoked.
	UpdateStatus(ctx context.Context, id int, status string) (*repository.Member, error)

	SoftDelete(ctx context.Context, id int) error
}

type memberService struct {
	cfg         *config.Config
	memberRepo  repository.MemberRepository
	chapterRepo repository.ChapterRepository
	masterData  MasterDataService
	broadcaster *socket.Broadcaster
}

func NewMemberService(
	cfg *config.Config,
	memberRepo repository.MemberRepository,
	chapterRepo repository.ChapterRepository,
	masterData MasterDataService,
	broadcaster *socket.Broadcaster,
) MemberService {
	return &memberService{
		cfg:         cfg,
		memberRepo:  memberRepo,
		chapterRepo: chapterRepo,
		masterData:  masterData,
		broadcaster: broadcaster,
	}
}

func (s *memberService) List(ctx context.Context, filter repository.MemberFilter) ([]*repository.Member, error) {
	if filter.Status != nil && !types.IsValidMembershipStatus(*filter.Status) {
		return nil, ErrInvalidInput
	}
	return s.memberRepo.FindAll(ctx, filter)
}

func (s *memberService) ListPending(ctx context.Context) ([]*repository.Member, error) {
	status := types.StatusPending
	return s.memberRepo.FindAll(ctx, repository.MemberFilter{Status: &status})
}

func (s *memberService) GetByID(ctx context.Context, id int) (*repository.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil || member.IsDeleted {
		return nil, ErrNotFound
	}
	return member, nil
}

func (s *memberService) GetByCode(ctx context.Context, code string) (*repository.Member, error) {
	member, err := s.memberRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if member == nil || member.IsDeleted {
		return nil, ErrNotFound
	}
	return member, nil
}

func (s *memberService) GetByUserID(ctx context.Context, userID int) (*repository.Member, error) {
	member, err := s.memberRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.IsDeleted {
		return nil, ErrNotFound
	}
	return member, nil
}

func (s *memberService) Approve(ctx context.Context, id int) (*repository.Member, error) {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch member.MembershipStatus {
	case types.StatusActive:
		// Already approved, keep the assigned code
		return member, nil
	case types.StatusRejected:
		return nil, ErrInvalidTransition
	}

	// A code already on the record is immutable; only codeless records
	// get one generated.
	if member.MembershipCode != nil {
		member.MembershipStatus = types.StatusActive
		if err := s.memberRepo.SaveApproval(ctx, member); err != nil {
			return nil, err
		}
		s.notifyApproved(member)
		return member, nil
	}

	// The probe below is advisory; the unique constraint on the code column
	// is authoritative. Losing the race surfaces as ErrDuplicateCode and we
	// retry with a fresh candidate, bounded by the configured budget.
	for attempt := 0; attempt < s.cfg.CodeRetryLimit; attempt++ {
		code, err := s.nextCode(ctx)
		if err != nil {
			return nil, err
		}

		member.MembershipCode = &code
		member.MembershipStatus = types.StatusActive

		err = s.memberRepo.SaveApproval(ctx, member)
		if errors.Is(err, repository.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.notifyApproved(member)
		return member, nil
	}

	return nil, ErrCodeExhausted
}

func (s *memberService) notifyApproved(member *repository.Member) {
	if s.broadcaster != nil && member.UserID != nil {
		s.broadcaster.SendMemberApproved(*member.UserID, map[string]interface{}{
			"memberId":       member.ID,
			"membershipCode": *member.MembershipCode,
		})
	}
}

// nextCode derives a candidate from the highest already-coded member id and
// probes forward until it finds a code no row currently holds.
func (s *memberService) nextCode(ctx context.Context) (string, error) {
	last, err := s.memberRepo.LastCodedID(ctx)
	if err != nil {
		return "", err
	}
	next := last + 1
	for {
		candidate := fmt.Sprintf("%s%03d", types.MemberCodePrefix, next)
		existing, err := s.memberRepo.FindByCode(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		next++
	}
}

func (s *memberService) Reject(ctx context.Context, id int) (*repository.Member, error) {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch member.MembershipStatus {
	case types.StatusRejected:
		return member, nil
	case types.StatusActive:
		return nil, ErrInvalidTransition
	}

	if err := s.memberRepo.UpdateStatus(ctx, id, types.StatusRejected); err != nil {
		return nil, err
	}
	member.MembershipStatus = types.StatusRejected

	if s.broadcaster != nil && member.UserID != nil {
		s.broadcaster.SendMemberRejected(*member.UserID, map[string]interface{}{
			"memberId": member.ID,
		})
	}
	return member, nil
}

func (s *memberService) Update(ctx context.Context, member *repository.Member) (*repository.Member, error) {
	existing, err := s.GetByID(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	if member.FullName == "" {
		return nil, ErrInvalidInput
	}

	if err := s.validateProfile(ctx, member); err != nil {
		return nil, err
	}

	// Code and status are lifecycle-owned, never updatable through here
	member.MembershipCode = existing.MembershipCode
	member.MembershipStatus = existing.MembershipStatus
	member.UserID = existing.UserID
	member.IsDeleted = existing.IsDeleted

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *memberService) validateProfile(ctx context.Context, member *repository.Member) error {
	if member.ChapterID != nil {
		chapter, err := s.chapterRepo.FindByID(ctx, *member.ChapterID)
		if err != nil {
			return err
		}
		if chapter == nil {
			return ErrInvalidInput
		}
	}
	if member.EducationalLevel != nil {
		if err := s.masterData.Validate(ctx, types.MasterEducationalLevel, *member.EducationalLevel); err != nil {
			return err
		}
	}
	if member.WorkingSector != nil {
		if err := s.masterData.Validate(ctx, types.MasterWorkingSector, *member.WorkingSector); err != nil {
			return err
		}
	}
	if member.Gender != nil {
		if err := s.masterData.Validate(ctx, types.MasterGender, *member.Gender); err != nil {
			return err
		}
	}
	return nil
}

func (s *memberService) UpdateStatus(ctx context.Context, id int, status string) (*repository.Member, error) {
	if !types.IsValidMembershipStatus(status) {
		return nil, ErrInvalidInput
	}
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.memberRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	member.MembershipStatus = status
	return member, nil
}

// SoftDelete flags the profile only; the owning login is left untouched.
func (s *memberService) SoftDelete(ctx context.Context, id int) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.memberRepo.SoftDelete(ctx, id)
}
