package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/types"
)

// ============================================
// Membership Fee Service
// ============================================

type FeeService interface {
	// Record stores a fee payment for an active member. A missing
	// transaction reference gets a generated one; a duplicate reference
	// is a conflict.
	Record(ctx context.Context, fee *repository.MembershipFee) (*repository.MembershipFee, error)
	GetByID(ctx context.Context, id int) (*repository.MembershipFee, error)
	ListByMember(ctx context.Context, memberID int) ([]*repository.MembershipFee, error)
	List(ctx context.Context, filter repository.FeeFilter) ([]*repository.MembershipFee, error)

	// Verify marks a pending payment as PAID.
	Verify(ctx context.Context, id int) (*repository.MembershipFee, error)

	Update(ctx context.Context, fee *repository.MembershipFee) (*repository.MembershipFee, error)
	Delete(ctx context.Context, id int) error
	TotalsByYear(ctx context.Context) (map[string]decimal.Decimal, error)
}

type feeService struct {
	feeRepo    repository.FeeRepository
	memberRepo repository.MemberRepository
}

func NewFeeService(feeRepo repository.FeeRepository, memberRepo repository.MemberRepository) FeeService {
	return &feeService{feeRepo: feeRepo, memberRepo: memberRepo}
}

func (s *feeService) Record(ctx context.Context, fee *repository.MembershipFee) (*repository.MembershipFee, error) {
	if fee.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidInput
	}
	if fee.FinancialYear == "" {
		return nil, ErrInvalidInput
	}
	if fee.PaymentStatus == "" {
		fee.PaymentStatus = types.PaymentPending
	}
	if !types.IsValidPaymentStatus(fee.PaymentStatus) {
		return nil, ErrInvalidInput
	}

	member, err := s.memberRepo.FindByID(ctx, fee.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.IsDeleted {
		return nil, ErrNotFound
	}
	if member.MembershipStatus != types.StatusActive {
		return nil, ErrInvalidInput
	}

	if fee.PaymentDate.IsZero() {
		fee.PaymentDate = time.Now()
	}
	if fee.TransactionID == nil {
		ref := uuid.New().String()
		fee.TransactionID = &ref
	}

	if err := s.feeRepo.Create(ctx, fee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return fee, nil
}

func (s *feeService) GetByID(ctx context.Context, id int) (*repository.MembershipFee, error) {
	fee, err := s.feeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, ErrNotFound
	}
	return fee, nil
}

func (s *feeService) ListByMember(ctx context.Context, memberID int) ([]*repository.MembershipFee, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.IsDeleted {
		return nil, ErrNotFound
	}
	return s.feeRepo.FindByMemberID(ctx, memberID)
}

func (s *feeService) List(ctx context.Context, filter repository.FeeFilter) ([]*repository.MembershipFee, error) {
	if filter.PaymentStatus != nil && !types.IsValidPaymentStatus(*filter.PaymentStatus) {
		return nil, ErrInvalidInput
	}
	return s.feeRepo.FindAll(ctx, filter)
}

func (s *feeService) Verify(ctx context.Context, id int) (*repository.MembershipFee, error) {
	fee, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fee.PaymentStatus == types.PaymentPaid {
		return fee, nil
	}
	fee.PaymentStatus = types.PaymentPaid
	if err := s.feeRepo.Update(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

func (s *feeService) Update(ctx context.Context, fee *repository.MembershipFee) (*repository.MembershipFee, error) {
	existing, err := s.GetByID(ctx, fee.ID)
	if err != nil {
		return nil, err
	}
	if fee.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidInput
	}
	if !types.IsValidPaymentStatus(fee.PaymentStatus) {
		return nil, ErrInvalidInput
	}

	fee.MemberID = existing.MemberID

	if err := s.feeRepo.Update(ctx, fee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return fee, nil
}

func (s *feeService) Delete(ctx context.Context, id int) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.feeRepo.Delete(ctx, id)
}

func (s *feeService) TotalsByYear(ctx context.Context) (map[string]decimal.Decimal, error) {
	return s.feeRepo.TotalsByYear(ctx)
}
