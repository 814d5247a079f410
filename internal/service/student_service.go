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
// Student Service
// ============================================

// Students follow the same lifecycle as members but carry their own code
// namespace and a slimmer profile.
type StudentService interface {
	List(ctx context.Context, filter repository.StudentFilter) ([]*repository.Student, error)
	ListPending(ctx context.Context) ([]*repository.Student, error)
	GetByID(ctx context.Context, id int) (*repository.Student, error)
	GetByCode(ctx context.Context, code string) (*repository.Student, error)
	GetByUserID(ctx context.Context, userID int) (*repository.Student, error)
	Approve(ctx context.Context, id int) (*repository.Student, error)
	Reject(ctx context.Context, id int) (*repository.Student, error)
	Update(ctx context.Context, student *repository.Student) (*repository.Student, error)
	UpdateStatus(ctx context.Context, id int, status string) (*repository.Student, error)
	SoftDelete(ctx context.Context, id int) error
}

type studentService struct {
	cfg         *config.Config
	studentRepo repository.StudentRepository
	chapterRepo repository.ChapterRepository
	broadcaster *socket.Broadcaster
}

func NewStudentService(
	cfg *config.Config,
	studentRepo repository.StudentRepository,
	chapterRepo repository.ChapterRepository,
	broadcaster *socket.Broadcaster,
) StudentService {
	return &studentService{
		cfg:         cfg,
		studentRepo: studentRepo,
		chapterRepo: chapterRepo,
		broadcaster: broadcaster,
	}
}

func (s *studentService) List(ctx context.Context, filter repository.StudentFilter) ([]*repository.Student, error) {
	if filter.Status != nil && !types.IsValidMembershipStatus(*filter.Status) {
		return nil, ErrInvalidInput
	}
	return s.studentRepo.FindAll(ctx, filter)
}

func (s *studentService) ListPending(ctx context.Context) ([]*repository.Student, error) {
	status := types.StatusPending
	return s.studentRepo.FindAll(ctx, repository.StudentFilter{Status: &status})
}

func (s *studentService) GetByID(ctx context.Context, id int) (*repository.Student, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil || student.IsDeleted {
		return nil, ErrNotFound
	}
	return student, nil
}

func (s *studentService) GetByCode(ctx context.Context, code string) (*repository.Student, error) {
	student, err := s.studentRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if student == nil || student.IsDeleted {
		return nil, ErrNotFound
	}
	return student, nil
}

func (s *studentService) GetByUserID(ctx context.Context, userID int) (*repository.Student, error) {
	student, err := s.studentRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.IsDeleted {
		return nil, ErrNotFound
	}
	return student, nil
}

func (s *studentService) Approve(ctx context.Context, id int) (*repository.Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch student.Status {
	case types.StatusActive:
		return student, nil
	case types.StatusRejected:
		return nil, ErrInvalidTransition
	}

	// A code already on the record is immutable; only codeless records
	// get one generated.
	if student.MembershipCode != nil {
		student.Status = types.StatusActive
		if err := s.studentRepo.SaveApproval(ctx, student); err != nil {
			return nil, err
		}
		s.notifyApproved(student)
		return student, nil
	}

	for attempt := 0; attempt < s.cfg.CodeRetryLimit; attempt++ {
		code, err := s.nextCode(ctx)
		if err != nil {
			return nil, err
		}

		student.MembershipCode = &code
		student.Status = types.StatusActive

		err = s.studentRepo.SaveApproval(ctx, student)
		if errors.Is(err, repository.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.notifyApproved(student)
		return student, nil
	}

	return nil, ErrCodeExhausted
}

func (s *studentService) notifyApproved(student *repository.Student) {
	if s.broadcaster != nil && student.UserID != nil {
		s.broadcaster.SendStudentApproved(*student.UserID, map[string]interface{}{
			"studentId":      student.ID,
			"membershipCode": *student.MembershipCode,
		})
	}
}

func (s *studentService) nextCode(ctx context.Context) (string, error) {
	last, err := s.studentRepo.LastCodedID(ctx)
	if err != nil {
		return "", err
	}
	next := last + 1
	for {
		candidate := fmt.Sprintf("%s%03d", types.StudentCodePrefix, next)
		existing, err := s.studentRepo.FindByCode(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		next++
	}
}

func (s *studentService) Reject(ctx context.Context, id int) (*repository.Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch student.Status {
	case types.StatusRejected:
		return student, nil
	case types.StatusActive:
		return nil, ErrInvalidTransition
	}

	if err := s.studentRepo.UpdateStatus(ctx, id, types.StatusRejected); err != nil {
		return nil, err
	}
	student.Status = types.StatusRejected

	if s.broadcaster != nil && student.UserID != nil {
		s.broadcaster.SendStudentRejected(*student.UserID, map[string]interface{}{
			"studentId": student.ID,
		})
	}
	return student, nil
}

func (s *studentService) Update(ctx context.Context, student *repository.Student) (*repository.Student, error) {
	existing, err := s.GetByID(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if student.FullName == "" {
		return nil, ErrInvalidInput
	}
	if student.ChapterID != nil {
		chapter, err := s.chapterRepo.FindByID(ctx, *student.ChapterID)
		if err != nil {
			return nil, err
		}
		if chapter == nil {
			return nil, ErrInvalidInput
		}
	}

	student.MembershipCode = existing.MembershipCode
	student.Status = existing.Status
	student.UserID = existing.UserID
	student.IsDeleted = existing.IsDeleted

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) UpdateStatus(ctx context.Context, id int, status string) (*repository.Student, error) {
	if !types.IsValidMembershipStatus(status) {
		return nil, ErrInvalidInput
	}
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.studentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	student.Status = status
	return student, nil
}

// SoftDelete flags the profile only; the owning login is left untouched.
func (s *studentService) SoftDelete(ctx context.Context, id int) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.studentRepo.SoftDelete(ctx, id)
}
