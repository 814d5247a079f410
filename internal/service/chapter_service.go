package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/socket"
	"github.com/sewa-org/sewa-backend/internal/types"
)

// ============================================
// Chapter Service
// ============================================

type ChapterService interface {
	Create(ctx context.Context, chapter *repository.Chapter) (*repository.Chapter, error)
	GetByID(ctx context.Context, id int) (*repository.Chapter, error)
	List(ctx context.Context) ([]*repository.Chapter, error)
	Update(ctx context.Context, chapter *repository.Chapter) (*repository.Chapter, error)

	// AssignMember affiliates an active member with a chapter. A member may
	// belong to several chapters but only once to each.
	AssignMember(ctx context.Context, chapterID, memberID int, roleInChapter string) (*repository.ChapterMember, error)
	UpdateMemberRole(ctx context.Context, chapterID, memberID int, roleInChapter string) (*repository.ChapterMember, error)
	RemoveMember(ctx context.Context, chapterID, memberID int) error
	ListMembers(ctx context.Context, chapterID int) ([]*repository.ChapterMember, error)
}

type chapterService struct {
	chapterRepo repository.ChapterRepository
	memberRepo  repository.MemberRepository
	broadcaster *socket.Broadcaster
}

func NewChapterService(
	chapterRepo repository.ChapterRepository,
	memberRepo repository.MemberRepository,
	broadcaster *socket.Broadcaster,
) ChapterService {
	return &chapterService{
		chapterRepo: chapterRepo,
		memberRepo:  memberRepo,
		broadcaster: broadcaster,
	}
}

func (s *chapterService) Create(ctx context.Context, chapter *repository.Chapter) (*repository.Chapter, error) {
	if chapter.ChapterName == "" {
		return nil, ErrInvalidInput
	}
	if err := s.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *chapterService) GetByID(ctx context.Context, id int) (*repository.Chapter, error) {
	chapter, err := s.chapterRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if chapter == nil {
		return nil, ErrNotFound
	}
	return chapter, nil
}

func (s *chapterService) List(ctx context.Context) ([]*repository.Chapter, error) {
	return s.chapterRepo.FindAll(ctx)
}

func (s *chapterService) Update(ctx context.Context, chapter *repository.Chapter) (*repository.Chapter, error) {
	if _, err := s.GetByID(ctx, chapter.ID); err != nil {
		return nil, err
	}
	if chapter.ChapterName == "" {
		return nil, ErrInvalidInput
	}
	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *chapterService) AssignMember(ctx context.Context, chapterID, memberID int, roleInChapter string) (*repository.ChapterMember, error) {
	if _, err := s.GetByID(ctx, chapterID); err != nil {
		return nil, err
	}
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.IsDeleted {
		return nil, ErrNotFound
	}
	if member.MembershipStatus != types.StatusActive {
		return nil, ErrInvalidInput
	}

	if roleInChapter == "" {
		roleInChapter = "MEMBER"
	}

	cm := &repository.ChapterMember{
		ChapterID:     chapterID,
		MemberID:      memberID,
		RoleInChapter: roleInChapter,
	}
	if err := s.chapterRepo.AssignMember(ctx, cm); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastChapterAssignment(chapterRoom(chapterID), true, map[string]interface{}{
			"chapterId":     chapterID,
			"memberId":      memberID,
			"roleInChapter": roleInChapter,
		})
	}
	return cm, nil
}

func (s *chapterService) UpdateMemberRole(ctx context.Context, chapterID, memberID int, roleInChapter string) (*repository.ChapterMember, error) {
	if roleInChapter == "" {
		return nil, ErrInvalidInput
	}
	cm, err := s.chapterRepo.FindChapterMember(ctx, chapterID, memberID)
	if err != nil {
		return nil, err
	}
	if cm == nil {
		return nil, ErrNotFound
	}
	if err := s.chapterRepo.UpdateMemberRole(ctx, chapterID, memberID, roleInChapter); err != nil {
		return nil, err
	}
	cm.RoleInChapter = roleInChapter
	return cm, nil
}

func (s *chapterService) RemoveMember(ctx context.Context, chapterID, memberID int) error {
	cm, err := s.chapterRepo.FindChapterMember(ctx, chapterID, memberID)
	if err != nil {
		return err
	}
	if cm == nil {
		return ErrNotFound
	}
	if err := s.chapterRepo.RemoveMember(ctx, chapterID, memberID); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastChapterAssignment(chapterRoom(chapterID), false, map[string]interface{}{
			"chapterId": chapterID,
			"memberId":  memberID,
		})
	}
	return nil
}

func (s *chapterService) ListMembers(ctx context.Context, chapterID int) ([]*repository.ChapterMember, error) {
	if _, err := s.GetByID(ctx, chapterID); err != nil {
		return nil, err
	}
	return s.chapterRepo.FindChapterMembers(ctx, chapterID)
}

func chapterRoom(chapterID int) string {
	return fmt.Sprintf("chapter:%d", chapterID)
}
