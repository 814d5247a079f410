package service

import (
	"context"
	"log"
	"time"

	"github.com/sewa-org/sewa-backend/internal/config"
	"github.com/sewa-org/sewa-backend/internal/db"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/socket"
)

// ============================================
// Notice Service
// ============================================

const publishedNoticesCacheKey = "notices:published"

type NoticeService interface {
	Create(ctx context.Context, notice *repository.Notice) (*repository.Notice, error)
	GetByID(ctx context.Context, id int) (*repository.Notice, error)
	ListAll(ctx context.Context) ([]*repository.Notice, error)

	// ListPublished returns live, unexpired notices. Results are cached.
	ListPublished(ctx context.Context) ([]*repository.Notice, error)

	Update(ctx context.Context, notice *repository.Notice) (*repository.Notice, error)

	// Publish flips the notice live and pushes it to connected clients.
	Publish(ctx context.Context, id int) (*repository.Notice, error)

	Delete(ctx context.Context, id int) error
}

type noticeService struct {
	cfg         *config.Config
	noticeRepo  repository.NoticeRepository
	redis       *db.RedisDB
	broadcaster *socket.Broadcaster
}

func NewNoticeService(
	cfg *config.Config,
	noticeRepo repository.NoticeRepository,
	redis *db.RedisDB,
	broadcaster *socket.Broadcaster,
) NoticeService {
	return &noticeService{
		cfg:         cfg,
		noticeRepo:  noticeRepo,
		redis:       redis,
		broadcaster: broadcaster,
	}
}

func (s *noticeService) Create(ctx context.Context, notice *repository.Notice) (*repository.Notice, error) {
	if notice.Title == "" || notice.Body == "" {
		return nil, ErrInvalidInput
	}
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, err
	}
	if notice.Published {
		s.afterPublish(ctx, notice)
	}
	return notice, nil
}

func (s *noticeService) GetByID(ctx context.Context, id int) (*repository.Notice, error) {
	notice, err := s.noticeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notice == nil {
		return nil, ErrNotFound
	}
	return notice, nil
}

func (s *noticeService) ListAll(ctx context.Context) ([]*repository.Notice, error) {
	return s.noticeRepo.FindAll(ctx)
}

func (s *noticeService) ListPublished(ctx context.Context) ([]*repository.Notice, error) {
	if s.redis != nil {
		var cached []*repository.Notice
		if err := s.redis.GetCache(ctx, publishedNoticesCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	notices, err := s.noticeRepo.FindPublished(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		ttl := time.Duration(s.cfg.CacheTTL) * time.Second
		if err := s.redis.SetCache(ctx, publishedNoticesCacheKey, notices, ttl); err != nil {
			log.Printf("[Notice] Cache write failed: %v", err)
		}
	}
	return notices, nil
}

func (s *noticeService) Update(ctx context.Context, notice *repository.Notice) (*repository.Notice, error) {
	existing, err := s.GetByID(ctx, notice.ID)
	if err != nil {
		return nil, err
	}
	if notice.Title == "" || notice.Body == "" {
		return nil, ErrInvalidInput
	}

	wasPublished := existing.Published
	notice.CreatedBy = existing.CreatedBy

	if err := s.noticeRepo.Update(ctx, notice); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)

	if notice.Published && !wasPublished {
		s.afterPublish(ctx, notice)
	}
	return notice, nil
}

func (s *noticeService) Publish(ctx context.Context, id int) (*repository.Notice, error) {
	notice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notice.Published {
		return notice, nil
	}
	notice.Published = true
	if err := s.noticeRepo.Update(ctx, notice); err != nil {
		return nil, err
	}
	s.afterPublish(ctx, notice)
	return notice, nil
}

func (s *noticeService) Delete(ctx context.Context, id int) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.noticeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *noticeService) afterPublish(ctx context.Context, notice *repository.Notice) {
	s.invalidateCache(ctx)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastNoticePublished(map[string]interface{}{
			"noticeId": notice.ID,
			"title":    notice.Title,
		})
	}
}

func (s *noticeService) invalidateCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.InvalidateCache(ctx, "notices:*"); err != nil {
		log.Printf("[Notice] Cache invalidation failed: %v", err)
	}
}
