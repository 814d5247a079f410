package service

import (
	"context"
	"log"
	"time"

	"github.com/sewa-org/sewa-backend/internal/config"
	"github.com/sewa-org/sewa-backend/internal/db"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/types"
)

// ============================================
// Dashboard Service
// ============================================

const dashboardCacheKey = "dashboard:stats"

// DashboardStats aggregates headline numbers for the admin dashboard.
type DashboardStats struct {
	TotalMembers    int               `json:"totalMembers"`
	ActiveMembers   int               `json:"activeMembers"`
	PendingMembers  int               `json:"pendingMembers"`
	RejectedMembers int               `json:"rejectedMembers"`
	TotalStudents   int               `json:"totalStudents"`
	ActiveStudents  int               `json:"activeStudents"`
	PendingStudents int               `json:"pendingStudents"`
	TotalChapters   int               `json:"totalChapters"`
	FeesByYear      map[string]string `json:"feesByYear"`
	GeneratedAt     time.Time         `json:"generatedAt"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	cfg         *config.Config
	memberRepo  repository.MemberRepository
	studentRepo repository.StudentRepository
	chapterRepo repository.ChapterRepository
	feeRepo     repository.FeeRepository
	redis       *db.RedisDB
}

func NewDashboardService(
	cfg *config.Config,
	memberRepo repository.MemberRepository,
	studentRepo repository.StudentRepository,
	chapterRepo repository.ChapterRepository,
	feeRepo repository.FeeRepository,
	redis *db.RedisDB,
) DashboardService {
	return &dashboardService{
		cfg:         cfg,
		memberRepo:  memberRepo,
		studentRepo: studentRepo,
		chapterRepo: chapterRepo,
		feeRepo:     feeRepo,
		redis:       redis,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if s.redis != nil {
		var cached DashboardStats
		if err := s.redis.GetCache(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	memberCounts, err := s.memberRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	studentCounts, err := s.studentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	chapterCount, err := s.chapterRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	feeTotals, err := s.feeRepo.TotalsByYear(ctx)
	if err != nil {
		return nil, err
	}

	feesByYear := make(map[string]string, len(feeTotals))
	for year, total := range feeTotals {
		feesByYear[year] = total.StringFixed(2)
	}

	stats := &DashboardStats{
		TotalMembers:    sumCounts(memberCounts),
		ActiveMembers:   memberCounts[types.StatusActive],
		PendingMembers:  memberCounts[types.StatusPending],
		RejectedMembers: memberCounts[types.StatusRejected],
		TotalStudents:   sumCounts(studentCounts),
		ActiveStudents:  studentCounts[types.StatusActive],
		PendingStudents: studentCounts[types.StatusPending],
		TotalChapters:   chapterCount,
		FeesByYear:      feesByYear,
		GeneratedAt:     time.Now(),
	}

	if s.redis != nil {
		ttl := time.Duration(s.cfg.CacheTTL) * time.Second
		if err := s.redis.SetCache(ctx, dashboardCacheKey, stats, ttl); err != nil {
			log.Printf("[Dashboard] Cache write failed: %v", err)
		}
	}
	return stats, nil
}

func sumCounts(counts map[string]int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
