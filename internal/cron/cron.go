package cron

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/service"
	"github.com/sewa-org/sewa-backend/internal/types"
)

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron        *cron.Cron
	services    *service.Services
	userRepo    repository.UserRepository
	memberRepo  repository.MemberRepository
	studentRepo repository.StudentRepository
	feeRepo     repository.FeeRepository
}

// NewScheduler creates a new scheduler
func NewScheduler(services *service.Services, repos *repository.Repositories) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		services:    services,
		userRepo:    repos.UserRepo,
		memberRepo:  repos.MemberRepo,
		studentRepo: repos.StudentRepo,
		feeRepo:     repos.FeeRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Daily at 8 AM - digest of applications awaiting review
	s.cron.AddFunc("0 8 * * *", func() {
		log.Println("[Cron] Running pending approval digest...")
		s.pendingApprovalDigest()
	})

	// Daily at 9 AM - remind members with unpaid fees
	s.cron.AddFunc("0 9 * * *", func() {
		log.Println("[Cron] Running fee reminder check...")
		s.feeReminders()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// pendingApprovalDigest messages admins when applications are waiting
func (s *Scheduler) pendingApprovalDigest() {
	ctx := context.Background()

	memberCounts, err := s.memberRepo.CountByStatus(ctx)
	if err != nil {
		log.Printf("[Cron] Error counting members: %v", err)
		return
	}
	studentCounts, err := s.studentRepo.CountByStatus(ctx)
	if err != nil {
		log.Printf("[Cron] Error counting students: %v", err)
		return
	}

	pendingMembers := memberCounts[types.StatusPending]
	pendingStudents := studentCounts[types.StatusPending]
	if pendingMembers == 0 && pendingStudents == 0 {
		return
	}

	sender, err := s.userRepo.FindByUsername(ctx, "superadmin")
	if err != nil || sender == nil {
		log.Println("[Cron] Superadmin account not found, skipping digest")
		return
	}

	admins, err := s.userRepo.FindByRole(ctx, types.RoleAdmin)
	if err != nil {
		log.Printf("[Cron] Error finding admins: %v", err)
		return
	}

	recipientIDs := make([]int, 0, len(admins))
	for _, admin := range admins {
		recipientIDs = append(recipientIDs, admin.ID)
	}
	if len(recipientIDs) == 0 {
		return
	}

	body := fmt.Sprintf("Applications awaiting review: %d members, %d students.",
		pendingMembers, pendingStudents)
	if _, err := s.services.Message.Send(ctx, sender.ID, "Pending membership applications", body, recipientIDs); err != nil {
		log.Printf("[Cron] Error sending digest: %v", err)
		return
	}
	log.Printf("[Cron] Sent pending approval digest to %d admins", len(recipientIDs))
}

// feeReminders messages members whose fee payments are still pending
func (s *Scheduler) feeReminders() {
	ctx := context.Background()

	status := types.PaymentPending
	fees, err := s.feeRepo.FindAll(ctx, repository.FeeFilter{PaymentStatus: &status})
	if err != nil {
		log.Printf("[Cron] Error finding pending fees: %v", err)
		return
	}
	if len(fees) == 0 {
		return
	}

	sender, err := s.userRepo.FindByUsername(ctx, "superadmin")
	if err != nil || sender == nil {
		log.Println("[Cron] Superadmin account not found, skipping fee reminders")
		return
	}

	sent := 0
	for _, fee := range fees {
		member, err := s.memberRepo.FindByID(ctx, fee.MemberID)
		if err != nil || member == nil || member.IsDeleted || member.UserID == nil {
			continue
		}

		body := fmt.Sprintf("Your membership fee of %s for %s is still pending. Please complete the payment.",
			fee.Amount.StringFixed(2), fee.FinancialYear)
		if _, err := s.services.Message.Send(ctx, sender.ID, "Membership fee reminder", body, []int{*member.UserID}); err != nil {
			log.Printf("[Cron] Error sending fee reminder to member %d: %v", member.ID, err)
			continue
		}
		sent++
	}
	log.Printf("[Cron] Sent %d fee reminders", sent)
}

// ManualTrigger allows manual triggering of scheduled checks (for testing)
func (s *Scheduler) ManualTrigger(checkType string) {
	switch checkType {
	case "digest":
		s.pendingApprovalDigest()
	case "fees":
		s.feeReminders()
	case "all":
		s.pendingApprovalDigest()
		s.feeReminders()
	}
}
