package models

import "time"

// ============================================
// Auth
// ============================================

type RegisterRequest struct {
	Username    string  `json:"username" binding:"required,min=3,max=50"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	AccountType string  `json:"accountType" binding:"required,oneof=MEMBER STUDENT"`
	FullName    string  `json:"fullName" binding:"required"`
	Phone       *string `json:"phone,omitempty"`
	ChapterID   *int    `json:"chapterId,omitempty"`

	// Member profile fields
	Address          *string `json:"address,omitempty"`
	Designation      *string `json:"designation,omitempty"`
	Organization     *string `json:"organization,omitempty"`
	College          *string `json:"college,omitempty"`
	University       *string `json:"university,omitempty"`
	GraduationYear   *int    `json:"graduationYear,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	EducationalLevel *string `json:"educationalLevel,omitempty"`
	WorkingSector    *string `json:"workingSector,omitempty"`

	// Student profile fields
	Institute *string `json:"institute,omitempty"`
	Course    *string `json:"course,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type MeResponse struct {
	ID          int      `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Active      bool     `json:"active"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// ============================================
// Members
// ============================================

type MemberUpdateRequest struct {
	FullName         string  `json:"fullName" binding:"required"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
	Designation      *string `json:"designation,omitempty"`
	Organization     *string `json:"organization,omitempty"`
	College          *string `json:"college,omitempty"`
	University       *string `json:"university,omitempty"`
	GraduationYear   *int    `json:"graduationYear,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	EducationalLevel *string `json:"educationalLevel,omitempty"`
	WorkingSector    *string `json:"workingSector,omitempty"`
	ChapterID        *int    `json:"chapterId,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

type MemberResponse struct {
	ID               int        `json:"id"`
	MembershipCode   *string    `json:"membershipCode,omitempty"`
	FullName         string     `json:"fullName"`
	Phone            *string    `json:"phone,omitempty"`
	Address          *string    `json:"address,omitempty"`
	Designation      *string    `json:"designation,omitempty"`
	Organization     *string    `json:"organization,omitempty"`
	College          *string    `json:"college,omitempty"`
	University       *string    `json:"university,omitempty"`
	GraduationYear   *int       `json:"graduationYear,omitempty"`
	Gender           *string    `json:"gender,omitempty"`
	EducationalLevel *string    `json:"educationalLevel,omitempty"`
	WorkingSector    *string    `json:"workingSector,omitempty"`
	ChapterID        *int       `json:"chapterId,omitempty"`
	MembershipStatus string     `json:"membershipStatus"`
	JoinedDate       *time.Time `json:"joinedDate,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// ============================================
// Students
// ============================================

type StudentUpdateRequest struct {
	FullName         string  `json:"fullName" binding:"required"`
	Phone            *string `json:"phone,omitempty"`
	Institute        *string `json:"institute,omitempty"`
	Course           *string `json:"course,omitempty"`
	EducationalLevel *string `json:"educationalLevel,omitempty"`
	ChapterID        *int    `json:"chapterId,omitempty"`
}

type StudentResponse struct {
	ID               int       `json:"id"`
	MembershipCode   *string   `json:"membershipCode,omitempty"`
	FullName         string    `json:"fullName"`
	Phone            *string   `json:"phone,omitempty"`
	Institute        *string   `json:"institute,omitempty"`
	Course           *string   `json:"course,omitempty"`
	EducationalLevel *string   `json:"educationalLevel,omitempty"`
	ChapterID        *int      `json:"chapterId,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ============================================
// Chapters
// ============================================

type ChapterRequest struct {
	ChapterName string  `json:"chapterName" binding:"required"`
	Location    *string `json:"location,omitempty"`
	ChapterType string  `json:"chapterType,omitempty"`
}

type ChapterResponse struct {
	ID          int       `json:"id"`
	ChapterName string    `json:"chapterName"`
	Location    *string   `json:"location,omitempty"`
	ChapterType string    `json:"chapterType"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ChapterMemberResponse struct {
	ChapterID     int       `json:"chapterId"`
	MemberID      int       `json:"memberId"`
	RoleInChapter string    `json:"roleInChapter"`
	JoinedAt      time.Time `json:"joinedAt"`
}

// ============================================
// Fees
// ============================================

type FeeRequest struct {
	MemberID      int     `json:"memberId" binding:"required"`
	Amount        string  `json:"amount" binding:"required"`
	PaymentDate   *string `json:"paymentDate,omitempty"`
	PaymentStatus string  `json:"paymentStatus,omitempty"`
	TransactionID *string `json:"transactionId,omitempty"`
	FeeType       *string `json:"feeType,omitempty"`
	FinancialYear string  `json:"financialYear" binding:"required"`
	Remarks       *string `json:"remarks,omitempty"`
}

type FeeResponse struct {
	ID            int       `json:"id"`
	MemberID      int       `json:"memberId"`
	Amount        string    `json:"amount"`
	PaymentDate   time.Time `json:"paymentDate"`
	PaymentStatus string    `json:"paymentStatus"`
	TransactionID *string   `json:"transactionId,omitempty"`
	FeeType       *string   `json:"feeType,omitempty"`
	FinancialYear string    `json:"financialYear"`
	Remarks       *string   `json:"remarks,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ============================================
// Notices
// ============================================

type NoticeRequest struct {
	Title      string     `json:"title" binding:"required"`
	Body       string     `json:"body" binding:"required"`
	Published  bool       `json:"published"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

type NoticeResponse struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Published  bool       `json:"published"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	CreatedBy  *int       `json:"createdBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// ============================================
// Messages
// ============================================

type SendMessageRequest struct {
	Subject      string `json:"subject" binding:"required"`
	Body         string `json:"body" binding:"required"`
	RecipientIDs []int  `json:"recipientIds" binding:"required,min=1"`
}

type MessageResponse struct {
	ID        int       `json:"id"`
	SenderID  int       `json:"senderId"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageRecipientResponse struct {
	RecipientID int        `json:"recipientId"`
	Read        bool       `json:"read"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
}

// ============================================
// Master Data
// ============================================

type MasterItemRequest struct {
	Name string `json:"name" binding:"required"`
}
