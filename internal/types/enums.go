package types

// Membership status values (members and students share the same lifecycle)
const (
	StatusPending  = "PENDING"
	StatusActive   = "ACTIVE"
	StatusRejected = "REJECTED"
)

// Fee payment status values
const (
	PaymentPaid    = "PAID"
	PaymentPending = "PENDING"
	PaymentFailed  = "FAILED"
)

// Account types accepted at registration
const (
	AccountMember  = "MEMBER"
	AccountStudent = "STUDENT"
)

// Role names (seeded at bootstrap, ROLE_ prefix by convention)
const (
	RoleSuperAdmin   = "ROLE_SUPER_ADMIN"
	RoleAdmin        = "ROLE_ADMIN"
	RoleChapterAdmin = "ROLE_CHAPTER_ADMIN"
	RoleMember       = "ROLE_MEMBER"
	RoleStudent      = "ROLE_STUDENT"
)

// Permission codes used by route requirements
const (
	PermMemberCreate  = "MEMBER_CREATE"
	PermMemberView    = "MEMBER_VIEW"
	PermMemberList    = "MEMBER_LIST"
	PermMemberUpdate  = "MEMBER_UPDATE"
	PermMemberApprove = "MEMBER_APPROVE"
	PermMemberReject  = "MEMBER_REJECT"
	PermMemberDelete  = "MEMBER_DELETE"

	PermStudentCreate  = "STUDENT_CREATE"
	PermStudentView    = "STUDENT_VIEW"
	PermStudentList    = "STUDENT_LIST"
	PermStudentUpdate  = "STUDENT_UPDATE"
	PermStudentApprove = "STUDENT_APPROVE"
	PermStudentDelete  = "STUDENT_DELETE"

	PermChapterCreate       = "CHAPTER_CREATE"
	PermChapterView         = "CHAPTER_VIEW"
	PermChapterUpdate       = "CHAPTER_UPDATE"
	PermChapterDelete       = "CHAPTER_DELETE"
	PermChapterAssignMember = "CHAPTER_ASSIGN_MEMBER"
	PermChapterViewMembers  = "CHAPTER_VIEW_MEMBERS"

	PermFeeView   = "FEE_VIEW"
	PermFeePay    = "FEE_PAY"
	PermFeeVerify = "FEE_VERIFY"
	PermFeeReport = "FEE_REPORT"

	PermNewsCreate = "NEWS_CREATE"
	PermNewsView   = "NEWS_VIEW"
	PermNewsUpdate = "NEWS_UPDATE"
	PermNewsDelete = "NEWS_DELETE"

	PermMessageSend   = "MESSAGE_SEND"
	PermMessageView   = "MESSAGE_VIEW"
	PermMessageDelete = "MESSAGE_DELETE"

	PermReportView = "REPORT_VIEW"

	PermProfileView   = "USER_PROFILE_VIEW"
	PermProfileUpdate = "USER_PROFILE_UPDATE"
)

// Master data kinds
const (
	MasterEducationalLevel = "educational_level"
	MasterWorkingSector    = "working_sector"
	MasterGender           = "gender"
)

// Membership code prefixes. Codes are external-facing stable identifiers,
// assigned once at approval and never reused.
const (
	MemberCodePrefix  = "SEWAM"
	StudentCodePrefix = "SEWAS"
)

var ValidMembershipStatuses = []string{StatusPending, StatusActive, StatusRejected}

var ValidPaymentStatuses = []string{PaymentPaid, PaymentPending, PaymentFailed}

func IsValidMembershipStatus(status string) bool {
	for _, s := range ValidMembershipStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidPaymentStatus(status string) bool {
	for _, s := range ValidPaymentStatuses {
		if s == status {
			return true
		}
	}
	return false
}
