package models

type UserRole string
type ConsultationStatus string
type DossierStatus string
type ResumeStatus string
type RecordType string
type SuiviFileKind string

const (
	UserRoleManager          UserRole = "manager"
	UserRoleAdmin            UserRole = "admin"
	UserRoleCustomerService  UserRole = "customerService"
	UserRoleCandidateService UserRole = "candidateService"
	UserRoleResumeService    UserRole = "resumeService"
	UserRoleClient           UserRole = "client"

	ConsultationStatusPending     ConsultationStatus = "pending"
	ConsultationStatusConfirmed   ConsultationStatus = "confirmed"
	ConsultationStatusDecline     ConsultationStatus = "decline"
	ConsultationStatusComment     ConsultationStatus = "comment"
	ConsultationStatusUnreachable ConsultationStatus = "unreachable"

	DossierStatusPending  DossierStatus = "pending"
	DossierStatusTraite   DossierStatus = "traite"
	DossierStatusAccepted DossierStatus = "accepted"
	DossierStatusRefuse   DossierStatus = "refuse"
	DossierStatusComment  DossierStatus = "comment"

	// Resume: traite/comment из старой схемы не поддерживаются.
	ResumeStatusPending  ResumeStatus = "pending"
	ResumeStatusAccepted ResumeStatus = "accepted"
	ResumeStatusRefuse   ResumeStatus = "refuse"

	RecordTypeConsultation RecordType = "consultation"
	RecordTypeDossier      RecordType = "dossier"

	SuiviFileCV SuiviFileKind = "cv"
	SuiviFileLM SuiviFileKind = "lm"
)

var (
	UserRoles            = []UserRole{UserRoleManager, UserRoleAdmin, UserRoleCustomerService, UserRoleCandidateService, UserRoleResumeService, UserRoleClient}
	ConsultationStatuses = []ConsultationStatus{ConsultationStatusPending, ConsultationStatusConfirmed, ConsultationStatusDecline, ConsultationStatusComment, ConsultationStatusUnreachable}
	DossierStatuses      = []DossierStatus{DossierStatusPending, DossierStatusTraite, DossierStatusAccepted, DossierStatusRefuse, DossierStatusComment}
	ResumeStatuses       = []ResumeStatus{ResumeStatusPending, ResumeStatusAccepted, ResumeStatusRefuse}
)

func (r UserRole) IsValid() bool {
	for _, v := range UserRoles {
		if v == r {
			return true
		}
	}
	return false
}

// IsStaff - любая роль сотрудника (не client)
func (r UserRole) IsStaff() bool {
	return r.IsValid() && r != UserRoleClient
}

// CanManageUsers - manager и admin
func (r UserRole) CanManageUsers() bool {
	return r == UserRoleManager || r == UserRoleAdmin
}

func (s ConsultationStatus) IsValid() bool {
	for _, v := range ConsultationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s DossierStatus) IsValid() bool {
	for _, v := range DossierStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s ResumeStatus) IsValid() bool {
	for _, v := range ResumeStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (t RecordType) IsValid() bool {
	return t == RecordTypeConsultation || t == RecordTypeDossier
}

func (k SuiviFileKind) IsValid() bool {
	return k == SuiviFileCV || k == SuiviFileLM
}
