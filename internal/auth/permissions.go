package auth

import "oriventa_backend/internal/models"

// Permission - именованное право доступа к группе маршрутов
type Permission string

const (
	PermUsersUpdateSelf    Permission = "users.update_self"
	PermUsersList          Permission = "users.list"
	PermUsersManage        Permission = "users.manage"
	PermClientsManage      Permission = "clients.manage"
	PermConsultationsRead  Permission = "consultations.read"
	PermConsultationsWrite Permission = "consultations.write"
	PermDossiersRead       Permission = "dossiers.read"
	PermDossiersWrite      Permission = "dossiers.write"
	PermResumesRead        Permission = "resumes.read"
	PermResumesWrite       Permission = "resumes.write"
	PermContactsRead       Permission = "contacts.read"
	PermContactsWrite      Permission = "contacts.write"
	PermSuiviRead          Permission = "suivi.read"
	PermSuiviWrite         Permission = "suivi.write"
	PermSuiviSelf          Permission = "suivi.self"
)

var (
	roleManager          = models.UserRoleManager
	roleAdmin            = models.UserRoleAdmin
	roleCustomerService  = models.UserRoleCustomerService
	roleCandidateService = models.UserRoleCandidateService
	roleResumeService    = models.UserRoleResumeService
	roleClient           = models.UserRoleClient
)

// Policy - единственная таблица "право -> роли". Маршруты ссылаются только на Permission.
var Policy = map[Permission][]models.UserRole{
	PermUsersUpdateSelf:    {roleManager, roleAdmin},
	PermUsersList:          {roleManager, roleAdmin, roleCandidateService},
	PermUsersManage:        {roleManager, roleAdmin},
	PermClientsManage:      {roleManager, roleAdmin, roleCandidateService},
	PermConsultationsRead:  {roleManager, roleAdmin, roleCustomerService},
	PermConsultationsWrite: {roleManager, roleAdmin, roleCustomerService},
	PermDossiersRead:       {roleManager, roleAdmin, roleCandidateService},
	PermDossiersWrite:      {roleManager, roleAdmin, roleCandidateService},
	PermResumesRead:        {roleManager, roleAdmin, roleResumeService},
	PermResumesWrite:       {roleManager, roleAdmin, roleResumeService},
	PermContactsRead:       {roleManager, roleAdmin, roleCustomerService},
	PermContactsWrite:      {roleManager, roleAdmin, roleCustomerService},
	PermSuiviRead:          {roleManager, roleAdmin, roleCandidateService},
	PermSuiviWrite:         {roleManager, roleAdmin},
	PermSuiviSelf:          {roleClient},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.UserRole, permission Permission) bool {
	for _, r := range Policy[permission] {
		if r == role {
			return true
		}
	}
	return false
}

// Can - то же самое для Identity
func (i *Identity) Can(permission Permission) bool {
	return i != nil && HasPermission(i.Role, permission)
}
