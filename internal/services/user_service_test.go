package services

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"

	"oriventa_backend/internal/models"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/internal/testutil"
	"oriventa_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureManager(t *testing.T) {
	env := newTestEnv(t)
	users := env.services.UserService

	_, err := users.EnsureManager(env.db, "", "")
	assert.Error(t, err, "no manager and no credentials")

	created, err := users.EnsureManager(env.db, "boss@test.local", "password123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = users.EnsureManager(env.db, "other@test.local", "password123")
	require.NoError(t, err)
	assert.False(t, created)

	managers, err := users.ListUsers(env.db, models.UserRoleManager)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "boss@test.local", managers[0].Email)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "agent@test.local", "password123", models.UserRoleResumeService)

	session, err := env.services.AuthService.Login(env.db, &dto.LoginRequest{Email: "agent@test.local", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, models.UserRoleResumeService, session.User.Role)

	identity, err := env.services.AuthService.ResolveIdentity(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, identity.ID)

	_, err = env.services.AuthService.Login(env.db, &dto.LoginRequest{Email: "agent@test.local", Password: "wrong-pass"})
	wrongPassword := requireAppError(t, err, http.StatusUnauthorized, apperrors.CodeInvalidCredentials)

	_, err = env.services.AuthService.Login(env.db, &dto.LoginRequest{Email: "nobody@test.local", Password: "password123"})
	unknownEmail := requireAppError(t, err, http.StatusUnauthorized, apperrors.CodeInvalidCredentials)
	assert.Equal(t, wrongPassword.Message, unknownEmail.Message)

	_, err = env.services.AuthService.ResolveIdentity("")
	requireAppError(t, err, http.StatusUnauthorized, apperrors.CodeUnauthorized)
	_, err = env.services.AuthService.ResolveIdentity("garbage")
	requireAppError(t, err, http.StatusUnauthorized, apperrors.CodeInvalidToken)
}

func TestUserJSONHasNoPassword(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.CreateUser(t, env.db, "agent@test.local", "password123", models.UserRoleAdmin)

	list, err := env.services.UserService.ListUsers(env.db, "")
	require.NoError(t, err)
	require.Len(t, list, 1)

	for _, v := range []interface{}{u, list} {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		assert.NotContains(t, string(b), "password")
		assert.NotContains(t, string(b), u.PasswordHash)
	}
}

func TestCreateStaff(t *testing.T) {
	env := newTestEnv(t)
	users := env.services.UserService

	u, err := users.CreateStaff(env.db, &dto.CreateUserRequest{Email: "cs@test.local", Password: "password123", Role: models.UserRoleCustomerService})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleCustomerService, u.Role)

	_, err = users.CreateStaff(env.db, &dto.CreateUserRequest{Email: "cs@test.local", Password: "password123", Role: models.UserRoleAdmin})
	requireAppError(t, err, http.StatusConflict, apperrors.CodeConflict)

	_, err = users.CreateStaff(env.db, &dto.CreateUserRequest{Email: "m2@test.local", Password: "password123", Role: models.UserRoleManager})
	requireAppError(t, err, http.StatusConflict, apperrors.CodeConflict)

	_, err = users.CreateStaff(env.db, &dto.CreateUserRequest{Email: "weak@test.local", Password: "123", Role: models.UserRoleAdmin})
	requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)
}

func TestUpdateUser_RoleRules(t *testing.T) {
	env := newTestEnv(t)
	users := env.services.UserService
	manager := testutil.CreateUser(t, env.db, "boss@test.local", "password123", models.UserRoleManager)
	admin := testutil.CreateUser(t, env.db, "admin@test.local", "password123", models.UserRoleAdmin)
	agent := testutil.CreateUser(t, env.db, "agent@test.local", "password123", models.UserRoleCandidateService)
	other := testutil.CreateUser(t, env.db, "other@test.local", "password123", models.UserRoleResumeService)

	role := func(r models.UserRole) *models.UserRole { return &r }

	// admin меняет роль сотрудника
	updated, err := users.UpdateUser(env.db, env.identity(admin), agent.ID, &dto.UpdateUserRequest{Role: role(models.UserRoleCustomerService)})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleCustomerService, updated.Role)
	agent.Role = updated.Role

	// свою роль менять нельзя
	_, err = users.UpdateUser(env.db, env.identity(admin), admin.ID, &dto.UpdateUserRequest{Role: role(models.UserRoleClient)})
	requireAppError(t, err, http.StatusForbidden, apperrors.CodeForbidden)

	// manager неизменяем, и назначить второго нельзя
	_, err = users.UpdateUser(env.db, env.identity(admin), manager.ID, &dto.UpdateUserRequest{Role: role(models.UserRoleAdmin)})
	requireAppError(t, err, http.StatusConflict, apperrors.CodeConflict)
	_, err = users.UpdateUser(env.db, env.identity(manager), agent.ID, &dto.UpdateUserRequest{Role: role(models.UserRoleManager)})
	requireAppError(t, err, http.StatusConflict, apperrors.CodeConflict)

	// обычный сотрудник меняет только себя и без роли
	_, err = users.UpdateUser(env.db, env.identity(agent), other.ID, &dto.UpdateUserRequest{Email: strPtr("x@test.local")})
	requireAppError(t, err, http.StatusForbidden, apperrors.CodeForbidden)
	_, err = users.UpdateUser(env.db, env.identity(agent), agent.ID, &dto.UpdateUserRequest{Role: role(models.UserRoleAdmin)})
	requireAppError(t, err, http.StatusForbidden, apperrors.CodeForbidden)

	self, err := users.UpdateUser(env.db, env.identity(agent), agent.ID, &dto.UpdateUserRequest{Email: strPtr("agent2@test.local")})
	require.NoError(t, err)
	assert.Equal(t, "agent2@test.local", self.Email)

	// занятый email
	_, err = users.UpdateUser(env.db, env.identity(admin), other.ID, &dto.UpdateUserRequest{Email: strPtr("agent2@test.local")})
	requireAppError(t, err, http.StatusConflict, apperrors.CodeConflict)
}

func TestUpdateMe_ChangesPassword(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, "admin@test.local", "password123", models.UserRoleAdmin)

	_, err := env.services.UserService.UpdateMe(env.db, env.identity(admin), &dto.UpdateMeRequest{Password: strPtr("new-password")})
	require.NoError(t, err)

	_, err = env.services.AuthService.Login(env.db, &dto.LoginRequest{Email: "admin@test.local", Password: "password123"})
	requireAppError(t, err, http.StatusUnauthorized, apperrors.CodeInvalidCredentials)
	_, err = env.services.AuthService.Login(env.db, &dto.LoginRequest{Email: "admin@test.local", Password: "new-password"})
	require.NoError(t, err)

	// токен пережил удаление аккаунта
	require.NoError(t, env.db.Delete(&models.User{}, "id = ?", admin.ID).Error)
	_, err = env.services.UserService.GetMe(env.db, env.identity(admin))
	requireAppError(t, err, http.StatusUnauthorized, apperrors.CodeUnauthorized)
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	users := env.services.UserService
	ctx := context.Background()
	manager := testutil.CreateUser(t, env.db, "boss@test.local", "password123", models.UserRoleManager)
	admin := testutil.CreateUser(t, env.db, "admin@test.local", "password123", models.UserRoleAdmin)
	agent := testutil.CreateUser(t, env.db, "agent@test.local", "password123", models.UserRoleCustomerService)

	err := users.DeleteUser(ctx, env.db, env.identity(admin), admin.ID)
	requireAppError(t, err, http.StatusForbidden, apperrors.CodeForbidden)

	err = users.DeleteUser(ctx, env.db, env.identity(admin), manager.ID)
	requireAppError(t, err, http.StatusConflict, apperrors.CodeConflict)

	require.NoError(t, users.DeleteUser(ctx, env.db, env.identity(manager), agent.ID))
	err = users.DeleteUser(ctx, env.db, env.identity(manager), agent.ID)
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)
}

func TestDeleteClient_RemovesTrackerAndFiles(t *testing.T) {
	env := newTestEnv(t)
	users := env.services.UserService
	ctx := context.Background()

	client, err := users.CreateClient(env.db, &dto.CreateClientRequest{Email: "client@test.local", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleClient, client.Role)
	staff := testutil.CreateUser(t, env.db, "agent@test.local", "password123", models.UserRoleCandidateService)

	_, err = env.services.SuiviService.Upsert(ctx, env.db, client.ID, &dto.UpsertSuiviRequest{}, []*multipart.FileHeader{
		fileHeader(t, SuiviFieldCV, "cv.pdf", pdfContent),
	}, nil)
	require.NoError(t, err)
	require.Len(t, listFiles(t, env.st, AreaSuivi), 1)

	err = users.DeleteClient(ctx, env.db, staff.ID)
	requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)

	clients, err := users.ListClients(env.db)
	require.NoError(t, err)
	assert.Len(t, clients, 1)

	require.NoError(t, users.DeleteClient(ctx, env.db, client.ID))

	_, err = env.services.SuiviService.GetForUser(env.db, client.ID)
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)
	assert.Empty(t, listFiles(t, env.st, AreaSuivi))

	var files int64
	require.NoError(t, env.db.Model(&models.SuiviFile{}).Count(&files).Error)
	assert.Zero(t, files)
}
