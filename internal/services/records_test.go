package services

import (
	"context"
	"io"
	"net/http"
	"path"
	"testing"

	"oriventa_backend/internal/models"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/internal/testutil"
	"oriventa_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsultation_Workflow(t *testing.T) {
	env := newTestEnv(t)
	consultations := env.services.ConsultationService
	agent := testutil.CreateUser(t, env.db, "cs@test.local", "password123", models.UserRoleCustomerService)
	ctx := context.Background()

	_, err := consultations.Create(env.db, &dto.CreateConsultationRequest{
		FullName: "X", Phone: "1", Whatsapp: "1", Address: "A", JobDomain: "J", Experience: "20+",
	})
	requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)

	c := createConsultation(t, env)
	assert.Equal(t, models.ConsultationStatusPending, c.Status)

	for _, status := range []string{"unreachable", "confirmed", "pending", "decline"} {
		updated, err := consultations.UpdateStatus(env.db, c.ID, status)
		require.NoError(t, err)
		assert.Equal(t, models.ConsultationStatus(status), updated.Status)
	}
	_, err = consultations.UpdateStatus(env.db, c.ID, "traite")
	requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)

	detail, err := consultations.AddComment(env.db, c.ID, agent.ID, "Client injoignable")
	require.NoError(t, err)
	require.Len(t, detail.Comment, 1)
	assert.Equal(t, models.ConsultationStatusDecline, detail.Status)

	page, err := consultations.List(env.db, &dto.ConsultationListQuery{Status: "decline"}, dto.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, consultations.Delete(ctx, env.db, c.ID))
	_, err = consultations.Get(env.db, c.ID)
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)

	list, err := env.services.CommentService.List(env.db, models.RecordTypeConsultation, c.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func resumeRequest() *dto.CreateResumeRequest {
	return &dto.CreateResumeRequest{
		FullName:  "Hela Brahmi",
		Email:     "hela@test.local",
		Phone:     "+21650000000",
		Address:   "Sfax",
		BirthDate: "1998-07-01",
		Exp1:      "Comptable",
		Languages: "Français",
		Diplomas:  "Master",
		Skills:    "Excel",
		CVTypes:   `{"europass":["fr"],"canadien":["fr","en"]}`,
	}
}

func TestResume_ReceiptLifecycle(t *testing.T) {
	env := newTestEnv(t)
	resumes := env.services.ResumeService
	ctx := context.Background()

	r, err := resumes.Create(ctx, env.db, resumeRequest(), fileHeader(t, "paymentReceipt", "recu.pdf", pdfContent))
	require.NoError(t, err)
	assert.Equal(t, models.ResumeStatusPending, r.Status)
	assert.Equal(t, []string{"fr", "en"}, r.CVTypes.Data().Canadien)
	require.NotEmpty(t, r.PaymentReceipt)
	assert.Equal(t, AreaReceipts, path.Dir(r.PaymentReceipt))

	got, err := resumes.Get(env.db, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"fr"}, got.CVTypes.Data().Europass)

	// по полному пути и по голому имени
	for _, name := range []string{r.PaymentReceipt, path.Base(r.PaymentReceipt)} {
		rc, base, err := resumes.OpenReceipt(ctx, name)
		require.NoError(t, err)
		b, _ := io.ReadAll(rc)
		rc.Close()
		assert.Equal(t, pdfContent, b)
		assert.Equal(t, path.Base(r.PaymentReceipt), base)
	}

	_, _, err = resumes.OpenReceipt(ctx, "../../etc/passwd")
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)

	cleared, err := resumes.DeletePaymentReceipt(ctx, env.db, r.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.PaymentReceipt)
	assert.Empty(t, listFiles(t, env.st, AreaReceipts))

	again, err := resumes.DeletePaymentReceipt(ctx, env.db, r.ID)
	require.NoError(t, err)
	assert.Empty(t, again.PaymentReceipt)

	require.NoError(t, resumes.Delete(ctx, env.db, r.ID))
	_, err = resumes.Get(env.db, r.ID)
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)
}

func TestResume_StatusesAndValidation(t *testing.T) {
	env := newTestEnv(t)
	resumes := env.services.ResumeService
	ctx := context.Background()

	bad := resumeRequest()
	bad.CVTypes = "europass"
	_, err := resumes.Create(ctx, env.db, bad, nil)
	requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)

	r, err := resumes.Create(ctx, env.db, resumeRequest(), nil)
	require.NoError(t, err)
	assert.Empty(t, r.PaymentReceipt)

	for _, status := range []string{"accepted", "refuse", "pending"} {
		_, err := resumes.UpdateStatus(env.db, r.ID, status)
		require.NoError(t, err)
	}
	for _, status := range []string{"traite", "comment", ""} {
		_, err := resumes.UpdateStatus(env.db, r.ID, status)
		requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)
	}
}

func TestContact_Workflow(t *testing.T) {
	env := newTestEnv(t)
	contacts := env.services.ContactService

	a, err := contacts.Create(env.db, &dto.CreateContactRequest{Name: "Omar", Email: "omar@test.local", Phone: "1", Message: "Bonjour"})
	require.NoError(t, err)
	_, err = contacts.Create(env.db, &dto.CreateContactRequest{Name: "Lina", Email: "lina@test.local", Phone: "2", Message: "Salut"})
	require.NoError(t, err)
	assert.False(t, a.IsViewed)

	viewed, err := contacts.SetViewed(env.db, a.ID, true)
	require.NoError(t, err)
	assert.True(t, viewed.IsViewed)

	page := dto.Pagination{Page: 1, PageSize: 20}
	unread, err := contacts.List(env.db, &dto.ContactListQuery{Viewed: boolPtr(false)}, page)
	require.NoError(t, err)
	require.Len(t, unread.Items, 1)
	assert.Equal(t, "Lina", unread.Items[0].Name)

	require.NoError(t, contacts.Delete(env.db, a.ID))
	err = contacts.Delete(env.db, a.ID)
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)

	_, err = contacts.SetViewed(env.db, "missing", true)
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)
}
