package services

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"oriventa_backend/internal/models"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/internal/testutil"
	"oriventa_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

func TestSuivi_GetOwnCreatesOnce(t *testing.T) {
	env := newTestEnv(t)
	suivi := env.services.SuiviService
	client := testutil.CreateUser(t, env.db, "client@test.local", "password123", models.UserRoleClient)

	_, err := suivi.GetForUser(env.db, client.ID)
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)

	const callers = 8
	var wg sync.WaitGroup
	ids := make(chan string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := suivi.GetOwn(env.db, client.ID)
			if assert.NoError(t, err) {
				ids <- res.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	first := ""
	for id := range ids {
		if first == "" {
			first = id
		}
		assert.Equal(t, first, id)
	}

	var count int64
	require.NoError(t, env.db.Model(&models.ClientSuivi{}).Where("user_id = ?", client.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	res, err := suivi.GetOwn(env.db, client.ID)
	require.NoError(t, err)
	assert.False(t, res.ConsultationValidated)
	assert.Empty(t, res.CVFiles)
	assert.NotNil(t, res.CVFiles, "empty lists serialize as []")
}

func TestSuivi_UpsertPartialFieldsAndFiles(t *testing.T) {
	env := newTestEnv(t)
	suivi := env.services.SuiviService
	client := testutil.CreateUser(t, env.db, "client@test.local", "password123", models.UserRoleClient)
	ctx := context.Background()

	res, err := suivi.Upsert(ctx, env.db, client.ID, &dto.UpsertSuiviRequest{
		PaymentReceived: boolPtr(true),
		Destination:     strPtr("Canada"),
	}, nil, nil)
	require.NoError(t, err)
	assert.True(t, res.PaymentReceived)
	assert.Equal(t, "Canada", res.Destination)

	// поля, которых нет в запросе, не трогаются
	res, err = suivi.Upsert(ctx, env.db, client.ID, &dto.UpsertSuiviRequest{
		ApplicationNotes: strPtr("Visa déposé"),
	}, []*multipart.FileHeader{
		fileHeader(t, SuiviFieldCV, "cv-v1.pdf", pdfContent),
	}, []*multipart.FileHeader{
		fileHeader(t, SuiviFieldLM, "lettre.txt", []byte("Lettre de motivation")),
	})
	require.NoError(t, err)
	assert.True(t, res.PaymentReceived)
	assert.Equal(t, "Canada", res.Destination)
	assert.Equal(t, "Visa déposé", res.ApplicationNotes)
	require.Len(t, res.CVFiles, 1)
	require.Len(t, res.LMFiles, 1)
	assert.Equal(t, res.CVFiles[0], res.CVFile)
	assert.Equal(t, res.LMFiles[0], res.LMFile)

	// вторая загрузка добавляется, указатель смещается на последнюю
	res, err = suivi.Upsert(ctx, env.db, client.ID, &dto.UpsertSuiviRequest{}, []*multipart.FileHeader{
		fileHeader(t, SuiviFieldCV, "cv-v2.pdf", pdfContent),
	}, nil)
	require.NoError(t, err)
	require.Len(t, res.CVFiles, 2)
	assert.Equal(t, res.CVFiles[1], res.CVFile)
	assert.Len(t, listFiles(t, env.st, AreaSuivi), 3)
}

func TestSuivi_UpsertRejectsNonClientAndBadFiles(t *testing.T) {
	env := newTestEnv(t)
	suivi := env.services.SuiviService
	staff := testutil.CreateUser(t, env.db, "admin@test.local", "password123", models.UserRoleAdmin)
	client := testutil.CreateUser(t, env.db, "client@test.local", "password123", models.UserRoleClient)
	ctx := context.Background()

	_, err := suivi.Upsert(ctx, env.db, staff.ID, &dto.UpsertSuiviRequest{}, nil, nil)
	requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)

	_, err = suivi.Upsert(ctx, env.db, "missing", &dto.UpsertSuiviRequest{}, nil, nil)
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)

	_, err = suivi.Upsert(ctx, env.db, client.ID, &dto.UpsertSuiviRequest{Destination: strPtr("Allemagne")},
		[]*multipart.FileHeader{fileHeader(t, SuiviFieldCV, "photo.png", pngContent)}, nil)
	requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)

	// отклоненный файл не меняет трекер
	_, err = suivi.GetForUser(env.db, client.ID)
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)
	assert.Empty(t, listFiles(t, env.st, AreaSuivi))
}

func TestSuivi_DeleteFileTwice(t *testing.T) {
	env := newTestEnv(t)
	suivi := env.services.SuiviService
	client := testutil.CreateUser(t, env.db, "client@test.local", "password123", models.UserRoleClient)
	ctx := context.Background()

	res, err := suivi.Upsert(ctx, env.db, client.ID, &dto.UpsertSuiviRequest{}, []*multipart.FileHeader{
		fileHeader(t, SuiviFieldCV, "cv-a.pdf", pdfContent),
		fileHeader(t, SuiviFieldCV, "cv-b.pdf", pdfContent),
	}, nil)
	require.NoError(t, err)
	require.Len(t, res.CVFiles, 2)
	latest := res.CVFile
	older := res.CVFiles[0]
	require.Equal(t, res.CVFiles[1], latest)

	// удаление по голому имени файла
	req := &dto.DeleteSuiviFileRequest{FilePath: filepath.Base(latest), FileType: string(models.SuiviFileCV)}
	res, err = suivi.DeleteFile(ctx, env.db, client.ID, req)
	require.NoError(t, err)
	assert.Equal(t, []string{older}, res.CVFiles)
	assert.Empty(t, res.CVFile, "pointer to the deleted file is cleared")

	_, statErr := os.Stat(filepath.Join(env.storageRoot, filepath.FromSlash(latest)))
	assert.True(t, os.IsNotExist(statErr), "file removed from disk")

	// повтор: тот же результат, без ошибки
	again, err := suivi.DeleteFile(ctx, env.db, client.ID, req)
	require.NoError(t, err)
	assert.Equal(t, res.CVFiles, again.CVFiles)
	assert.Equal(t, res.CVFile, again.CVFile)

	// тип не совпадает - ничего не удаляется
	res, err = suivi.DeleteFile(ctx, env.db, client.ID, &dto.DeleteSuiviFileRequest{FilePath: older, FileType: string(models.SuiviFileLM)})
	require.NoError(t, err)
	assert.Equal(t, []string{older}, res.CVFiles)

	_, err = suivi.DeleteFile(ctx, env.db, client.ID, &dto.DeleteSuiviFileRequest{FilePath: older, FileType: "photo"})
	requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)
}

func TestSuivi_OpenFileChecksOwnership(t *testing.T) {
	env := newTestEnv(t)
	suivi := env.services.SuiviService
	alice := testutil.CreateUser(t, env.db, "alice@test.local", "password123", models.UserRoleClient)
	bob := testutil.CreateUser(t, env.db, "bob@test.local", "password123", models.UserRoleClient)
	ctx := context.Background()

	res, err := suivi.Upsert(ctx, env.db, alice.ID, &dto.UpsertSuiviRequest{}, []*multipart.FileHeader{
		fileHeader(t, SuiviFieldCV, "alice-cv.pdf", pdfContent),
	}, nil)
	require.NoError(t, err)
	_, err = suivi.GetOwn(env.db, bob.ID)
	require.NoError(t, err)

	rc, name, err := suivi.OpenFile(ctx, env.db, alice.ID, res.CVFile)
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, pdfContent, b)
	assert.Equal(t, "alice-cv.pdf", name)

	_, _, err = suivi.OpenFile(ctx, env.db, bob.ID, res.CVFile)
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)
}
