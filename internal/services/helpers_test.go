package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/logger"
	"oriventa_backend/internal/models"
	"oriventa_backend/internal/storage"
	"oriventa_backend/internal/testutil"
	"oriventa_backend/pkg/apperrors"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	pngContent = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
)

type testEnv struct {
	db          *gorm.DB
	st          storage.Storage
	storageRoot string
	services    *ServiceContainer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger.InitWithWriter("test", io.Discard)

	db := testutil.NewTestDB(t)
	st, root := testutil.NewTestStorage(t)
	issuer, err := auth.NewTokenIssuer("test-secret")
	require.NoError(t, err)

	return &testEnv{
		db:          db,
		st:          st,
		storageRoot: root,
		services:    NewServiceContainer(st, issuer, nil),
	}
}

func (e *testEnv) identity(u *models.User) *auth.Identity {
	return &auth.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

// fileHeader собирает настоящий *multipart.FileHeader через multipart.Reader
func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	w, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	headers := form.File[field]
	require.Len(t, headers, 1)
	return headers[0]
}

func upload(t *testing.T, field, name string, content []byte) FileUpload {
	return FileUpload{Field: field, Header: fileHeader(t, field, name, content)}
}

// requireAppError проверяет HTTP-код и код ошибки AppError
func requireAppError(t *testing.T, err error, httpCode int, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, httpCode, appErr.HTTPCode, appErr.Error())
	require.Equal(t, code, appErr.Code, appErr.Error())
	return appErr
}

func listFiles(t *testing.T, st storage.Storage, prefix string) []string {
	t.Helper()
	objects, err := st.List(context.Background(), prefix)
	require.NoError(t, err)
	paths := make([]string, 0, len(objects))
	for _, o := range objects {
		paths = append(paths, o.Path)
	}
	return paths
}
