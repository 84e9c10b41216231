package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"oriventa_backend/internal/models"
	"oriventa_backend/internal/storage"
	"oriventa_backend/pkg/apperrors"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDossierFolder(t *testing.T) {
	docs := NewDocumentService(nil, nil)

	tests := []struct {
		number, name string
		want         string
		wantErr      bool
	}{
		{"D-1001", "Ali Ben Salah", "D-1001_Ali_Ben_Salah", false},
		{" D-1002 ", "  Sara   El  Idrissi ", "D-1002_Sara_El_Idrissi", false},
		{"D-1003", "", "", true},
		{"", "Ali", "", true},
		{"../D-1004", "Ali", "", true},
		{"D-1005", "Ali/../../etc", "", true},
		{".hidden", "Ali", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.number+"|"+tt.name, func(t *testing.T) {
			got, err := docs.DossierFolder(tt.number, tt.name)
			if tt.wantErr {
				requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "cv.pdf", sanitizeFilename(`C:\Users\ali\cv.pdf`))
	assert.Equal(t, "my_cv_final_.pdf", sanitizeFilename("my cv (final).pdf"))
	assert.Equal(t, "env", sanitizeFilename(".env"))
	assert.Equal(t, "file", sanitizeFilename(""))

	long := sanitizeFilename(strings.Repeat("a", 300) + ".pdf")
	assert.Len(t, long, 120)
	assert.True(t, strings.HasSuffix(long, ".pdf"))
}

func TestNormalizeStored(t *testing.T) {
	docs := NewDocumentService(nil, nil)

	tests := []struct {
		in   string
		want string
	}{
		{"suivi/1700000000000-ab12cd34-cv.pdf", "suivi/1700000000000-ab12cd34-cv.pdf"},
		{"1700000000000-ab12cd34-cv.pdf", "suivi/1700000000000-ab12cd34-cv.pdf"},
		{`uploads\suivi\1700000000000-ab12cd34-cv.pdf`, "suivi/1700000000000-ab12cd34-cv.pdf"},
		{"/var/data/uploads/suivi/x.pdf", "suivi/x.pdf"},
		{"../../x.pdf", "suivi/x.pdf"},
	}
	for _, tt := range tests {
		got, err := docs.NormalizeStored(AreaSuivi, tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "  ", "..", "/", "suivi/.hidden"} {
		_, err := docs.NormalizeStored(AreaSuivi, bad)
		assert.Error(t, err, bad)
	}
}

func TestStoreDossierAssets_WritesIntoFolder(t *testing.T) {
	env := newTestEnv(t)
	docs := env.services.DocumentService
	ctx := context.Background()

	stored, err := docs.StoreDossierAssets(ctx, "D-1001_Ali_Ben_Salah", []FileUpload{
		upload(t, models.DossierFieldCVFile, "cv.pdf", pdfContent),
		upload(t, models.DossierFieldPassportPhoto, "passport photo.png", pngContent),
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)

	cv := stored[models.DossierFieldCVFile]
	assert.True(t, strings.HasPrefix(cv.Path, "D-1001_Ali_Ben_Salah/"))
	assert.True(t, strings.HasSuffix(cv.Path, "-cv.pdf"))
	assert.Equal(t, "cv.pdf", cv.OriginalName)
	assert.Equal(t, int64(len(pdfContent)), cv.Size)
	assert.Len(t, cv.Digest, 64)

	photo := stored[models.DossierFieldPassportPhoto]
	assert.True(t, strings.HasSuffix(photo.Path, "-passport_photo.png"))

	assert.Len(t, listFiles(t, env.st, "D-1001_Ali_Ben_Salah"), 2)
	assert.Empty(t, listFiles(t, env.st, stagingRoot))
}

func TestStoreDossierAssets_RejectsUnknownAndDuplicateFields(t *testing.T) {
	env := newTestEnv(t)
	docs := env.services.DocumentService
	ctx := context.Background()

	_, err := docs.StoreDossierAssets(ctx, "D-1_X", []FileUpload{upload(t, "avatar", "a.png", pngContent)})
	requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)

	_, err = docs.StoreDossierAssets(ctx, "D-1_X", []FileUpload{
		upload(t, models.DossierFieldCVFile, "a.pdf", pdfContent),
		upload(t, models.DossierFieldCVFile, "b.pdf", pdfContent),
	})
	requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)

	assert.Empty(t, listFiles(t, env.st, "D-1_X"))
}

// moveFailingStorage ломает Move для файла с заданной подстрокой в имени
type moveFailingStorage struct {
	storage.Storage
	failOn string
}

func (s *moveFailingStorage) Move(ctx context.Context, src, dst string) error {
	if strings.Contains(dst, s.failOn) {
		return errors.New("disk full")
	}
	return s.Storage.Move(ctx, src, dst)
}

func TestStoreDossierAssets_RollsBackWholeBatch(t *testing.T) {
	env := newTestEnv(t)
	docs := NewDocumentService(&moveFailingStorage{Storage: env.st, failOn: "photo"}, nil)
	ctx := context.Background()

	_, err := docs.StoreDossierAssets(ctx, "D-1001_Ali_Ben_Salah", []FileUpload{
		upload(t, models.DossierFieldCVFile, "cv.pdf", pdfContent),
		upload(t, models.DossierFieldDiplomasFiles, "diploma.pdf", pdfContent),
		upload(t, models.DossierFieldPhotoPersonne, "photo.png", pngContent),
	})
	appErr := requireAppError(t, err, http.StatusInternalServerError, apperrors.CodeStorageError)
	assert.Equal(t, map[string]string{"field": models.DossierFieldPhotoPersonne}, appErr.Details)

	assert.Empty(t, listFiles(t, env.st, "D-1001_Ali_Ben_Salah"), "moved files must be removed")
	assert.Empty(t, listFiles(t, env.st, stagingRoot), "staged files must be removed")
}

func TestStoreShared_SuiviRule(t *testing.T) {
	env := newTestEnv(t)
	docs := env.services.DocumentService
	rule := docs.SuiviRule()
	ctx := context.Background()

	t.Run("accepts pdf and txt", func(t *testing.T) {
		stored, err := docs.StoreShared(ctx, AreaSuivi, []FileUpload{
			upload(t, SuiviFieldCV, "cv.pdf", pdfContent),
			upload(t, SuiviFieldLM, "lettre.txt", []byte("Madame, Monsieur,\nje vous écris...")),
		}, rule)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		for _, f := range stored {
			assert.True(t, strings.HasPrefix(f.Path, AreaSuivi+"/"), f.Path)
		}
	})

	t.Run("rejects extension", func(t *testing.T) {
		_, err := docs.StoreShared(ctx, AreaSuivi, []FileUpload{upload(t, SuiviFieldCV, "cv.exe", pdfContent)}, rule)
		requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)
	})

	t.Run("rejects content that does not match", func(t *testing.T) {
		_, err := docs.StoreShared(ctx, AreaSuivi, []FileUpload{upload(t, SuiviFieldCV, "cv.pdf", pngContent)}, rule)
		appErr := requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)
		assert.Equal(t, "upload", appErr.Domain)
	})

	t.Run("rejects oversize", func(t *testing.T) {
		small := &UploadRule{Extensions: rule.Extensions, MaxSize: 8}
		_, err := docs.StoreShared(ctx, AreaSuivi, []FileUpload{upload(t, SuiviFieldCV, "cv.pdf", pdfContent)}, small)
		requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)
	})

	t.Run("one bad file rejects the batch", func(t *testing.T) {
		before := listFiles(t, env.st, AreaSuivi)
		_, err := docs.StoreShared(ctx, AreaSuivi, []FileUpload{
			upload(t, SuiviFieldCV, "ok.pdf", pdfContent),
			upload(t, SuiviFieldLM, "bad.png", pngContent),
		}, rule)
		require.Error(t, err)
		assert.Equal(t, before, listFiles(t, env.st, AreaSuivi))
	})

	t.Run("unknown area", func(t *testing.T) {
		_, err := docs.StoreShared(ctx, "../etc", []FileUpload{upload(t, SuiviFieldCV, "cv.pdf", pdfContent)}, rule)
		assert.Error(t, err)
	})
}

func TestOpenArchive(t *testing.T) {
	env := newTestEnv(t)
	docs := env.services.DocumentService
	ctx := context.Background()

	_, err := docs.OpenArchive(ctx, "D-404_Nobody")
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)

	_, err = docs.OpenArchive(ctx, "../outside")
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)

	_, err = docs.StoreDossierAssets(ctx, "D-1001_Ali_Ben_Salah", []FileUpload{
		upload(t, models.DossierFieldCVFile, "cv.pdf", pdfContent),
		upload(t, models.DossierFieldPassportPhoto, "passport.png", pngContent),
	})
	require.NoError(t, err)

	archive, err := docs.OpenArchive(ctx, "D-1001_Ali_Ben_Salah")
	require.NoError(t, err)
	assert.Equal(t, "D-1001_Ali_Ben_Salah.zip", archive.Name)
	assert.Equal(t, 2, archive.Files())

	var buf bytes.Buffer
	require.NoError(t, archive.WriteTo(ctx, &buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	contents := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents[f.Name] = b
	}
	for name, b := range contents {
		switch {
		case strings.HasSuffix(name, "-cv.pdf"):
			assert.Equal(t, pdfContent, b)
		case strings.HasSuffix(name, "-passport.png"):
			assert.Equal(t, pngContent, b)
		default:
			t.Errorf("unexpected entry %s", name)
		}
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	docs := env.services.DocumentService
	ctx := context.Background()

	stored, err := docs.StoreShared(ctx, AreaReceipts, []FileUpload{upload(t, "paymentReceipt", "r.pdf", pdfContent)}, nil)
	require.NoError(t, err)

	require.NoError(t, docs.Delete(ctx, stored[0].Path))
	require.NoError(t, docs.Delete(ctx, stored[0].Path))
	require.NoError(t, docs.Delete(ctx, ""))

	_, err = docs.ResolveStored(ctx, AreaReceipts, stored[0].Path)
	requireAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)
}
