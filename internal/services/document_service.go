package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"regexp"
	"strings"
	"time"

	"oriventa_backend/internal/logger"
	"oriventa_backend/internal/metrics"
	"oriventa_backend/internal/models"
	"oriventa_backend/internal/storage"
	"oriventa_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// ============================================
// ОБЛАСТИ ХРАНИЛИЩА
// ============================================

const (
	AreaReceipts = "receipts"
	AreaSuivi    = "suivi"

	stagingRoot = ".staging"
)

// DossierFileFields - поля формы, которые принимаются для файлов досье
var DossierFileFields = []string{
	models.DossierFieldCVFile,
	models.DossierFieldDiplomasFiles,
	models.DossierFieldAttestationsTravail,
	models.DossierFieldAttestationsStage,
	models.DossierFieldPaymentReceipt,
	models.DossierFieldPassportPhoto,
	models.DossierFieldPhotoPersonne,
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// StoredFile - один файл, записанный в хранилище
type StoredFile struct {
	Field        string
	Path         string
	OriginalName string
	Size         int64
	Digest       string
}

// FileUpload - файл из multipart-формы вместе с именем поля
type FileUpload struct {
	Field  string
	Header *multipart.FileHeader
}

// UploadRule - ограничения на тип и размер файла
type UploadRule struct {
	Extensions []string
	MIMETypes  []string
	MaxSize    int64
}

// Archive - непустая папка, готовая к отдаче в виде zip
type Archive struct {
	Name    string
	folder  string
	objects []storage.Object
	st      storage.Storage
}

// WriteTo стримит zip в w. Ошибка после первого байта означает битый архив у клиента.
func (a *Archive) WriteTo(ctx context.Context, w io.Writer) error {
	if err := storage.WriteZip(ctx, a.st, w, a.objects); err != nil {
		metrics.ArchiveDownloads.WithLabelValues("aborted").Inc()
		logger.CtxWithError(ctx, "archive stream aborted", err, "folder", a.folder)
		return err
	}
	metrics.ArchiveDownloads.WithLabelValues("ok").Inc()
	return nil
}

// Files - количество файлов в архиве
func (a *Archive) Files() int {
	return len(a.objects)
}

type DocumentService interface {
	// DossierFolder - имя папки досье: {номер}_{ФИО с подчеркиваниями}
	DossierFolder(dossierNumber, fullName string) (string, error)

	// StoreDossierAssets - по одному файлу на поле, все или ничего
	StoreDossierAssets(ctx context.Context, folder string, files []FileUpload) (map[string]*StoredFile, error)

	// StoreShared - загрузка в общую папку (receipts, suivi) по тем же правилам staging
	StoreShared(ctx context.Context, area string, files []FileUpload, rule *UploadRule) ([]*StoredFile, error)

	OpenArchive(ctx context.Context, folder string) (*Archive, error)

	// NormalizeStored приводит сохраненный путь или голое имя к виду area/basename
	NormalizeStored(area, stored string) (string, error)
	ResolveStored(ctx context.Context, area, stored string) (string, error)

	Open(ctx context.Context, p string) (io.ReadCloser, error)
	Delete(ctx context.Context, p string) error
	DeleteFolder(ctx context.Context, folder string) error

	SuiviRule() *UploadRule
}

type documentService struct {
	storage   storage.Storage
	suiviRule *UploadRule
	now       func() time.Time
}

// NewDocumentService - suiviRule nil означает правила по умолчанию
func NewDocumentService(st storage.Storage, suiviRule *UploadRule) DocumentService {
	if suiviRule == nil {
		suiviRule = DefaultSuiviRule()
	}
	return &documentService{
		storage:   st,
		suiviRule: suiviRule,
		now:       time.Now,
	}
}

// DefaultSuiviRule - CV и мотивационные письма: pdf, doc, docx, txt до 10 МБ
func DefaultSuiviRule() *UploadRule {
	return &UploadRule{
		Extensions: []string{".pdf", ".doc", ".docx", ".txt"},
		MIMETypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"text/plain",
			"application/zip",
			"application/x-ole-storage",
		},
		MaxSize: 10 << 20,
	}
}

func (s *documentService) SuiviRule() *UploadRule {
	return s.suiviRule
}

// ============================================
// ИМЕНА
// ============================================

func (s *documentService) DossierFolder(dossierNumber, fullName string) (string, error) {
	num := strings.TrimSpace(dossierNumber)
	name := strings.Join(strings.Fields(fullName), "_")
	if num == "" || name == "" {
		return "", apperrors.NewValidationMessage("document", "dossierNumber and fullName are required to name the folder")
	}

	folder := num + "_" + name
	if strings.ContainsAny(folder, `/\`) || strings.Contains(folder, "..") || strings.HasPrefix(folder, ".") {
		return "", apperrors.NewValidationMessage("document", "dossierNumber or fullName contains forbidden characters")
	}
	return folder, nil
}

// storedName - {unix-millis}-{8 hex}-{очищенное имя}
func (s *documentService) storedName(original string) string {
	return fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), uuid.NewString()[:8], sanitizeFilename(original))
}

func sanitizeFilename(original string) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	base = strings.TrimLeft(base, ".")
	if base == "" || base == "_" {
		return "file"
	}
	if len(base) > 120 {
		ext := path.Ext(base)
		if len(ext) > 16 {
			ext = ""
		}
		base = base[:120-len(ext)] + ext
	}
	return base
}

// ============================================
// ЗАГРУЗКА
// ============================================

func (s *documentService) StoreDossierAssets(ctx context.Context, folder string, files []FileUpload) (map[string]*StoredFile, error) {
	folder, err := storage.CleanPath(folder)
	if err != nil {
		return nil, apperrors.NewValidationMessage("document", "invalid folder name")
	}

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if _, ok := models.DossierFileColumns[f.Field]; !ok {
			return nil, apperrors.ValidationError(map[string]string{f.Field: "Unexpected file field"})
		}
		if seen[f.Field] {
			return nil, apperrors.ValidationError(map[string]string{f.Field: "Only one file is allowed for this field"})
		}
		seen[f.Field] = true
	}

	stored, err := s.storeBatch(ctx, folder, "dossier", files, nil)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*StoredFile, len(stored))
	for _, sf := range stored {
		result[sf.Field] = sf
	}
	return result, nil
}

func (s *documentService) StoreShared(ctx context.Context, area string, files []FileUpload, rule *UploadRule) ([]*StoredFile, error) {
	if area != AreaReceipts && area != AreaSuivi {
		return nil, fmt.Errorf("unknown storage area %q", area)
	}
	return s.storeBatch(ctx, area, area, files, rule)
}

type stagedFile struct {
	upload FileUpload
	tmp    string
	final  string
	size   int64
	digest string
}

// storeBatch: сначала все файлы пишутся в .staging/{uuid}/, затем переносятся.
// При любой ошибке удаляются и staged, и уже перенесенные файлы партии.
func (s *documentService) storeBatch(ctx context.Context, dir, areaLabel string, files []FileUpload, rule *UploadRule) ([]*StoredFile, error) {
	if len(files) == 0 {
		return []*StoredFile{}, nil
	}

	if rule != nil {
		for _, f := range files {
			if err := checkRule(f, rule); err != nil {
				return nil, err
			}
		}
	}

	stageDir := path.Join(stagingRoot, uuid.NewString())
	staged := make([]*stagedFile, 0, len(files))
	moved := make([]string, 0, len(files))

	rollback := func() {
		// отдельный контекст: запрос мог быть уже отменен
		cleanupCtx := context.WithoutCancel(ctx)
		for _, sf := range staged {
			if err := s.storage.Delete(cleanupCtx, sf.tmp); err != nil {
				logger.CtxWithError(ctx, "failed to remove staged file", err, "path", sf.tmp)
			}
		}
		for _, p := range moved {
			if err := s.storage.Delete(cleanupCtx, p); err != nil {
				logger.CtxWithError(ctx, "failed to remove moved file", err, "path", p)
			}
		}
	}

	for _, f := range files {
		name := s.storedName(f.Header.Filename)
		sf := &stagedFile{
			upload: f,
			tmp:    path.Join(stageDir, name),
			final:  path.Join(dir, name),
		}
		size, digest, err := s.writeStaged(ctx, sf.tmp, f.Header)
		if err != nil {
			rollback()
			return nil, apperrors.ErrStorage(err, fmt.Sprintf("failed to store file %s", f.Field)).
				WithDetails(map[string]string{"field": f.Field})
		}
		sf.size, sf.digest = size, digest
		staged = append(staged, sf)
	}

	for _, sf := range staged {
		if err := s.storage.Move(ctx, sf.tmp, sf.final); err != nil {
			rollback()
			return nil, apperrors.ErrStorage(err, fmt.Sprintf("failed to store file %s", sf.upload.Field)).
				WithDetails(map[string]string{"field": sf.upload.Field})
		}
		moved = append(moved, sf.final)
	}

	result := make([]*StoredFile, 0, len(staged))
	var total int64
	for _, sf := range staged {
		total += sf.size
		result = append(result, &StoredFile{
			Field:        sf.upload.Field,
			Path:         sf.final,
			OriginalName: sf.upload.Header.Filename,
			Size:         sf.size,
			Digest:       sf.digest,
		})
	}
	metrics.UploadedBytes.WithLabelValues(areaLabel).Add(float64(total))
	logger.CtxDebug(ctx, "files stored", "dir", dir, "count", len(result), "bytes", total)

	return result, nil
}

func (s *documentService) writeStaged(ctx context.Context, p string, header *multipart.FileHeader) (int64, string, error) {
	src, err := header.Open()
	if err != nil {
		return 0, "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	hasher := blake3.New()
	counter := &countingReader{r: io.TeeReader(src, hasher)}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.storage.Save(ctx, p, counter, contentType); err != nil {
		return 0, "", err
	}
	return counter.n, hex.EncodeToString(hasher.Sum(nil)), nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// checkRule - расширение, размер и реальный MIME-тип по содержимому
func checkRule(f FileUpload, rule *UploadRule) error {
	if rule.MaxSize > 0 && f.Header.Size > rule.MaxSize {
		return apperrors.ErrFileTooLarge.WithDetails(map[string]string{
			f.Field: fmt.Sprintf("File %s exceeds %d bytes", f.Header.Filename, rule.MaxSize),
		})
	}

	if len(rule.Extensions) > 0 {
		ext := strings.ToLower(path.Ext(f.Header.Filename))
		if !containsString(rule.Extensions, ext) {
			return apperrors.ErrInvalidFileType.WithDetails(map[string]string{
				f.Field: "Allowed extensions: " + strings.Join(rule.Extensions, ", "),
			})
		}
	}

	if len(rule.MIMETypes) > 0 {
		src, err := f.Header.Open()
		if err != nil {
			return apperrors.InternalError(err)
		}
		defer src.Close()

		mt, err := mimetype.DetectReader(src)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !mimeAllowed(mt, rule.MIMETypes) {
			return apperrors.ErrInvalidFileType.WithDetails(map[string]string{
				f.Field: fmt.Sprintf("Content type %s is not allowed", mt.String()),
			})
		}
	}
	return nil
}

// mimeAllowed проверяет тип и всех его родителей (docx -> zip)
func mimeAllowed(mt *mimetype.MIME, allowed []string) bool {
	for m := mt; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ============================================
// ЧТЕНИЕ И УДАЛЕНИЕ
// ============================================

func (s *documentService) OpenArchive(ctx context.Context, folder string) (*Archive, error) {
	clean, err := storage.CleanPath(folder)
	if err != nil {
		metrics.ArchiveDownloads.WithLabelValues("not_found").Inc()
		return nil, apperrors.ErrFolderNotFound
	}

	objects, err := s.storage.List(ctx, clean)
	if err != nil {
		return nil, apperrors.ErrStorage(err, "failed to list folder")
	}
	if len(objects) == 0 {
		metrics.ArchiveDownloads.WithLabelValues("not_found").Inc()
		return nil, apperrors.ErrFolderNotFound
	}

	return &Archive{
		Name:    path.Base(clean) + ".zip",
		folder:  clean,
		objects: objects,
		st:      s.storage,
	}, nil
}

func (s *documentService) NormalizeStored(area, stored string) (string, error) {
	p := strings.TrimSpace(strings.ReplaceAll(stored, `\`, "/"))
	base := path.Base(p)
	if p == "" || base == "." || base == "/" || base == ".." || strings.HasPrefix(base, ".") {
		return "", apperrors.ErrFileNotFound
	}
	return area + "/" + base, nil
}

func (s *documentService) ResolveStored(ctx context.Context, area, stored string) (string, error) {
	p, err := s.NormalizeStored(area, stored)
	if err != nil {
		return "", err
	}

	exists, err := s.storage.Exists(ctx, p)
	if err != nil {
		return "", apperrors.ErrStorage(err, "failed to look up file")
	}
	if !exists {
		return "", apperrors.ErrFileNotFound
	}
	return p, nil
}

func (s *documentService) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	rc, err := s.storage.Get(ctx, p)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, apperrors.ErrStorage(err, "failed to read file")
	}
	return rc, nil
}

// Delete - отсутствующий файл не ошибка
func (s *documentService) Delete(ctx context.Context, p string) error {
	if p == "" {
		return nil
	}
	if err := s.storage.Delete(ctx, p); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return apperrors.ErrStorage(err, "failed to delete file")
	}
	return nil
}

func (s *documentService) DeleteFolder(ctx context.Context, folder string) error {
	clean, err := storage.CleanPath(folder)
	if err != nil {
		return nil
	}

	objects, err := s.storage.List(ctx, clean)
	if err != nil {
		return apperrors.ErrStorage(err, "failed to list folder")
	}
	for _, obj := range objects {
		if err := s.Delete(ctx, obj.Path); err != nil {
			return err
		}
	}
	return nil
}
