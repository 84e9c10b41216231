package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные ФУНКЦИИ
// =========================================================================

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrStorage - файловое хранилище недоступно или запись не удалась (500)
func ErrStorage(err error, message string) *AppError {
	return Wrap(err, CodeStorageError, "storage", message, http.StatusInternalServerError)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

// --- Auth ---

// ErrInvalidCredentials - неизвестный email и неверный пароль дают одну и ту же ошибку.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - подпись, алгоритм или срок действия токена не прошли проверку.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrNotAuthenticated - нет cookie с токеном.
var ErrNotAuthenticated = New(
	CodeUnauthorized,
	"auth",
	"Authentication required",
	http.StatusUnauthorized,
)

// ErrInsufficientPermissions - роль не входит в разрешенный набор.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrWeakPassword - пароль короче 6 символов.
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

// ErrEmailAlreadyExists - email уже используется.
var ErrEmailAlreadyExists = New(
	CodeConflict,
	"user",
	"Email already in use",
	http.StatusConflict,
)

// --- Users ---

// ErrManagerImmutable - единственный manager не удаляется и не меняет роль,
// и второго manager создать нельзя.
var ErrManagerImmutable = New(
	CodeConflict,
	"user",
	"The manager account cannot be created, deleted or re-assigned",
	http.StatusConflict,
)

// ErrCannotModifySelf - операция над собой запрещена (удаление, смена роли).
var ErrCannotModifySelf = New(
	CodeForbidden,
	"user",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// ErrNotAClient - операция доступна только для аккаунтов с ролью client.
var ErrNotAClient = New(
	CodeValidationFailed,
	"user",
	"User is not a client",
	http.StatusBadRequest,
)

// --- Uploads & Files ---

// ErrFileTooLarge - файл превышает максимальный размер.
var ErrFileTooLarge = New(
	CodeValidationFailed,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusBadRequest,
)

// ErrInvalidFileType - расширение или MIME-тип файла не разрешены.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"upload",
	"The provided file type is not allowed",
	http.StatusBadRequest,
)

// ErrFolderNotFound - папка досье пуста или отсутствует.
var ErrFolderNotFound = New(
	CodeNotFound,
	"document",
	"Folder not found",
	http.StatusNotFound,
)

// ErrFileNotFound - файл не найден ни по полному пути, ни по имени.
var ErrFileNotFound = New(
	CodeNotFound,
	"document",
	"File not found",
	http.StatusNotFound,
)
