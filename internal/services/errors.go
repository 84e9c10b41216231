package services

import (
	"errors"

	"oriventa_backend/pkg/apperrors"
)

// mapRepoError переводит sentinel-ошибку репозитория в AppError.
// notFound - ошибка репозитория, которая означает 404 для этого вызова.
func mapRepoError(err error, notFound error, domain, message string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if notFound != nil && errors.Is(err, notFound) {
		return apperrors.NewNotFoundError(domain, message)
	}
	return apperrors.InternalError(err)
}
