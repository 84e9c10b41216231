package validator

import (
	"fmt"
	"strings"

	"oriventa_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// enumRules - тег -> допустимые значения; сообщение об ошибке строится из того же списка
var enumRules = map[string][]string{
	"is-user-role":           values(models.UserRoles),
	"is-consultation-status": values(models.ConsultationStatuses),
	"is-dossier-status":      values(models.DossierStatuses),
	"is-resume-status":       values(models.ResumeStatuses),
	"is-experience": values([]models.Experience{
		models.Experience0To1, models.Experience1To3, models.Experience3To5,
		models.Experience5To10, models.Experience10Plus,
	}),
	"is-has-cv":          values([]models.HasCV{models.HasCVYes, models.HasCVNo}),
	"is-suivi-file-type": values([]models.SuiviFileKind{models.SuiviFileCV, models.SuiviFileLM}),
}

func values[T ~string](list []T) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = string(v)
	}
	return out
}

func registerEnumRules(v *validator.Validate) error {
	for tag, allowed := range enumRules {
		if err := v.RegisterValidation(tag, oneOf(allowed)); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// oneOf - пустое значение проходит, для него есть 'required'
func oneOf(allowed []string) validator.Func {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		_, ok := set[value]
		return ok
	}
}

func enumMessage(tag string) (string, bool) {
	allowed, ok := enumRules[tag]
	if !ok {
		return "", false
	}
	return "Must be one of: " + strings.Join(allowed, ", "), true
}
