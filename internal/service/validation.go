package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
)

const (
	maxSpecialties     = 10
	minSpecialtyLength = 2
	maxSpecialtyLength = 100
	defaultPageSize    = 20
)

var documentNumberPattern = regexp.MustCompile(`^\d{6,15}$`)

// NewValidator returns a validator that reports fields by their JSON names and
// understands the documento and doctype tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("documento", func(fl validator.FieldLevel) bool {
		return documentNumberPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("doctype", func(fl validator.FieldLevel) bool {
		return models.DocumentType(strings.ToUpper(strings.TrimSpace(fl.Field().String()))).Valid()
	})
	return v
}

func validationError(err error, message string) *appErrors.Error {
	appErr := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, fieldMessage(fe))
		}
		return appErr.WithErrors(messages...)
	}
	return appErr
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", field)
	case "email":
		return fmt.Sprintf("%s debe ser un correo válido", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser al menos %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s no puede superar %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s no puede superar %s elementos", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s debe ser menor o igual a %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s no es un identificador válido", field)
	case "documento":
		return fmt.Sprintf("%s debe contener entre 6 y 15 dígitos", field)
	case "doctype":
		return fmt.Sprintf("%s debe ser TI, CC, CE, PP o NIT", field)
	default:
		return fmt.Sprintf("%s no es válido", field)
	}
}

func fieldError(message string, fields ...string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrValidation, message).WithErrors(fields...)
}

func duplicateError(message, format string, args ...interface{}) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrDuplicate, message).WithDetails(format, args...)
}

func internalError(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func notFound(message string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrNotFound, message)
}

// validID reports whether id is a well-formed identifier. Malformed ids are
// treated as not found by callers.
func validID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// normalizeSpecialties enforces the 1..10 bound on the supplied list, then
// trims and de-duplicates entries case-insensitively, keeping the first
// spelling. Each entry must hold 2..100 characters.
func normalizeSpecialties(raw []string) ([]string, *appErrors.Error) {
	if len(raw) == 0 || len(raw) > maxSpecialties {
		return nil, specialtyCountError()
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		trimmed := strings.TrimSpace(item)
		if len([]rune(trimmed)) < minSpecialtyLength || len([]rune(trimmed)) > maxSpecialtyLength {
			return nil, fieldError("Especialidades inválidas",
				fmt.Sprintf("cada especialidad debe tener entre %d y %d caracteres", minSpecialtyLength, maxSpecialtyLength))
		}
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out, nil
}

func specialtyCountError() *appErrors.Error {
	return fieldError("Especialidades inválidas",
		fmt.Sprintf("especialidades debe contener entre 1 y %d elementos", maxSpecialties))
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalString(value string) *string {
	return normalizeOptional(&value)
}

func pagination(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > 100 {
		size = 100
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

func parseDocumentType(raw string) models.DocumentType {
	return models.DocumentType(strings.ToUpper(strings.TrimSpace(raw)))
}
