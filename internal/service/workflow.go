package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/internal/repository"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
)

// Unique constraints declared in migrations/0001_init.sql.
var constraintMessages = map[string]string{
	"users_email_key":                   "Ya existe un usuario con ese correo",
	"users_document_number_key":         "Ya existe un usuario con ese documento",
	"teachers_email_key":                "Ya existe un profesor con ese correo",
	"teachers_document_number_key":      "Ya existe un profesor con esa identificación",
	"teachers_user_id_key":              "El usuario ya está vinculado a otro profesor",
	"beneficiaries_document_number_key": "Ya existe un beneficiario con ese documento",
	"sales_sale_code_key":               "Ya existe una venta con ese código",
	"classrooms_room_number_key":        "Ya existe un aula con ese número",
	"courses_name_key":                  "Ya existe un curso con ese nombre",
	"enrollment_types_name_key":         "Ya existe una matrícula con ese nombre",
	"roles_name_key":                    "Ya existe un rol con ese nombre",
	"user_roles_active_key":             "El usuario ya tiene asignado este rol",
}

// duplicateFromStore maps a unique violation raised by the store to a
// DuplicateKey error. It returns nil for any other error.
func duplicateFromStore(err error) *appErrors.Error {
	if !repository.IsUniqueViolation(err) {
		return nil
	}
	constraint := repository.ViolatedConstraint(err)
	message, ok := constraintMessages[constraint]
	if !ok {
		message = appErrors.ErrDuplicate.Message
	}
	return appErrors.Wrap(err, appErrors.ErrDuplicate.Code, appErrors.ErrDuplicate.Status, message).
		WithDetails("restricción %s", constraint)
}

// abortError translates the error that rolled back a multi-step workflow.
// Typed errors raised mid-transaction keep their status and store unique
// violations become duplicates. Only the remaining errors count as aborts.
func abortError(metrics *MetricsService, logger *zap.Logger, workflow string, err error) *appErrors.Error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if dup := duplicateFromStore(err); dup != nil {
		return dup
	}
	metrics.RecordWorkflowAbort(workflow)
	logger.Error("workflow aborted", zap.String("workflow", workflow), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrTransactionAborted.Code, appErrors.ErrTransactionAborted.Status,
		appErrors.ErrTransactionAborted.Message).WithDetails("%s", err.Error())
}

func blockedError(message string, records []appErrors.AssociatedRecord) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrDeleteBlocked, message).
		WithDetails("%d registro(s) asociado(s); considere desactivar en lugar de eliminar", len(records)).
		WithRecords(records)
}

func classScheduleRecords(items []models.ClassSchedule) []appErrors.AssociatedRecord {
	records := make([]appErrors.AssociatedRecord, 0, len(items))
	for _, item := range items {
		records = append(records, appErrors.AssociatedRecord{
			ID:          item.ID,
			Kind:        "programacion_clase",
			Description: fmt.Sprintf("Clase del %s %s-%s", item.ClassDate.String(), item.StartTime, item.EndTime),
		})
	}
	return records
}

func teacherScheduleRecords(items []models.TeacherSchedule) []appErrors.AssociatedRecord {
	records := make([]appErrors.AssociatedRecord, 0, len(items))
	for _, item := range items {
		records = append(records, appErrors.AssociatedRecord{
			ID:          item.ID,
			Kind:        "programacion_profesor",
			Description: fmt.Sprintf("%s %s-%s (%s)", item.Weekday, item.StartTime, item.EndTime, item.Status),
		})
	}
	return records
}

func saleRecords(items []models.Sale) []appErrors.AssociatedRecord {
	records := make([]appErrors.AssociatedRecord, 0, len(items))
	for _, item := range items {
		records = append(records, appErrors.AssociatedRecord{
			ID:          item.ID,
			Kind:        "venta",
			Description: fmt.Sprintf("Venta %s (%s, %s)", item.SaleCode, item.Type, item.Status),
		})
	}
	return records
}

func beneficiaryRecords(items []models.Beneficiary) []appErrors.AssociatedRecord {
	records := make([]appErrors.AssociatedRecord, 0, len(items))
	for _, item := range items {
		records = append(records, appErrors.AssociatedRecord{
			ID:          item.ID,
			Kind:        "beneficiario",
			Description: fmt.Sprintf("%s %s (%s)", item.Names, item.Surnames, item.DocumentNumber),
		})
	}
	return records
}
