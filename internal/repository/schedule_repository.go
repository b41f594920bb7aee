package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/escuela-musica-api/internal/models"
)

const (
	classScheduleColumns   = "id, sale_id, teacher_id, classroom_id, class_date, start_time, end_time, status, created_at"
	teacherScheduleColumns = "id, teacher_id, weekday, start_time, end_time, status, created_at"
)

// ScheduleRepository reads class and teacher schedules. Schedules are written by
// the scheduling module; this service only consults them before deletions.
type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ClassSchedulesByTeacher returns lessons assigned to a teacher.
func (r *ScheduleRepository) ClassSchedulesByTeacher(ctx context.Context, exec sqlx.ExtContext, teacherID string) ([]models.ClassSchedule, error) {
	var list []models.ClassSchedule
	query := fmt.Sprintf("SELECT %s FROM class_schedules WHERE teacher_id = $1 ORDER BY class_date", classScheduleColumns)
	if err := sqlx.SelectContext(ctx, pick(exec, r.db), &list, query, teacherID); err != nil {
		return nil, fmt.Errorf("list class schedules by teacher: %w", err)
	}
	return list, nil
}

// ClassSchedulesBySales returns lessons booked against any of the sales.
func (r *ScheduleRepository) ClassSchedulesBySales(ctx context.Context, exec sqlx.ExtContext, saleIDs []string) ([]models.ClassSchedule, error) {
	if len(saleIDs) == 0 {
		return nil, nil
	}
	var list []models.ClassSchedule
	query := fmt.Sprintf("SELECT %s FROM class_schedules WHERE sale_id = ANY($1) ORDER BY class_date", classScheduleColumns)
	if err := sqlx.SelectContext(ctx, pick(exec, r.db), &list, query, pq.Array(saleIDs)); err != nil {
		return nil, fmt.Errorf("list class schedules by sales: %w", err)
	}
	return list, nil
}

// TeacherSchedulesByTeacher returns availability blocks of a teacher. When
// statuses is non-empty only those states are returned.
func (r *ScheduleRepository) TeacherSchedulesByTeacher(ctx context.Context, exec sqlx.ExtContext, teacherID string, statuses ...string) ([]models.TeacherSchedule, error) {
	query := fmt.Sprintf("SELECT %s FROM teacher_schedules WHERE teacher_id = $1", teacherScheduleColumns)
	args := []interface{}{teacherID}
	if len(statuses) > 0 {
		query += " AND status = ANY($2)"
		args = append(args, pq.Array(statuses))
	}
	var list []models.TeacherSchedule
	if err := sqlx.SelectContext(ctx, pick(exec, r.db), &list, query+" ORDER BY weekday, start_time", args...); err != nil {
		return nil, fmt.Errorf("list teacher schedules: %w", err)
	}
	return list, nil
}
