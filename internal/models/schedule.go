package models

import "time"

// Teacher schedule states that block deleting the teacher's account.
const (
	TeacherScheduleActive    = "activo"
	TeacherScheduleCompleted = "completado"
)

// ClassSchedule ("programación de clase") is a lesson booked against a sale.
// This service only reads schedules to guard deletions.
type ClassSchedule struct {
	ID          string    `db:"id" json:"id"`
	SaleID      string    `db:"sale_id" json:"ventaId"`
	TeacherID   string    `db:"teacher_id" json:"profesorId"`
	ClassroomID *string   `db:"classroom_id" json:"aulaId,omitempty"`
	ClassDate   Date      `db:"class_date" json:"dia"`
	StartTime   string    `db:"start_time" json:"horaInicio"`
	EndTime     string    `db:"end_time" json:"horaFin"`
	Status      string    `db:"status" json:"estado"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// TeacherSchedule ("programación de profesor") is a teacher's availability block.
type TeacherSchedule struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"profesorId"`
	Weekday   string    `db:"weekday" json:"dia"`
	StartTime string    `db:"start_time" json:"horaInicio"`
	EndTime   string    `db:"end_time" json:"horaFin"`
	Status    string    `db:"status" json:"estado"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
