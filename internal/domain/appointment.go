package domain

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

// Blocks сообщает, занимает ли запись с таким статусом время мастера.
// Отмененные, завершенные и неявки слоты не блокируют.
func (s AppointmentStatus) Blocks() bool {
	return s == AppointmentStatusConfirmed || s == AppointmentStatusInProgress
}

type Appointment struct {
	ID              int64             `json:"id"`
	ClientID        int64             `json:"client_id"`
	MasterID        int64             `json:"master_id"`
	OfferingID      int64             `json:"offering_id"`
	StartTime       time.Time         `json:"start_time"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          AppointmentStatus `json:"status"`
	Price           float64           `json:"price"`
	Comment         string            `json:"comment,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	ClientName      string            `json:"client_name,omitempty"`
	ClientPhone     string            `json:"client_phone,omitempty"`
	MasterName      string            `json:"master_name,omitempty"`
	OfferingName    string            `json:"offering_name,omitempty"`
}

func (a Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

type CreateAppointmentDTO struct {
	MasterID   int64     `json:"master_id" binding:"required"`
	OfferingID int64     `json:"offering_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	Comment    string    `json:"comment"`
}

type RescheduleAppointmentDTO struct {
	StartTime time.Time `json:"start_time" binding:"required"`
}

type AppointmentFilter struct {
	ClientID  *int64             `json:"client_id"`
	MasterID  *int64             `json:"master_id"`
	Status    *AppointmentStatus `json:"status"`
	StartDate *time.Time         `json:"start_date"`
	EndDate   *time.Time         `json:"end_date"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}
