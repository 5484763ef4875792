package domain

import (
	"time"
)

// UnavailabilityPeriod — явный выходной или перерыв мастера.
// При AllDay интервал трактуется как весь календарный день,
// независимо от указанных часов.
type UnavailabilityPeriod struct {
	ID        int64     `json:"id"`
	MasterID  int64     `json:"master_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	AllDay    bool      `json:"all_day"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateUnavailabilityDTO struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	AllDay    bool      `json:"all_day"`
	Reason    string    `json:"reason"`
}

type UnavailabilityFilter struct {
	MasterID  *int64     `json:"master_id"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}
