package domain

import (
	"time"
)

// WorkingHours — шаблон рабочего дня мастера для одного дня недели.
// Template имеет вид "9:00am-8:00pm"; nil означает выходной.
type WorkingHours struct {
	ID        int64     `json:"id"`
	MasterID  int64     `json:"master_id"`
	Weekday   int       `json:"weekday"`
	Template  *string   `json:"template"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpsertWorkingHoursDTO struct {
	Weekday  int     `json:"weekday" binding:"min=0,max=6"`
	Template *string `json:"template"`
}

// Slot — вычисляемое значение, не хранится в БД.
type Slot struct {
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
}
