package domain

import (
	"time"
)

// Offering — услуга салона: стрижка, бритье и т.д.
type Offering struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	IsActive        bool      `json:"is_active"`
	SimplyBookID    *int64    `json:"simplybook_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateOfferingDTO struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1"`
	Price           float64 `json:"price" binding:"required,gt=0"`
}

type UpdateOfferingDTO struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,min=1"`
	Price           *float64 `json:"price" binding:"omitempty,gt=0"`
	IsActive        *bool    `json:"is_active"`
	SimplyBookID    *int64   `json:"simplybook_id"`
}

type OfferingFilter struct {
	OnlyActive bool `json:"only_active"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
}
