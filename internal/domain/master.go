package domain

import (
	"time"
)

type Master struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	Description  string    `json:"description,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	SimplyBookID *int64    `json:"simplybook_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
}

type CreateMasterDTO struct {
	DisplayName string `json:"display_name" binding:"required"`
	Description string `json:"description"`
}

type UpdateMasterDTO struct {
	DisplayName  *string `json:"display_name"`
	Description  *string `json:"description"`
	IsActive     *bool   `json:"is_active"`
	SimplyBookID *int64  `json:"simplybook_id"`
}
