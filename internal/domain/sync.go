package domain

import (
	"time"
)

// SyncReport — итог синхронизации справочников с SimplyBook.
type SyncReport struct {
	BatchID          string    `json:"batch_id"`
	MastersCreated   int       `json:"masters_created"`
	MastersUpdated   int       `json:"masters_updated"`
	OfferingsCreated int       `json:"offerings_created"`
	OfferingsUpdated int       `json:"offerings_updated"`
	Exported         int       `json:"exported"`
	Errors           []string  `json:"errors,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}
