package models

import (
	"time"

	"gorm.io/gorm"
)

// JobRun persists the last completed run of a named background job, so a
// restart can tell whether a scheduled firing was missed.
type JobRun struct {
	gorm.Model

	Name    string    `gorm:"uniqueIndex;not null"`
	LastRun time.Time `gorm:"not null"`
}
