package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserSettings holds per-user dashboard preferences. At most one row per
// user; the settings handler replaces it wholesale on every save.
type UserSettings struct {
	gorm.Model

	UserID         uint              `gorm:"uniqueIndex;not null"`
	Columns        datatypes.JSONMap `gorm:"type:jsonb"` // column name -> visible
	AutoActivateAt string            // "HH:MM", empty disables
	DiscordWebhook string

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
