package models

import "gorm.io/gorm"

// CopiedProject records that a user copied a pool entry into their own list,
// so repeated copies of the same source are rejected instead of duplicated.
type CopiedProject struct {
	gorm.Model

	UserID          uint   `gorm:"not null;index:idx_copied_user_source,unique"`
	SourceAirdropID string `gorm:"not null;size:36;index:idx_copied_user_source,unique"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
