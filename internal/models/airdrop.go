package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tags is the canonical representation of a project's labels: an ordered
// list of free-text strings, stored as jsonb. Older clients send them as a
// comma-joined string, which UnmarshalJSON still accepts.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	return json.Marshal(t)
}

func (t *Tags) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported tags column type %T", value)
	}
}

func (t *Tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = normalizeTags(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*t = normalizeTags(strings.Split(joined, ","))
		return nil
	}

	return errors.New("tags must be a list of strings or a comma-joined string")
}

func normalizeTags(raw []string) Tags {
	tags := Tags{}
	for _, tag := range raw {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// Airdrop is a tracked crypto opportunity owned by a single user.
type Airdrop struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time

	OwnerID uint   `gorm:"not null;index"`
	Name    string `gorm:"not null"`
	Logo    string
	Link    string
	Social  string
	Chain   string
	Stage   string
	Type    string
	Tags    Tags `gorm:"type:jsonb"`
	Notes   string

	JoinedAt     time.Time `gorm:"not null"`
	LastActivity time.Time `gorm:"not null;index"`
	Active       bool      `gorm:"not null;default:false"`
	Public       bool      `gorm:"not null;default:false;index"`

	LinkOK        bool
	LinkCheckedAt *time.Time

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (a *Airdrop) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
