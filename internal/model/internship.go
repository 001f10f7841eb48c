package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InternshipStatus represents the lifecycle state of a posting.
type InternshipStatus string

const (
	InternshipStatusActive    InternshipStatus = "active"
	InternshipStatusFilled    InternshipStatus = "filled"
	InternshipStatusExpired   InternshipStatus = "expired"
	InternshipStatusWithdrawn InternshipStatus = "withdrawn"
)

// IsTerminal reports whether the status permits no further transitions.
func (s InternshipStatus) IsTerminal() bool {
	switch s {
	case InternshipStatusFilled, InternshipStatusExpired, InternshipStatusWithdrawn:
		return true
	}
	return false
}

// Internship represents a posting owned by an organization user.
//
// OwnerID is set exactly once at creation to the authenticated creator's
// user ID and is immutable afterwards. All ownership checks compare this
// ID; display names and organization-name strings carry no authority.
type Internship struct {
	ID                  uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	OwnerID             uuid.UUID        `json:"owner_id" gorm:"type:char(36);not null;index"`
	Title               string           `json:"title" gorm:"size:255;not null"`
	Description         string           `json:"description" gorm:"type:text;not null"`
	Sector              string           `json:"sector" gorm:"size:100;index"`
	LocationCity        string           `json:"location_city" gorm:"size:100"`
	LocationState       string           `json:"location_state" gorm:"size:100"`
	Skills              string           `json:"skills" gorm:"size:500"` // comma-separated
	EducationLevel      string           `json:"education_level" gorm:"size:50"`
	StipendAmount       decimal.Decimal  `json:"stipend_amount" gorm:"type:decimal(20,2)"`
	StipendCurrency     string           `json:"stipend_currency" gorm:"size:3;default:'INR'"`
	Duration            string           `json:"duration" gorm:"size:50"`
	PositionsTotal      int              `json:"positions_total" gorm:"default:1"`
	PositionsAvailable  int              `json:"positions_available" gorm:"default:1"`
	ApplicationDeadline time.Time        `json:"application_deadline"`
	StartDate           time.Time        `json:"start_date"`
	Status              InternshipStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	DeletedAt           gorm.DeletedAt   `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Internship) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
