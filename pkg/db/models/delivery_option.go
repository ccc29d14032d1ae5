package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryOption is an admin-managed local delivery method offered alongside
// carrier quotes.
type DeliveryOption struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Description   *string   `gorm:"column:description"`
	FeeCents      int       `gorm:"column:fee_cents;not null;default:0"`
	EstimatedDays int       `gorm:"column:estimated_days;not null;default:0"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
