package models

import (
	"time"

	"github.com/go-playground/validator"
	"gorm.io/datatypes"
)

type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusProcessing ItemStatus = "processing"
	StatusProcessed  ItemStatus = "processed"
	StatusFailed     ItemStatus = "failed"
)

func ValidateItemStatus(fl validator.FieldLevel) bool {
	switch ItemStatus(fl.Field().String()) {
	case StatusPending, StatusProcessing, StatusProcessed, StatusFailed:
		return true
	}
	return false
}

// UUIDModel is gorm.Model with an application generated string id and no soft delete.
type UUIDModel struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Clothing struct {
	UUIDModel
	Name                string                         `json:"name"`
	ImageKey            string                         `json:"-"`
	ImageURL            string                         `json:"image_url"`
	Status              ItemStatus                     `gorm:"index;size:16" json:"status"` // pending, processing, processed, failed
	Attributes          datatypes.JSONType[Attributes] `json:"attributes"`
	ProcessErrorMessage *string                        `gorm:"type:text" json:"process_error_message"`
	ProcessedAt         *time.Time                     `json:"processed_at"`
	Favorite            bool                           `gorm:"default:false" json:"favorite"`
}

// Attr returns the attribute value for key or "" when absent.
func (c Clothing) Attr(key string) string {
	return c.Attributes.Data()[key]
}
