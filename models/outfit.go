package models

import (
	"gorm.io/datatypes"
)

// Outfit is a saved recommendation. Rows are never updated.
type Outfit struct {
	UUIDModel
	ImageURLs   datatypes.JSONSlice[string] `json:"image_urls"`
	Prompt      string                      `gorm:"type:text" json:"prompt"`
	Explanation string                      `gorm:"type:text" json:"explanation"`
	StylingTips string                      `gorm:"type:text" json:"styling_tips"`
}
