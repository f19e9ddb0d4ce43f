package domain

import "time"

// Filter is a saved audience filter. CdmUserCount is the number of users it
// matched the last time it was evaluated.
type Filter struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"size:1024" json:"description"`
	FilterType   string    `gorm:"column:filter_type;size:64;not null;index" json:"type"`
	CdmUserCount int64     `gorm:"column:cdm_user_count;not null;default:0" json:"cdm_user_count"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"author,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
