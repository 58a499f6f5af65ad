package venue

import (
	"time"
)

// Venue represents the event location attached to a booking
type Venue struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Province      *string   `gorm:"size:255" json:"province,omitempty"`
	District      *string   `gorm:"size:255" json:"district,omitempty"`
	StreetAddress *string   `gorm:"size:255" json:"street_address,omitempty"`
	Capacity      *int      `gorm:"type:int" json:"capacity,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}
