package booking

import (
	"time"

	"artist-booking/models/user"
	"artist-booking/models/venue"

	"github.com/shopspring/decimal"
)

// Booking represents a single event engagement between one customer and one
// artist. Rows are never deleted; a dead booking is transitioned to CANCELLED.
type Booking struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingNumber string `gorm:"type:varchar(64);not null;unique" json:"booking_number"`

	// Foreign key for the owning customer
	CustomerID uint      `gorm:"not null" json:"customer_id"`
	Customer   user.User `gorm:"foreignKey:CustomerID" json:"customer"`

	// Foreign key for the performing artist
	ArtistID uint      `gorm:"not null" json:"artist_id"`
	Artist   user.User `gorm:"foreignKey:ArtistID" json:"artist"`

	EventType string    `gorm:"type:varchar(100);not null" json:"event_type"`
	EventDate time.Time `gorm:"not null" json:"event_date"`

	// Foreign key for venue relationship
	VenueID   uint        `gorm:"not null" json:"venue_id"`
	VenueInfo venue.Venue `gorm:"foreignKey:VenueID" json:"venue_info"`

	Status BookingStatus `gorm:"type:varchar(20);not null;default:INQUIRY" json:"status"`

	// QuotedPrice is set when the first quote arrives; FinalPrice is set
	// exactly once, at CONFIRMED, and never changes afterward.
	QuotedPrice   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"quoted_price,omitempty"`
	FinalPrice    *decimal.Decimal `gorm:"type:decimal(12,2)" json:"final_price,omitempty"`
	DepositPaid   bool             `gorm:"default:false" json:"deposit_paid"`
	DepositAmount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"deposit_amount,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
