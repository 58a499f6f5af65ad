package slip_parser

import (
	"time"

	"gorm.io/gorm"
)

// SlipParserRequest represents a payment slip parsing request
type SlipParserRequest struct {
	ID               uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID        string `json:"request_id" gorm:"type:varchar(24);uniqueIndex;not null"` // 24 character unique ID
	OriginalFileName string `json:"original_file_name" gorm:"type:varchar(255);not null"`
	SavedFileName    string `json:"saved_file_name" gorm:"type:varchar(255)"`
	FileHash         string `json:"file_hash" gorm:"type:varchar(128);index"` // SHA256 hash
	FilePath         string `json:"file_path" gorm:"type:varchar(500)"`
	FileSize         int64  `json:"file_size" gorm:"not null"`
	MimeType         string `json:"mime_type" gorm:"type:varchar(100);not null"`
	Status           string `json:"status" gorm:"type:varchar(50);not null;default:'processing';index"` // processing, success, failed
	ProcessingTimeMs int64  `json:"processing_time_ms" gorm:"default:0"`

	// Parsed data fields
	Amount         string `json:"amount" gorm:"type:varchar(32);default:''"`
	Currency       string `json:"currency" gorm:"type:varchar(3);default:''"`
	TransactionRef string `json:"transaction_ref" gorm:"type:varchar(255);index;default:''"`
	SenderName     string `json:"sender_name" gorm:"type:varchar(255);default:''"`
	SenderBank     string `json:"sender_bank" gorm:"type:varchar(255);default:''"`
	ReceiverName   string `json:"receiver_name" gorm:"type:varchar(255);default:''"`
	PaidAtText     string `json:"paid_at_text" gorm:"type:varchar(100);default:''"`

	// Error information
	ErrorMessage string `json:"error_message" gorm:"type:text;default:''"`

	// Metadata
	IPAddress string `json:"ip_address" gorm:"type:varchar(45);index;default:''"` // Support IPv6
	UserAgent string `json:"user_agent" gorm:"type:text;default:''"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlipParserResponse is the parsed payload returned to the caller
type SlipParserResponse struct {
	RequestID        string `json:"request_id"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	TransactionRef   string `json:"transaction_ref"`
	SenderName       string `json:"sender_name"`
	SenderBank       string `json:"sender_bank"`
	ReceiverName     string `json:"receiver_name"`
	PaidAtText       string `json:"paid_at_text"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}

// MarkAsSuccess stores the parsed payload and flips the request to success
func (r *SlipParserRequest) MarkAsSuccess(db *gorm.DB, result *SlipParserResponse) error {
	updates := map[string]interface{}{
		"status":             "success",
		"processing_time_ms": result.ProcessingTimeMs,
		"amount":             result.Amount,
		"currency":           result.Currency,
		"transaction_ref":    result.TransactionRef,
		"sender_name":        result.SenderName,
		"sender_bank":        result.SenderBank,
		"receiver_name":      result.ReceiverName,
		"paid_at_text":       result.PaidAtText,
	}
	return db.Model(r).Updates(updates).Error
}

// MarkAsFailed records the failure reason
func (r *SlipParserRequest) MarkAsFailed(db *gorm.DB, errorMsg string, processingTime int64) error {
	updates := map[string]interface{}{
		"status":             "failed",
		"error_message":      errorMsg,
		"processing_time_ms": processingTime,
	}
	return db.Model(r).Updates(updates).Error
}
