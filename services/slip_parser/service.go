package slip_parser

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"artist-booking/logger"
	"artist-booking/models/slip_parser"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SlipParserService handles payment slip parser operations
type SlipParserService struct {
	DB        *gorm.DB
	UploadDir string
}

// NewSlipParserService creates a new slip parser service
func NewSlipParserService(db *gorm.DB) *SlipParserService {
	return &SlipParserService{
		DB:        db,
		UploadDir: "uploaded_slips",
	}
}

// GenerateRequestID generates a 24 character unique request ID
func (s *SlipParserService) GenerateRequestID() string {
	bytes := make([]byte, 12)
	rand.Read(bytes)
	requestID := hex.EncodeToString(bytes)
	timestamp := time.Now().Unix()
	// last 6 hex chars of the timestamp + 18 random hex chars
	return fmt.Sprintf("%06x%s", timestamp&0xffffff, requestID[:18])
}

// CreateInitialRequest creates an initial request record in the database
func (s *SlipParserService) CreateInitialRequest(c *fiber.Ctx, requestID, originalFileName string, fileSize int64, mimeType string) (*slip_parser.SlipParserRequest, error) {
	ipAddress := c.IP()
	if ipAddress == "" {
		ipAddress = "unknown"
	}
	userAgent := c.Get("User-Agent")

	request := &slip_parser.SlipParserRequest{
		RequestID:        requestID,
		OriginalFileName: originalFileName,
		FileSize:         fileSize,
		MimeType:         mimeType,
		Status:           "processing",
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
	}

	if err := s.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create initial request: %w", err)
	}
	return request, nil
}

// SaveFileAsync saves the uploaded slip asynchronously
func (s *SlipParserService) SaveFileAsync(requestID string, fileBytes []byte, originalFileName, mimeType string) {
	go func() {
		if err := s.saveFile(requestID, fileBytes, originalFileName); err != nil {
			logger.Error(fmt.Sprintf("Failed to save file for request %s", requestID), err)
			s.updateRequestWithFileError(requestID, err.Error())
		}
	}()
}

// saveFile saves the slip to disk and updates the database record
func (s *SlipParserService) saveFile(requestID string, fileBytes []byte, originalFileName string) error {
	if err := s.ensureUploadDir(); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	hash := sha256.Sum256(fileBytes)
	fileHash := hex.EncodeToString(hash[:])

	ext := filepath.Ext(originalFileName)
	savedFileName := fmt.Sprintf("%s_%d%s", requestID, time.Now().Unix(), ext)
	filePath := filepath.Join(s.UploadDir, savedFileName)

	if err := os.WriteFile(filePath, fileBytes, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	updates := map[string]interface{}{
		"saved_file_name": savedFileName,
		"file_hash":       fileHash,
		"file_path":       filePath,
	}
	if err := s.DB.Model(&slip_parser.SlipParserRequest{}).Where("request_id = ?", requestID).Updates(updates).Error; err != nil {
		os.Remove(filePath)
		return fmt.Errorf("failed to update request with file info: %w", err)
	}

	logger.Success(fmt.Sprintf("File saved successfully for request %s: %s", requestID, savedFileName))
	return nil
}

// SaveSuccessResultAsync saves the parsing result asynchronously
func (s *SlipParserService) SaveSuccessResultAsync(requestID string, result *slip_parser.SlipParserResponse) {
	go func() {
		var request slip_parser.SlipParserRequest
		if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
			logger.Error(fmt.Sprintf("Failed to find request %s", requestID), err)
			return
		}
		if err := request.MarkAsSuccess(s.DB, result); err != nil {
			logger.Error(fmt.Sprintf("Failed to save success result for request %s", requestID), err)
		}
	}()
}

// SaveFailureResultAsync saves the failure result asynchronously
func (s *SlipParserService) SaveFailureResultAsync(requestID string, errorMsg string, processingTime int64) {
	go func() {
		var request slip_parser.SlipParserRequest
		if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
			logger.Error(fmt.Sprintf("Failed to find request %s", requestID), err)
			return
		}
		if err := request.MarkAsFailed(s.DB, errorMsg, processingTime); err != nil {
			logger.Error(fmt.Sprintf("Failed to save failure result for request %s", requestID), err)
		}
	}()
}

// updateRequestWithFileError updates the request with file saving error
func (s *SlipParserService) updateRequestWithFileError(requestID string, errorMsg string) {
	updates := map[string]interface{}{
		"status":        "failed",
		"error_message": fmt.Sprintf("File saving error: %s", errorMsg),
	}
	if err := s.DB.Model(&slip_parser.SlipParserRequest{}).Where("request_id = ?", requestID).Updates(updates).Error; err != nil {
		logger.Error(fmt.Sprintf("Failed to update request %s with file error", requestID), err)
	}
}

// ensureUploadDir creates the upload directory if it doesn't exist
func (s *SlipParserService) ensureUploadDir() error {
	if _, err := os.Stat(s.UploadDir); os.IsNotExist(err) {
		if err := os.MkdirAll(s.UploadDir, 0755); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("Created upload directory: %s", s.UploadDir))
	}
	return nil
}

// GetRequestByID retrieves a request by ID
func (s *SlipParserService) GetRequestByID(requestID string) (*slip_parser.SlipParserRequest, error) {
	var request slip_parser.SlipParserRequest
	if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}
