package quote

import (
	"fmt"
	"strconv"

	"artist-booking/controllers/apierror"
	"artist-booking/logger"
	quoteService "artist-booking/services/quote"
	"artist-booking/types"
	bookingTypes "artist-booking/types/booking"
	"artist-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// QuoteController handles quote negotiation HTTP requests
type QuoteController struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Service *quoteService.Service
}

// NewQuoteController creates a new quote controller
func NewQuoteController(db *gorm.DB, asyncLogger *logger.AsyncLogger, service *quoteService.Service) *QuoteController {
	return &QuoteController{
		DB:      db,
		Logger:  asyncLogger,
		Service: service,
	}
}

// Helper function to log API requests and responses
func (qc *QuoteController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	qc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (qc *QuoteController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	qc.logAPIRequest(c)
	return result
}

// Submit files a quote against a booking inquiry (artist only)
func (qc *QuoteController) Submit(c *fiber.Ctx) error {
	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return qc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	var req bookingTypes.SubmitQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return qc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	actor, err := utils.ResolveActor(c)
	if err != nil {
		return qc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	created, err := qc.Service.Submit(c.Context(), quoteService.SubmitRequest{
		BookingID:         uint(bookingID),
		ArtistID:          actor.ID,
		QuotedPrice:       req.QuotedPrice,
		DepositAmount:     req.DepositAmount,
		DepositPercentage: req.DepositPercentage,
		ValidUntil:        req.ValidUntil,
		Message:           req.Message,
	})
	if err != nil {
		status, msg := apierror.StatusOf(err)
		return qc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: msg,
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Quote %d submitted for booking %d", created.ID, bookingID))

	return qc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Quote submitted successfully",
		Data:    created,
	})
}

// Accept accepts a pending quote (customer only)
func (qc *QuoteController) Accept(c *fiber.Ctx) error {
	return qc.respond(c, "accept")
}

// Reject rejects a pending quote (customer only)
func (qc *QuoteController) Reject(c *fiber.Ctx) error {
	return qc.respond(c, "reject")
}

func (qc *QuoteController) respond(c *fiber.Ctx, action string) error {
	quoteID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return qc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid quote id",
			Data:    nil,
		})
	}

	// Notes are optional; an empty body is fine
	var req bookingTypes.RespondQuoteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			logger.Error("Failed to parse request body", err)
			return qc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid request body",
				Data:    nil,
			})
		}
	}

	actor, err := utils.ResolveActor(c)
	if err != nil {
		return qc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var result *quoteService.RespondResult
	if action == "accept" {
		result, err = qc.Service.Accept(c.Context(), uint(quoteID), actor.ID, req.Notes)
	} else {
		result, err = qc.Service.Reject(c.Context(), uint(quoteID), actor.ID, req.Notes)
	}
	if err != nil {
		status, msg := apierror.StatusOf(err)
		return qc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: msg,
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Quote %d %sed by user %d", quoteID, action, actor.ID))

	return qc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Quote %sed successfully", action),
		Data:    result,
	})
}
