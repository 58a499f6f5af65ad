package payment

import (
	"fmt"
	"strconv"

	"artist-booking/controllers/apierror"
	"artist-booking/logger"
	bookingModel "artist-booking/models/booking"
	settlementService "artist-booking/services/settlement"
	"artist-booking/types"
	bookingTypes "artist-booking/types/booking"
	"artist-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PaymentController handles payment settlement HTTP requests
type PaymentController struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Service *settlementService.Service
}

// NewPaymentController creates a new payment controller
func NewPaymentController(db *gorm.DB, asyncLogger *logger.AsyncLogger, service *settlementService.Service) *PaymentController {
	return &PaymentController{
		DB:      db,
		Logger:  asyncLogger,
		Service: service,
	}
}

// Helper function to log API requests and responses
func (pc *PaymentController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	pc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (pc *PaymentController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c)
	return result
}

// PayDeposit records the deposit payment for a booking (customer only)
func (pc *PaymentController) PayDeposit(c *fiber.Ctx) error {
	return pc.settle(c, "deposit")
}

// PayRemaining records the final settlement for a booking (customer only)
func (pc *PaymentController) PayRemaining(c *fiber.Ctx) error {
	return pc.settle(c, "remaining")
}

func (pc *PaymentController) settle(c *fiber.Ctx, stage string) error {
	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	var req bookingTypes.PaymentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	method := bookingModel.PaymentMethod(req.Method)
	if !method.IsValid() {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid payment method",
			Data:    nil,
		})
	}

	actor, err := utils.ResolveActor(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	paymentReq := settlementService.PaymentRequest{
		BookingID:      uint(bookingID),
		ActorID:        actor.ID,
		Amount:         req.Amount,
		Method:         method,
		ProofURL:       req.ProofURL,
		TransactionRef: req.TransactionRef,
		PromptPayRef:   req.PromptPayRef,
	}

	var result *settlementService.PaymentResult
	if stage == "deposit" {
		result, err = pc.Service.PayDeposit(c.Context(), paymentReq)
	} else {
		result, err = pc.Service.PayRemaining(c.Context(), paymentReq)
	}
	if err != nil {
		status, msg := apierror.StatusOf(err)
		return pc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: msg,
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Payment %d (%s) recorded for booking %d", result.PaymentID, result.Type, bookingID))

	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Payment recorded successfully",
		Data:    result,
	})
}

// Verify promotes a pending payment to verified (admin only)
func (pc *PaymentController) Verify(c *fiber.Ctx) error {
	paymentID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid payment id",
			Data:    nil,
		})
	}

	actor, err := utils.ResolveActor(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	result, err := pc.Service.Verify(c.Context(), uint(paymentID), actor.Username)
	if err != nil {
		status, msg := apierror.StatusOf(err)
		return pc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: msg,
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Payment %d verified by %s", paymentID, actor.Username))

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment verified successfully",
		Data:    result,
	})
}
