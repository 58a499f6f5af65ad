package booking

import (
	"fmt"
	"strconv"
	"time"

	"artist-booking/controllers/apierror"
	"artist-booking/database"
	"artist-booking/logger"
	bookingModel "artist-booking/models/booking"
	userModel "artist-booking/models/user"
	venueModel "artist-booking/models/venue"
	"artist-booking/services/ledger"
	"artist-booking/types"
	bookingTypes "artist-booking/types/booking"
	"artist-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
	Ledger *ledger.GormStore
}

// NewBookingController creates a new booking controller
func NewBookingController(db *gorm.DB, asyncLogger *logger.AsyncLogger, store *ledger.GormStore) *BookingController {
	return &BookingController{
		DB:     db,
		Logger: asyncLogger,
		Ledger: store,
	}
}

// Helper function to log API requests and responses
func (bc *BookingController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	bc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (bc *BookingController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	bc.logAPIRequest(c)
	return result
}

// Store creates a new booking inquiry with its venue
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.InquiryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	actor, err := utils.ResolveActor(c)
	if err != nil {
		logger.Error("Error resolving user from token", err)
		return bc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	if req.ArtistID == 0 || req.EventType == "" || req.EventDate.IsZero() {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "artist_id, event_type and event_date are required",
			Data:    nil,
		})
	}
	if !req.EventDate.After(time.Now()) {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "event_date must be in the future",
			Data:    nil,
		})
	}
	if req.ArtistID == actor.ID {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "You cannot book yourself",
			Data:    nil,
		})
	}

	var artist userModel.User
	if err := bc.DB.First(&artist, req.ArtistID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Artist not found",
				Data:    nil,
			})
		}
		logger.Error("Database error while loading artist", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	var venue venueModel.Venue
	var booking bookingModel.Booking

	// Use DB.Transaction for automatic rollback on error
	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		venue = venueModel.Venue{
			Name:          req.VenueName,
			Province:      &req.Province,
			District:      &req.District,
			StreetAddress: &req.StreetAddress,
			Capacity:      req.Capacity,
		}
		if err := tx.Create(&venue).Error; err != nil {
			logger.Error("Failed to create venue", err)
			return err
		}

		booking = bookingModel.Booking{
			BookingNumber: utils.GenerateBookingNumber(),
			CustomerID:    actor.ID,
			ArtistID:      artist.ID,
			EventType:     req.EventType,
			EventDate:     req.EventDate,
			VenueID:       venue.ID,
			Status:        bookingModel.BookingStatusInquiry,
			CreatedBy:     strconv.FormatUint(uint64(actor.ID), 10),
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&booking).Error; err != nil {
			logger.Error("Failed to create booking", err)
			return err
		}

		return nil
	})
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save booking",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Booking inquiry created with number: %s", booking.BookingNumber))

	// Load the complete booking data with relationships
	var createdBooking bookingModel.Booking
	err = database.DB.Preload("Customer").Preload("Artist").Preload("VenueInfo").First(&createdBooking, booking.ID).Error
	if err != nil {
		logger.Error("Failed to load created booking data", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Booking created but failed to retrieve complete data",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking inquiry created successfully",
		Data:    createdBooking,
	})
}

// Show returns a booking together with its accepted quote, verified payments
// and computed balances.
func (bc *BookingController) Show(c *fiber.Ctx) error {
	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	actor, err := utils.ResolveActor(c)
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	agg, err := bc.Ledger.Aggregate(c.Context(), uint(bookingID))
	if err != nil {
		status, msg := apierror.StatusOf(err)
		return bc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: msg,
			Data:    nil,
		})
	}

	if agg.Booking.CustomerID != actor.ID && agg.Booking.ArtistID != actor.ID {
		return bc.sendResponseWithLog(c, fiber.StatusForbidden, types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You are not a party to this booking",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    agg,
	})
}

// Upcoming lists the caller's bookings in the next 30 days.
func (bc *BookingController) Upcoming(c *fiber.Ctx) error {
	actor, err := utils.ResolveActor(c)
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	days := 30
	if v := c.Query("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 365 {
			days = parsed
		}
	}

	from, to := utils.UpcomingWindow(days)
	bookings, err := bc.Ledger.UpcomingBookings(c.Context(), actor.ID, from, to)
	if err != nil {
		logger.Error("Failed to list upcoming bookings", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Upcoming bookings retrieved successfully",
		Data:    bookings,
	})
}
