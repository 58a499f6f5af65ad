package routes

import (
	"time"

	"artist-booking/constants"
	bookingCtrl "artist-booking/controllers/booking"
	paymentCtrl "artist-booking/controllers/payment"
	quoteCtrl "artist-booking/controllers/quote"
	"artist-booking/controllers/server"
	"artist-booking/logger"
	"artist-booking/middleware"
	"artist-booking/services/ledger"
	quoteService "artist-booking/services/quote"
	settlementService "artist-booking/services/settlement"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client) {
	asyncLogger := logger.NewAsyncLogger(db)
	store := ledger.NewGormStore(db)

	quoteSvc := quoteService.NewService(store)
	settlementSvc := settlementService.NewService(store)

	bookingController := bookingCtrl.NewBookingController(db, asyncLogger, store)
	quoteController := quoteCtrl.NewQuoteController(db, asyncLogger, quoteSvc)
	paymentController := paymentCtrl.NewPaymentController(db, asyncLogger, settlementSvc)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Shared fixed-window limiter for the mutating money endpoints
	limiter := middleware.NewRateLimiter(rdb, 30, time.Minute)

	// Index route
	app.Get("/", server.Health)

	api := app.Group("/api")

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/booking")

	bookingGroup.Post("/inquiry", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), bookingController.Store)

	bookingGroup.Get("/upcoming", middleware.RequireAuthentication(), bookingController.Upcoming)

	bookingGroup.Get("/:id", middleware.RequireAuthentication(), bookingController.Show)

	bookingGroup.Post("/:id/quote", middleware.RequirePermissions(
		constants.PermArtistFull,
	), limiter.Limit("quote-submit"), quoteController.Submit)

	bookingGroup.Post("/:id/pay-deposit", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), limiter.Limit("pay-deposit"), paymentController.PayDeposit)

	bookingGroup.Post("/:id/pay-remaining", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), limiter.Limit("pay-remaining"), paymentController.PayRemaining)

	/*=============================================================================
	| Quote Routes
	===============================================================================*/
	quoteGroup := api.Group("/quote")

	quoteGroup.Post("/:id/accept", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), limiter.Limit("quote-respond"), quoteController.Accept)

	quoteGroup.Post("/:id/reject", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), limiter.Limit("quote-respond"), quoteController.Reject)

	/*=============================================================================
	| Payment Routes
	===============================================================================*/
	paymentGroup := api.Group("/payment")

	paymentGroup.Post("/:id/verify", middleware.RequirePermissions(
		constants.AdminPermissions...,
	), paymentController.Verify)

	paymentGroup.Post("/parse-slip", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), limiter.Limit("parse-slip"), paymentController.ParsePaymentSlip)
}
