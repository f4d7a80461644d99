// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/healspace/booking/internal/config"
	"github.com/healspace/booking/internal/handler"
	"github.com/healspace/booking/internal/middleware"
)

// Handlers collects everything the route table needs.
type Handlers struct {
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Slots   *handler.SlotHandler
	Booking *handler.BookingHandler
	Profile *handler.ProfileHandler
}

// Register wires the full route table.
//
// Public browse routes sit behind the Redis response cache; the booking
// routes sit behind the token-bucket limiter in addition to JWT auth.
// Both middlewares degrade to pass-throughs when Redis is unavailable.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated browse endpoints, cached.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	pub := e.Group("/v1", cache)
	pub.GET("/categories", h.Catalog.ListCategories)
	pub.GET("/categories/:id/programs", h.Catalog.ListProgramsByCategory)
	pub.GET("/programs", h.Catalog.ListPrograms)
	pub.GET("/programs/:id/dates", h.Slots.ListDates)
	pub.GET("/programs/:id/slots", h.Slots.ListSlots)

	// Session management.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)

	// Everything below requires a valid access token.
	protected := e.Group("/v1")
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))
	protected.Use(middleware.RequireRole("patient", "staff"))

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/me", h.Profile.Me)
	protected.PATCH("/me", h.Profile.Update)
	protected.GET("/my-bookings", h.Booking.List)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	protected.POST("/bookings", h.Booking.Create, limiter)
	protected.DELETE("/bookings/:id", h.Booking.Cancel, limiter)
}
