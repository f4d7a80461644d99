package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/healspace/booking/internal/config"
	"github.com/healspace/booking/internal/database"
	"github.com/healspace/booking/internal/handler"
	"github.com/healspace/booking/internal/logger"
	"github.com/healspace/booking/internal/queue"
	"github.com/healspace/booking/internal/repository"
	"github.com/healspace/booking/internal/router"
	"github.com/healspace/booking/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	migCtx, migCancel := context.WithTimeout(context.Background(), time.Minute)
	if err := database.Migrate(migCtx, db, "migrations"); err != nil {
		migCancel()
		log.Fatal("migrations failed", zap.Error(err))
	}
	migCancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, caching and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	categories := repository.NewCategoryRepo(db)
	programs := repository.NewProgramRepo(db)
	schedules := repository.NewScheduleRepo(db)
	slots := repository.NewSlotRepo(db)
	bookings := repository.NewBookingRepo(db)

	slotSvc := service.NewSlotService(programs, schedules, slots, log)
	bookingSvc := service.NewBookingService(bookings, queue.NewPublisher(log), log)

	go queue.StartBookingConsumer(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := service.NewScheduler(slotSvc, 24*time.Hour, log)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users, tokens),
		Catalog: handler.NewCatalogHandler(categories, programs),
		Slots:   handler.NewSlotHandler(slotSvc, programs, log),
		Booking: handler.NewBookingHandler(bookingSvc),
		Profile: handler.NewProfileHandler(users),
	}, cfg, rdb)

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutCtx)
	}()

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Info("server stopped", zap.Error(err))
	}
}
