package main // Entry point package

import (
    "context"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/ritmofit/booking-api/internal/config"
    "github.com/ritmofit/booking-api/internal/database"
    "github.com/ritmofit/booking-api/internal/handler"
    "github.com/ritmofit/booking-api/internal/logger"
    "github.com/ritmofit/booking-api/internal/mailer"
    "github.com/ritmofit/booking-api/internal/middleware"
    "github.com/ritmofit/booking-api/internal/queue"
    "github.com/ritmofit/booking-api/internal/repository"
    "github.com/ritmofit/booking-api/internal/router"
    "github.com/ritmofit/booking-api/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()
    log := logger.New(cfg.Env)
    defer func() { _ = log.Sync() }()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatal("database open failed", zap.Error(err))
    }
    defer func() { _ = db.Close() }()

    migrateCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
    defer cancel()
    if err := database.Migrate(migrateCtx, db); err != nil {
        log.Fatal("migrations failed", zap.Error(err))
    }

    // Redis backs the response cache and the rate limiter. A nil client
    // disables both; the API itself does not depend on Redis.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Warn("redis unavailable, cache and rate limiting disabled")
    }

    // Repositories.
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    otps := repository.NewOTPRepo(db)
    classes := repository.NewClassRepo(db)
    reservations := repository.NewReservationRepo(db)

    // Booking engine.
    booking := service.NewBookingService(db, classes, reservations, log)

    // Messaging and mail.
    brokerURL := queue.BrokerURL()
    events := queue.NewPublisher(brokerURL, log)
    mail, err := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
    if err != nil {
        log.Fatal("smtp client failed", zap.Error(err))
    }
    if mail == nil {
        log.Warn("smtp not configured, login codes will not be mailed")
    }
    go queue.StartOTPConsumer(brokerURL, mail, log)

    // Handlers.
    authH := handler.NewAuthHandler(cfg, users, tokens, otps, events)
    classH := handler.NewClassHandler(classes)
    reservationH := handler.NewReservationHandler(booking, classes, events)
    historyH := handler.NewHistoryHandler(reservations)
    profileH := handler.NewProfileHandler(users)

    e := echo.New()
    e.HideBanner = true

    // Rate limiting applies globally; the response cache only fronts
    // the public catalog so authenticated reads stay fresh.
    rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    respCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    e.Use(rateLimit)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH)
    router.RegisterCatalog(e, classH, respCache)
    router.RegisterMember(e, reservationH, historyH, profileH, authH, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
    if err := e.Start(addr); err != nil {
        log.Fatal("server stopped", zap.Error(err))
    }
}
