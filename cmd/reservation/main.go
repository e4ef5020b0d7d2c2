package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/reservite/hotel-booking/internal/client"
	"github.com/reservite/hotel-booking/internal/config"
	"github.com/reservite/hotel-booking/internal/database"
	"github.com/reservite/hotel-booking/internal/handler"
	"github.com/reservite/hotel-booking/internal/middleware"
	"github.com/reservite/hotel-booking/internal/queue"
	"github.com/reservite/hotel-booking/internal/repository"
	"github.com/reservite/hotel-booking/internal/router"
	"github.com/reservite/hotel-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional, real env vars win

	log := logrus.New()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	users := client.NewUserClient(cfg.UserServiceURL, cfg.ClientTimeout)
	hotels := client.NewHotelClient(cfg.HotelServiceURL, cfg.ClientTimeout)
	events := queue.NewPublisher(cfg.AMQPURL, log)
	store := repository.NewReservationRepo(db)

	svc := service.NewReservationService(users, hotels, store, events, log)
	h := handler.NewReservationHandler(svc, log)

	// Redis is optional: without it the read projections are simply uncached.
	var cache echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		cache = middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterReservation(e, h, cache)

	addr := ":" + cfg.Port
	log.Infof("reservation orchestrator listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
