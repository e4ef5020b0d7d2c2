package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/reservite/hotel-booking/internal/client"
	"github.com/reservite/hotel-booking/internal/config"
	"github.com/reservite/hotel-booking/internal/database"
	"github.com/reservite/hotel-booking/internal/gateway"
	"github.com/reservite/hotel-booking/internal/handler"
	"github.com/reservite/hotel-booking/internal/idgen"
	"github.com/reservite/hotel-booking/internal/middleware"
	"github.com/reservite/hotel-booking/internal/queue"
	"github.com/reservite/hotel-booking/internal/repository"
	"github.com/reservite/hotel-booking/internal/router"
	"github.com/reservite/hotel-booking/internal/service"
)

// confirmAttempts bounds the idempotent confirm-payment callback retries.
const confirmAttempts = 3

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	var gate gateway.CardGateway
	switch cfg.GatewayMode {
	case "paypal":
		gate = gateway.NewPayPalGateway(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalSecret, cfg.ClientTimeout)
	default:
		gate = gateway.SimulatedGateway{}
	}
	verifier := gateway.NewVerifier(cfg.WebhookVerify, cfg.WebhookSecret, log)

	reservations := client.NewReservationClient(cfg.ReservationServiceURL, cfg.ClientTimeout, confirmAttempts, log)
	events := queue.NewPublisher(cfg.AMQPURL, log)
	store := repository.NewPaymentRepo(db)

	svc := service.NewPaymentService(store, gate, reservations, idgen.NewUUIDGenerator(), events, log)
	h := handler.NewPaymentHandler(svc, verifier, log)

	var limit echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		limit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterPayment(e, h, limit)

	addr := ":" + cfg.Port
	log.Infof("payment orchestrator listening on %s (env=%s, gateway=%s)", addr, cfg.Env, cfg.GatewayMode)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
