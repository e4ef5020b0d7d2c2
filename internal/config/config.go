package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration values
)

// Config holds runtime configuration shared by both orchestrator binaries.
// Each field corresponds to an environment variable.  Required variables
// are enforced by must() and cause a fatal log message when missing; the
// remote-service URLs default to the local development ports used by the
// user-service, hotel-service and reservation-service deployments.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	UserServiceURL        string // base URL of the identity (user) service
	HotelServiceURL       string // base URL of the inventory (hotel) service
	ReservationServiceURL string // base URL of the reservation service (used by the payment binary)

	ClientTimeout time.Duration // per-call timeout for outbound HTTP calls

	GatewayMode    string // card gateway selection: "simulated" or "paypal"
	PayPalBaseURL  string // PayPal API base URL (sandbox or live)
	PayPalClientID string // PayPal OAuth client id
	PayPalSecret   string // PayPal OAuth client secret
	WebhookVerify  string // webhook signature verification: "accept-all" or "jws"
	WebhookSecret  string // shared secret for the jws verifier
	AMQPURL        string // RabbitMQ connection URL (optional, events disabled when empty)
}

// Load reads configuration values from environment variables and returns a
// Config.  The database settings and port are required for every binary;
// everything else carries a development default so a single .env file can
// drive both services.
func Load() Config {
	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		UserServiceURL:        getenv("USER_SERVICE_URL", "http://localhost:8083"),
		HotelServiceURL:       getenv("HOTEL_SERVICE_URL", "http://localhost:8084"),
		ReservationServiceURL: getenv("RESERVATION_SERVICE_URL", "http://localhost:8081"),

		ClientTimeout: envDur("CLIENT_TIMEOUT", 5*time.Second),

		GatewayMode:    getenv("GATEWAY_MODE", "simulated"),
		PayPalBaseURL:  getenv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
		PayPalClientID: os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalSecret:   os.Getenv("PAYPAL_CLIENT_SECRET"),
		WebhookVerify:  getenv("WEBHOOK_VERIFY", "accept-all"),
		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
		AMQPURL:        os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the value of an environment variable or a default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
