package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	RedisURL           string
	Port               string
	GoEnv              string
	JWTSecret          string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	VAPIDPublicKey     string
	VAPIDPrivateKey    string
	VAPIDSubject       string
	AdminEmail         string

	// Checkout policy. The delivery charge is configuration, not logic:
	// a flat default plus optional per-city overrides.
	DeliveryCharge       float64
	DeliveryChargeCities map[string]float64
	PartialDepositAmount float64

	// Order number allocation. Short display numbers are drawn uniformly
	// from [OrderNumberMin, OrderNumberMax] and retried on conflict.
	OrderNumberMin      int
	OrderNumberMax      int
	OrderNumberAttempts int

	// Cart policy.
	CartTTLHours         int
	CartClampMinQuantity bool

	UploadURLTTLMinutes int
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production, environment variables are set directly
			// so it's okay if .env files don't exist
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		VAPIDPublicKey:     getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:    getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:       getEnv("VAPID_SUBJECT", "mailto:admin@uniquestorebd.shop"),
		AdminEmail:         getEnv("ADMIN_EMAIL", ""),

		DeliveryCharge:       getEnvFloat("DELIVERY_CHARGE", 0),
		DeliveryChargeCities: parseCityCharges(getEnv("DELIVERY_CHARGE_CITIES", "")),
		PartialDepositAmount: getEnvFloat("PARTIAL_DEPOSIT_AMOUNT", 100),

		OrderNumberMin:      getEnvInt("ORDER_NUMBER_MIN", 100),
		OrderNumberMax:      getEnvInt("ORDER_NUMBER_MAX", 999),
		OrderNumberAttempts: getEnvInt("ORDER_NUMBER_ATTEMPTS", 25),

		CartTTLHours:         getEnvInt("CART_TTL_HOURS", 72),
		CartClampMinQuantity: getEnvBool("CART_CLAMP_MIN_QUANTITY", true),

		UploadURLTTLMinutes: getEnvInt("UPLOAD_URL_TTL_MINUTES", 10),
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.OrderNumberMin < 1 || c.OrderNumberMax < c.OrderNumberMin {
		return fmt.Errorf("invalid order number range [%d, %d]", c.OrderNumberMin, c.OrderNumberMax)
	}
	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Config {
	return appConfig
}

// SetConfig sets the configuration (primarily for testing)
func SetConfig(c *Config) {
	appConfig = c
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// DeliveryChargeFor resolves the delivery charge for a city: the per-city
// override when configured, otherwise the flat default. City matching is
// case-insensitive.
func (c *Config) DeliveryChargeFor(city string) float64 {
	if charge, ok := c.DeliveryChargeCities[strings.ToLower(strings.TrimSpace(city))]; ok {
		return charge
	}
	return c.DeliveryCharge
}

// parseCityCharges parses "dhaka=60,chattogram=100" into a lookup map.
// Malformed entries are logged and skipped.
func parseCityCharges(raw string) map[string]float64 {
	charges := make(map[string]float64)
	if raw == "" {
		return charges
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			log.Printf("Skipping malformed DELIVERY_CHARGE_CITIES entry %q", pair)
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			log.Printf("Skipping malformed DELIVERY_CHARGE_CITIES entry %q: %v", pair, err)
			continue
		}
		charges[strings.ToLower(strings.TrimSpace(parts[0]))] = value
	}
	return charges
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvFloat retrieves a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid number for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return f
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}
