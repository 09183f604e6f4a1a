package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"backend/internal/models"
)

var AppEnv Config

type Config struct {
	MongoURI        string
	DBName          string
	JWTSecret       string
	SessionTokenTTL time.Duration
	BcryptCost      int

	// FrontendBaseURL is used to build password-reset links.
	FrontendBaseURL       string
	FreeShippingThreshold models.Money

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailFromName string

	// Kafka settings are optional; the order-event producer stays disabled
	// when KafkaBroker is empty.
	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:              getEnvOrDefault("MONGO_URI", ""),
		DBName:                getEnvOrDefault("DB_NAME", "tavero"),
		JWTSecret:             getEnvOrDefault("JWT_SECRET", ""),
		SessionTokenTTL:       getDurationEnv("SESSION_TOKEN_TTL", 7, 24*time.Hour),
		BcryptCost:            getIntEnv("BCRYPT_COST", 10),
		FrontendBaseURL:       getEnvOrDefault("FRONTEND_URL", "http://localhost:5000"),
		FreeShippingThreshold: getMoneyEnv("FREE_SHIPPING_THRESHOLD", "50.00"),
		SMTPHost:              getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:              getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:              getEnvOrDefault("SMTP_USER", ""),
		SMTPPassword:          getEnvOrDefault("SMTP_PASSWORD", ""),
		MailFrom:              getEnvOrDefault("MAIL_FROM", "noreply@tavero.com"),
		MailFromName:          getEnvOrDefault("MAIL_FROM_NAME", "Tavero"),
		KafkaBroker:           getEnvOrDefault("KAFKA_BROKER", ""),
		KafkaTopic:            getEnvOrDefault("KAFKA_TOPIC", "order-events"),
		KafkaUsername:         getEnvOrDefault("KAFKA_USERNAME", ""),
		KafkaPassword:         getEnvOrDefault("KAFKA_PASSWORD", ""),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getMoneyEnv(key, defaultValue string) models.Money {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := models.MoneyFromString(value); err == nil {
			return parsed
		}
		log.Printf("invalid %s value %q, using default %s", key, value, defaultValue)
	}
	return models.MustMoney(defaultValue)
}
