package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Redis    RedisConfig
	Rabbit   RabbitConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	Paystack PaystackConfig
	Telegram TelegramConfig
	Order    OrderConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RedisConfig struct {
	URL string
}

type RabbitConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type HTTPConfig struct {
	Addr string
}

type AuthConfig struct {
	JWTSecret      string
	GoogleClientID string
}

type PaystackConfig struct {
	SecretKey string
	PublicKey string
	BaseURL   string
}

type TelegramConfig struct {
	Token       string
	AdminChatID int64 // chat that receives order notifications
}

type OrderConfig struct {
	DeliveryFee    int64 // naira
	ServiceFee     int64 // naira
	SimStepSeconds int   // delay per forward status transition
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	mqPort, _ := strconv.Atoi(getEnv("RABBIT_PORT", "5672"))
	adminChat, _ := strconv.ParseInt(getEnv("TELEGRAM_ADMIN_CHAT", "0"), 10, 64)

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "foodflow"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Rabbit: RabbitConfig{
			Host:     getEnv("RABBIT_HOST", "localhost"),
			Port:     mqPort,
			User:     getEnv("RABBIT_USER", "guest"),
			Password: getEnv("RABBIT_PASSWORD", "guest"),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
			GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		},
		Paystack: PaystackConfig{
			SecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
			PublicKey: getEnv("PAYSTACK_PUBLIC_KEY", ""),
			BaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TELEGRAM_TOKEN", ""),
			AdminChatID: adminChat,
		},
		Order: OrderConfig{
			DeliveryFee:    int64(getEnvAsInt("DELIVERY_FEE", 1500)),
			ServiceFee:     int64(getEnvAsInt("SERVICE_FEE", 500)),
			SimStepSeconds: getEnvAsInt("SIM_STEP_SECONDS", 30),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
