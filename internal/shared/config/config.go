package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server struct {
		Port         int
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		IdleTimeout  time.Duration
	}
	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string
	}
	Kafka struct {
		Brokers       []string
		OrdersTopic   string
		PaymentsTopic string
		GroupID       string
	}
	UserService struct {
		BaseURL string
	}
	Auth struct {
		JWTSecret string
	}
}

// Load reads configuration from environment variables, applies defaults, and
// validates required fields.
func Load() (*Config, error) {
	var cfg Config

	cfg.Server.Port = envInt("HTTP_PORT", 3000)
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 15 * time.Second
	cfg.Server.IdleTimeout = 60 * time.Second

	cfg.Database.Host = envString("DB_HOST", "localhost")
	cfg.Database.Port = envInt("DB_PORT", 5432)
	cfg.Database.User = envString("DB_USER", "")
	cfg.Database.Password = envString("DB_PASSWORD", "")
	cfg.Database.Name = envString("DB_NAME", "")

	cfg.Kafka.Brokers = splitCSV(envString("KAFKA_BROKERS", "localhost:9092"))
	cfg.Kafka.OrdersTopic = envString("KAFKA_ORDERS_TOPIC", "orders")
	cfg.Kafka.PaymentsTopic = envString("KAFKA_PAYMENTS_TOPIC", "payments")
	cfg.Kafka.GroupID = envString("KAFKA_GROUP_ID", "order-service-group")

	cfg.UserService.BaseURL = envString("USER_SERVICE_URL", "http://localhost:8081")

	cfg.Auth.JWTSecret = envString("JWT_SECRET", "")

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// validate checks required fields and basic ranges.
func (c *Config) validate() error {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, "HTTP_PORT must be in 1..65535")
	}

	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		problems = append(problems, "DB_PORT must be in 1..65535")
	}
	if c.Database.User == "" {
		problems = append(problems, "DB_USER is required")
	}
	if c.Database.Password == "" {
		problems = append(problems, "DB_PASSWORD is required")
	}
	if c.Database.Name == "" {
		problems = append(problems, "DB_NAME is required")
	}

	if len(c.Kafka.Brokers) == 0 {
		problems = append(problems, "KAFKA_BROKERS is required")
	}
	if c.Kafka.OrdersTopic == "" {
		problems = append(problems, "KAFKA_ORDERS_TOPIC is required")
	}
	if c.Kafka.PaymentsTopic == "" {
		problems = append(problems, "KAFKA_PAYMENTS_TOPIC is required")
	}
	if c.Kafka.GroupID == "" {
		problems = append(problems, "KAFKA_GROUP_ID is required")
	}

	if c.UserService.BaseURL == "" {
		problems = append(problems, "USER_SERVICE_URL is required")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
