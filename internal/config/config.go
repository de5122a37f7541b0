package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port                string
	BaseURL             string
	SupabaseURL         string
	SupabaseAnonKey     string
	MongoDBURI          string
	MongoDBPassword     string
	RedisAddr           string
	StripeSecretKey     string
	StripePublicKey     string
	StripeWebhookSecret string
	// BookingHoldMinutes is how long an unpaid reservation keeps its dates
	// before the cleanup sweep may purge it.
	BookingHoldMinutes int
	Environment        string
	LogLevel           string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnvWithDefault("PORT", "8080"),
		BaseURL:             getEnvWithDefault("BASE_URL", "http://localhost:3000"),
		SupabaseURL:         os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:     os.Getenv("SUPABASE_URL_ANON_KEY"),
		MongoDBURI:          os.Getenv("MONGODB_URI"),
		MongoDBPassword:     os.Getenv("MONGODB_PASSWORD"),
		RedisAddr:           getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripePublicKey:     os.Getenv("STRIPE_PUBLIC_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		Environment:         getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:            getEnvWithDefault("LOG_LEVEL", "info"),
	}

	holdMinutes := getEnvWithDefault("BOOKING_HOLD_MINUTES", "60")
	parsed, err := strconv.Atoi(holdMinutes)
	if err != nil || parsed < 0 {
		return nil, fmt.Errorf("BOOKING_HOLD_MINUTES must be a non-negative integer")
	}
	cfg.BookingHoldMinutes = parsed

	// Validate required fields
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.MongoDBPassword == "" {
		return nil, fmt.Errorf("MONGODB_PASSWORD is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
