package stripe

import (
	"fmt"
	"os"
)

// Donation tiers in minor currency units (cents). Each tier maps to a
// pre-configured recurring price on the Stripe side.
const (
	TierSmall  = 500
	TierMedium = 2500
	TierLarge  = 5000
	TierMajor  = 9200
)

// Paths appended to the public web app URL for the checkout redirect targets.
const (
	successPath = "/donation/success"
	cancelPath  = "/donation/cancelled"
)

// Config holds the complete Stripe configuration
type Config struct {
	APIKey        string           `yaml:"api_key" json:"api_key"`
	WebhookSecret string           `yaml:"webhook_secret" json:"webhook_secret"`
	WebAppURL     string           `yaml:"web_app_url" json:"web_app_url"`
	Prices        map[int64]string `yaml:"prices" json:"prices"`
}

// NewConfig creates a new Stripe configuration from environment variables
func NewConfig() (*Config, error) {
	apiKey := os.Getenv("DONATIONS_STRIPEAPISECRET")
	if apiKey == "" {
		return nil, fmt.Errorf("DONATIONS_STRIPEAPISECRET environment variable is required")
	}

	webhookSecret := os.Getenv("DONATIONS_STRIPEWEBHOOKSECRET")
	if webhookSecret == "" {
		return nil, fmt.Errorf("DONATIONS_STRIPEWEBHOOKSECRET environment variable is required")
	}

	// Default price configuration - can be overridden via environment
	prices := map[int64]string{
		TierSmall:  getEnvOrDefault("STRIPE_PRICE_ID_500", "price_1MoBy5LkdIwHu7ixZhnattbh"),
		TierMedium: getEnvOrDefault("STRIPE_PRICE_ID_2500", "price_1MoBy5LkdIwHu7ixqULgWiHK"),
		TierLarge:  getEnvOrDefault("STRIPE_PRICE_ID_5000", "price_1MoBy5LkdIwHu7ixcjVRbHQ6"),
		TierMajor:  getEnvOrDefault("STRIPE_PRICE_ID_9200", "price_1MoBy5LkdIwHu7ixpTDy5fhm"),
	}

	return &Config{
		APIKey:        apiKey,
		WebhookSecret: webhookSecret,
		WebAppURL:     getEnvOrDefault("DONATIONS_WEBAPPURL", "http://localhost:3000"),
		Prices:        prices,
	}, nil
}

// getEnvOrDefault returns the environment variable value or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
