package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds everything the dashboard needs from its environment. Values
// come from environment variables, optionally seeded from a .env file for
// local development.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// APIToken gates every API request; requests without it are rejected.
	APIToken string

	// Bucket is the GCS bucket holding both the dated sales exports and the
	// reference sheets.
	Bucket string

	// SalesPrefix is the object prefix under which the dated YYYYMMDD.xlsx
	// sales exports live.
	SalesPrefix string

	// ClientObject, ProductObject and AdminObject name the reference sheet
	// blobs within Bucket.
	ClientObject  string
	ProductObject string
	AdminObject   string

	// ExchangeRate is the fixed ruble-to-won rate used by the summary
	// cards.
	ExchangeRate decimal.Decimal

	// YoYEndMonth is the default reference-period end month (1..12) of the
	// year-over-year report.
	YoYEndMonth int
}

// Load reads configuration from the environment. A .env file is honored
// when present and silently ignored otherwise.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		APIToken:      os.Getenv("API_TOKEN"),
		Bucket:        os.Getenv("GCS_BUCKET"),
		SalesPrefix:   getenv("SALES_PREFIX", "sales/"),
		ClientObject:  getenv("CLIENT_OBJECT", "refs/clients.xlsx"),
		ProductObject: getenv("PRODUCT_OBJECT", "refs/products.xlsx"),
		AdminObject:   getenv("ADMIN_OBJECT", "refs/admin.xlsx"),
	}

	rate := getenv("EXCHANGE_RATE", "15.5")
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid EXCHANGE_RATE %q: %w", rate, err)
	}
	cfg.ExchangeRate = parsed

	month := getenv("YOY_END_MONTH", "12")
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return Config{}, fmt.Errorf("config: invalid YOY_END_MONTH %q", month)
	}
	cfg.YoYEndMonth = m

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
