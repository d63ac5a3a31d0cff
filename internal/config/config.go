package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup and passed explicitly through the
// pipeline. Per-request values (company id, report dates) travel in the
// request, never here, so concurrent invocations for different companies
// stay safe.
type Config struct {
	Port string

	ReviewsURL           string
	CompanyDetailsURL    string
	CompanyDetailsAPIKey string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RendererURL string

	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	DataDir    string
	ReportsDir string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                 envOr("PORT", "8080"),
		ReviewsURL:           os.Getenv("REVIEWS_URL"),
		CompanyDetailsURL:    os.Getenv("COMPANY_DETAILS_URL"),
		CompanyDetailsAPIKey: os.Getenv("X_API_KEY_COMPANY_DETAILS_URL"),
		RedisAddr:            envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RendererURL:          os.Getenv("RENDERER_URL"),
		StorageEndpoint:      os.Getenv("STORAGE_ENDPOINT"),
		StorageAccessKey:     os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey:     os.Getenv("STORAGE_SECRET_KEY"),
		StorageBucket:        envOr("STORAGE_BUCKET", "instareview"),
		StorageUseSSL:        envOr("STORAGE_USE_SSL", "true") == "true",
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPUsername:         os.Getenv("SMTP_USERNAME"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:             envOr("SMTP_FROM_EMAIL", "reports@instareview.ai"),
		DataDir:              envOr("DATA_DIR", "data"),
		ReportsDir:           envOr("REPORTS_DIR", "reports"),
	}

	var err error
	if cfg.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.SMTPPort, err = envInt("SMTP_PORT", 465); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}
