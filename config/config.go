package config

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config drives cmd/api.
type Config struct {
	Port     string `env:"PORT, default=5000"`
	Env      string `env:"ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	DBUrl string `env:"DATABASE_URL"`
	DB    DBConfig

	// Browser origins allowed to call the API (the candidate console and the legacy SPA).
	FrontendURLs []string `env:"FRONTEND_URLS, default=http://localhost:3000,http://localhost:8081"`

	Redis     RedisConfig
	RateLimit RateLimitConfig
	Resume    ResumeConfig
	S3        S3Config
	OpenAI    OpenAIConfig

	// Progress statuses counted as a selection in the reports.
	SelectionStatuses []string `env:"SELECTION_STATUSES, default=COMPLETED"`
}

// DBConfig is the discrete form of the connection settings, used when DATABASE_URL is empty.
type DBConfig struct {
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT, default=5432"`
	User     string `env:"DB_USER, default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME, default=ats_system"`
	SSLMode  string `env:"DB_SSLMODE, default=disable"`
}

type RedisConfig struct {
	URL      string `env:"REDIS_URL"`
	Password string `env:"REDIS_PASSWORD"`
}

type RateLimitConfig struct {
	Window          time.Duration `env:"RATE_LIMIT_WINDOW, default=1m"`
	GlobalThreshold int           `env:"RATE_LIMIT_GLOBAL_THRESHOLD, default=100"`
	UploadThreshold int           `env:"RATE_LIMIT_UPLOAD_THRESHOLD, default=20"`
}

type ResumeConfig struct {
	// Store selects the backend: "s3" or "disk".
	Store    string `env:"RESUME_STORE, default=disk"`
	Dir      string `env:"RESUME_DIR, default=uploads"`
	MaxBytes int64  `env:"RESUME_MAX_BYTES, default=5242880"`

	// clamd address ("host:3310" or a socket path). Empty disables malware scanning.
	ClamAVAddress string        `env:"CLAMAV_ADDRESS"`
	ScanTimeout   time.Duration `env:"CLAMAV_TIMEOUT, default=30s"`
}

type S3Config struct {
	Provider        string `env:"S3_PROVIDER, default=aws"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	Region          string `env:"S3_REGION, default=ap-south-1"`
	Bucket          string `env:"S3_BUCKET"`
	WasabiEndpoint  string `env:"WASABI_ENDPOINT"`
}

type OpenAIConfig struct {
	APIKey string `env:"OPENAI_API_KEY"`
	Model  string `env:"OPENAI_MODEL, default=gpt-4o-mini"`
}

func LoadConfig() (*Config, error) {
	// .env only exists locally; in containers the environment is already populated
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if cfg.DBUrl == "" && cfg.DB.Host != "" {
		cfg.DBUrl = cfg.DB.URL()
	}
	for i, origin := range cfg.FrontendURLs {
		cfg.FrontendURLs[i] = strings.TrimRight(strings.TrimSpace(origin), "/")
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL and DB_HOST are missing. Application may fail to connect.")
	}
	if cfg.Redis.URL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}
	if cfg.Resume.Store == "s3" && cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("RESUME_STORE=s3 requires S3_BUCKET")
	}

	return &cfg, nil
}

// URL builds a postgres connection string from the discrete settings.
func (d DBConfig) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + d.Port,
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// WebConfig drives cmd/web, the candidate console.
type WebConfig struct {
	Port     string `env:"WEB_PORT, default=8081"`
	Env      string `env:"ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	APIBaseURL string        `env:"API_BASE_URL, default=http://localhost:5000"`
	APITimeout time.Duration `env:"API_TIMEOUT, default=10s"`

	// HS256 secret of the identity provider's session tokens.
	JWTSecret string `env:"JWT_SECRET"`

	// Whether a recruiterId query parameter may attribute new candidates.
	TrustReferrer bool `env:"TRUST_REFERRER, default=true"`

	SecureCookies bool `env:"SECURE_COOKIES, default=false"`
}

func LoadWebConfig() (*WebConfig, error) {
	_ = godotenv.Load()

	var cfg WebConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET not configured. Every console visitor is anonymous.")
	}

	return &cfg, nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
