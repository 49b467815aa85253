package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig holds every setting the service reads from the environment.
type AppConfig struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	GinMode     string `env:"GIN_MODE"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	DebugSQL    bool   `env:"DEBUG_SQL"`

	DBDriver      string `env:"DB_DRIVER" envDefault:"mysql"`
	DBHost        string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort        string `env:"DB_PORT" envDefault:"3306"`
	DBDatabase    string `env:"DB_DATABASE"`
	DBUsername    string `env:"DB_USERNAME"`
	DBPassword    string `env:"DB_PASSWORD"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE"`

	JWTSecret string `env:"JWT_SECRET"`

	// Rubric bounds for a judge's total score.
	ScoreMin float64 `env:"SCORE_MIN" envDefault:"0"`
	ScoreMax float64 `env:"SCORE_MAX" envDefault:"100"`

	CertificateSink        string   `env:"CERTIFICATE_SINK" envDefault:"log"`
	KafkaBrokers           []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaCertificateTopic  string   `env:"KAFKA_CERTIFICATE_TOPIC" envDefault:"certificates.requested"`
	CertificateOfficeEmail string   `env:"CERTIFICATE_OFFICE_EMAIL"`

	SMTPHost          string `env:"SMTP_HOST"`
	SMTPPort          int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser          string `env:"SMTP_USER"`
	SMTPPass          string `env:"SMTP_PASS"`
	SMTPFrom          string `env:"SMTP_FROM"`
	SMTPSkipTLSVerify bool   `env:"SMTP_SKIP_TLS_VERIFY"`

	LogDir         string   `env:"LOG_DIR" envDefault:"logs"`
	MonitorToken   string   `env:"MONITOR_TOKEN"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// App is populated by Load. The zero value is usable in tests.
var App = Defaults()

// Defaults returns the configuration used when no environment is present.
func Defaults() AppConfig {
	return AppConfig{
		ServerPort:            "8080",
		Environment:           "development",
		DBDriver:              "mysql",
		ScoreMin:              0,
		ScoreMax:              100,
		CertificateSink:       "log",
		KafkaCertificateTopic: "certificates.requested",
		SMTPPort:              587,
		LogDir:                "logs",
		AllowedOrigins:        []string{"http://localhost:3000"},
	}
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads .env (when present) and the process environment into App.
func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := AppConfig{}
	if err := ParseEnv(&cfg); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ScoreMax <= cfg.ScoreMin {
		return fmt.Errorf("SCORE_MAX (%v) must be greater than SCORE_MIN (%v)", cfg.ScoreMax, cfg.ScoreMin)
	}
	App = cfg
	return nil
}

// IsProduction reports whether the service runs with ENVIRONMENT=production.
func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
