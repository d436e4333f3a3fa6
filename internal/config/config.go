package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ServerPort int

	DatabaseURL string

	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	PurgeInterval time.Duration

	AdminName     string
	AdminEmail    string
	AdminPassword string

	UploadDir string
	AdminDir  string

	KafkaBrokers []string
	EventsTopic  string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	return &Config{
		Env:        EnvDefault("ENV", "dev"),
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		RefreshSecret: []byte(os.Getenv("REFRESH_SECRET")),
		AccessTTL:     EnvDurationDefault("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTTL:    EnvDurationDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		PurgeInterval: EnvDurationDefault("REFRESH_PURGE_INTERVAL", time.Hour),

		AdminName:     EnvDefault("ADMIN_NAME", "Admin"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		UploadDir: EnvDefault("UPLOAD_DIR", "uploads"),
		AdminDir:  EnvDefault("ADMIN_DIR", "admin/dist"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  EnvDefault("EVENTS_TOPIC", "content_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "posts"),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
	}
}

func (c *Config) IsProd() bool { return c.Env == "prod" }
