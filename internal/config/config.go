package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ardhiansyah/toko-api/internal/models"
)

type Config struct {
	PORT          string
	DB_HOST       string
	DB_PORT       string
	DB_USER       string
	DB_PASSWORD   string
	DB_NAME       string
	ES_URL        string
	ES_USER       string
	ES_PASSWORD   string
	JWT_SECRET    string
	JWT_EXPIRE    time.Duration
	KAFKA_ADDRESS string
	GCS_BUCKET    string
	GCS_CREDS     string
	LOG_LEVEL     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:          getDefault("PORT", "8080"),
		DB_HOST:       os.Getenv("DB_HOST"),
		DB_PORT:       os.Getenv("DB_PORT"),
		DB_USER:       os.Getenv("DB_USER"),
		DB_PASSWORD:   os.Getenv("DB_PASSWORD"),
		DB_NAME:       os.Getenv("DB_NAME"),
		ES_URL:        os.Getenv("ES_URL"),
		ES_USER:       os.Getenv("ES_USER"),
		ES_PASSWORD:   os.Getenv("ES_PASSWORD"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		JWT_EXPIRE:    parseDuration(os.Getenv("JWT_EXPIRE"), 24*time.Hour),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		GCS_BUCKET:    os.Getenv("GCS_BUCKET"),
		GCS_CREDS:     os.Getenv("GCS_CREDENTIALS_FILE"),
		LOG_LEVEL:     getDefault("LOG_LEVEL", "info"),
	}

	return config, nil
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Notice: invalid duration %q, using default %v", s, def)
		return def
	}
	return d
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to db: %w", err)
	}
	if err := db.AutoMigrate(&models.Shop{}, &models.User{}, &models.Auth{}, &models.Product{}); err != nil {
		return nil, fmt.Errorf("cannot migrate tables: %w", err)
	}

	// registration attaches every new user to the default shop
	defaultShop := models.Shop{ID: 1, Name: "Default Shop"}
	if err := db.FirstOrCreate(&defaultShop, models.Shop{ID: 1}).Error; err != nil {
		return nil, fmt.Errorf("cannot seed default shop: %w", err)
	}
	return db, nil
}
