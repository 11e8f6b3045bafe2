package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	JWTSecret     string
	MongoURI      string
	DBName        string
	SkipAuth      bool
	Environment   string
	AppId         string
	UploadPath    string // Physical directory for file uploads
	UploadURL     string // URL path prefix for file access
	StatsCronSpec string // Schedule for the stats reconciliation job
	MaxUploadMB   int    // Hard cap per uploaded file, regardless of field rules
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", "go-formhub"),
		SkipAuth:      getEnv("SKIP_AUTH", "false") == "true",
		Environment:   getEnv("ENVIRONMENT", "development"),
		AppId:         getEnv("APP_ID", "go-formhub"),
		UploadPath:    getEnv("UPLOAD_PATH", "./uploads"),
		UploadURL:     getEnv("UPLOAD_URL", "/fs/uploads"),
		StatsCronSpec: getEnv("STATS_CRON", "*/10 * * * *"),
		MaxUploadMB:   getEnvInt("MAX_UPLOAD_MB", 25),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
