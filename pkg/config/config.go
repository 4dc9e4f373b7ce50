package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	AppURL                  string
	AuthMode                string
	JWTSecret               string
	FirebaseCredentialsPath string
	FirebaseProjectID       string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	RedisURL                string
	AWSRegion               string
	S3BucketName            string
	MediaPublicBaseURL      string
	MaxUploadBytes          int64
	MetricsPort             string
}

// Load reads configuration from the environment, after loading a .env file if present
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		AppURL:                  getEnv("APP_URL", "http://localhost:3000"),
		AuthMode:                getEnv("AUTH_MODE", "jwt"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "connectly"),
		RedisURL:                getEnv("REDIS_URL", ""),
		AWSRegion:               getEnv("AWS_REGION", "us-east-1"),
		S3BucketName:            getEnv("S3_BUCKET_NAME", ""),
		MediaPublicBaseURL:      getEnv("MEDIA_PUBLIC_BASE_URL", ""),
		MaxUploadBytes:          getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
	}
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
