package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	MetricsPort string

	DBDriver    string // postgres or sqlite
	DatabaseURL string
	MongoURI    string
	MongoDB     string
	RedisAddr   string
	RedisPass   string

	JWTSecret            string
	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration
	BlacklistBackend     string // sql, redis or mongo
	CookieSecure         bool
	CORSOrigins          []string

	FirebaseCredentialsPath string
	FirebaseProjectID       string

	MediaRoot   string
	MediaURL    string
	S3Bucket    string
	S3Region    string
	S3PublicURL string

	MaxReplyDepth int // 0 means unbounded

	LogLevel string
	LogFile  string
}

// Load reads the configuration from the environment, after loading a .env file if present
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:        getEnv("PORT", "8000"),
		Env:         getEnv("ENV", "development"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),

		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=postgres dbname=social sslmode=disable"),
		MongoURI:    getEnv("MONGO_URI", ""),
		MongoDB:     getEnv("MONGO_DB", "socialmedia"),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		RedisPass:   getEnv("REDIS_PASSWORD", ""),

		JWTSecret:            getEnv("JWT_SECRET", "supersecretjwtkey"),
		AccessTokenLifetime:  getDuration("ACCESS_TOKEN_LIFETIME", 5*time.Minute),
		RefreshTokenLifetime: getDuration("REFRESH_TOKEN_LIFETIME", 24*time.Hour),
		BlacklistBackend:     getEnv("BLACKLIST_BACKEND", "sql"),
		CookieSecure:         getBool("COOKIE_SECURE", false),
		CORSOrigins:          getList("CORS_ORIGINS", []string{"http://localhost:5173"}),

		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),

		MediaRoot:   getEnv("MEDIA_ROOT", "./media"),
		MediaURL:    getEnv("MEDIA_URL", "/media"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),

		MaxReplyDepth: getInt("MAX_REPLY_DEPTH", 0),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", "server.log"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		log.Printf("Invalid integer for %s: %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
