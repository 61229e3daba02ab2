package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"

	devSecret = "dev-secret-change"
)

type Config struct {
	Port string

	StoreBackend  string
	MongoURI      string
	MongoDatabase string

	// RedisAddr is optional; without it revocation and events stay in process.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	AdminEmail    string
	AdminPassword string

	AllowedOrigins []string
	PublicBaseURL  string

	ApplyRatePerMinute int
	ApplyBurst         int
	LoginRatePerMinute int
	LoginBurst         int
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	return Config{
		Port:               normalizePort(getEnv("PORT", "8080")),
		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DB", "zayro"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		JWTSecret:          getEnv("JWT_SECRET", devSecret),
		JWTIssuer:          getEnv("JWT_ISSUER", "zayro-careers"),
		SessionTTL:         time.Duration(getEnvInt("SESSION_TTL_MINUTES", 720)) * time.Minute,
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:5173"),
		ApplyRatePerMinute: getEnvInt("APPLY_RATE_PER_MINUTE", 5),
		ApplyBurst:         getEnvInt("APPLY_BURST", 2),
		LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
		LoginBurst:         getEnvInt("LOGIN_BURST", 5),
	}
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.StoreBackend != BackendMongo && c.StoreBackend != BackendMemory {
		errs = append(errs, errors.New("STORE_BACKEND must be mongo or memory"))
	}
	if c.StoreBackend == BackendMongo && c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required for the mongo backend"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL_MINUTES must be positive"))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	if c.JWTSecret == devSecret {
		log.Println("JWT_SECRET is not set; using the development secret")
	}
	return errors.Join(errs...)
}

func normalizePort(port string) string {
	if port[0] != ':' {
		return ":" + port
	}
	return port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
