package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultCatalogCacheTTL = 5 * time.Minute

type Config struct {
	ProjectID                    string
	Port                         string
	AllowedOrigins               []string
	StorageBucket                string
	SignedURLServiceAccountEmail string

	NatsURL      string
	OTLPEndpoint string

	LogLevel  string
	LogFormat string

	CatalogCacheTTL time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	// FIREBASE_PROJECT_ID or GOOGLE_CLOUD_PROJECT
	projectID := getenv("FIREBASE_PROJECT_ID", "")
	if projectID == "" {
		projectID = getenv("GOOGLE_CLOUD_PROJECT", "")
	}

	storageBucket := getenv("FIREBASE_STORAGE_BUCKET", "")
	if storageBucket == "" && projectID != "" {
		storageBucket = projectID + ".appspot.com"
	}

	return Config{
		ProjectID:                    projectID,
		Port:                         getenv("PORT", "8080"),
		AllowedOrigins:               splitList(getenv("ALLOWED_ORIGINS", "http://localhost:5173")),
		StorageBucket:                storageBucket,
		SignedURLServiceAccountEmail: getenv("SIGNED_URL_SERVICE_ACCOUNT_EMAIL", ""),
		NatsURL:                      getenv("NATS_URL", ""),
		OTLPEndpoint:                 getenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:                     getenv("LOG_LEVEL", "info"),
		LogFormat:                    getenv("LOG_FORMAT", "json"),
		CatalogCacheTTL:              getDuration("CATALOG_CACHE_TTL", DefaultCatalogCacheTTL),
		ShutdownTimeout:              getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func (c Config) Validate() error {
	var problems []string

	if c.ProjectID == "" {
		problems = append(problems, "missing FIREBASE_PROJECT_ID or GOOGLE_CLOUD_PROJECT")
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT must be between 1 and 65535, got: %s", c.Port))
	}
	if c.CatalogCacheTTL <= 0 {
		problems = append(problems, fmt.Sprintf("CATALOG_CACHE_TTL must be positive, got: %s", c.CatalogCacheTTL))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be json or text, got: %s", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	out := []string{}
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
