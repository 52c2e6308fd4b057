package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	InferenceModePre  = "pre"
	InferenceModePost = "post"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServerPort string
	CORSOrigin string

	DBDriver      string
	DatabaseURL   string
	DBAutoMigrate bool

	LogFile  string
	LogLevel string

	InferenceEnabled bool
	InferenceMode    string
	InferenceTimeout time.Duration
	GeminiAPIKey     string
	GeminiModel      string

	MongoURI        string
	MongoDBName     string
	MongoCollection string

	CassandraHost string

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		ServerPort:      get("SERVER_PORT", "3000"),
		CORSOrigin:      get("CORS_ORIGIN", ""),
		DBDriver:        strings.ToLower(get("DB_DRIVER", DriverPostgres)),
		LogFile:         get("LOG_FILE", "logs/task-assignment.log"),
		LogLevel:        get("LOG_LEVEL", "info"),
		InferenceMode:   strings.ToLower(get("SKILL_INFERENCE_MODE", InferenceModePre)),
		GeminiAPIKey:    get("GEMINI_API_KEY", ""),
		GeminiModel:     get("GEMINI_MODEL", "gemini-2.5-flash"),
		MongoURI:        get("MONGO_URI", ""),
		MongoDBName:     get("MONGO_DB_NAME", "task_assignment"),
		MongoCollection: get("MONGO_COLLECTION", "task_activity"),
		CassandraHost:   get("CASS_DB", ""),
		Neo4jURI:        get("NEO4J_URI", ""),
		Neo4jUser:       get("NEO4J_USERNAME", ""),
		Neo4jPassword:   get("NEO4J_PASSWORD", ""),
	}

	var err error
	if cfg.DBAutoMigrate, err = parseBool(get("DB_AUTO_MIGRATE", "true")); err != nil {
		return nil, fmt.Errorf("DB_AUTO_MIGRATE: %w", err)
	}
	if cfg.InferenceEnabled, err = parseBool(get("SKILL_INFERENCE_ENABLED", "true")); err != nil {
		return nil, fmt.Errorf("SKILL_INFERENCE_ENABLED: %w", err)
	}
	if cfg.InferenceTimeout, err = time.ParseDuration(get("SKILL_INFERENCE_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("SKILL_INFERENCE_TIMEOUT: %w", err)
	}

	cfg.DatabaseURL = get("DATABASE_URL", "")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL(cfg.DBDriver, get)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultDatabaseURL(driver string, get func(string, string) string) string {
	if driver == DriverSQLite {
		return "file:task_assignment.db?_pragma=foreign_keys(1)"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(get("DB_USER", "postgres"), get("DB_PASSWORD", "postgres")),
		Host:     fmt.Sprintf("%s:%s", get("DB_HOST", "localhost"), get("DB_PORT", "5432")),
		Path:     "/" + get("DB_NAME", "task_assignment"),
		RawQuery: "sslmode=" + get("DB_SSLMODE", "disable"),
	}
	return u.String()
}

// Validate reports configuration errors eagerly so the service never starts half configured.
func (c *Config) Validate() error {
	var problems []string

	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		problems = append(problems, fmt.Sprintf("SERVER_PORT must be a number, got %q", c.ServerPort))
	}
	if c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		problems = append(problems, fmt.Sprintf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver))
	}
	if c.InferenceMode != InferenceModePre && c.InferenceMode != InferenceModePost {
		problems = append(problems, fmt.Sprintf("SKILL_INFERENCE_MODE must be %q or %q, got %q", InferenceModePre, InferenceModePost, c.InferenceMode))
	}
	if c.InferenceEnabled && c.GeminiAPIKey == "" {
		problems = append(problems, "GEMINI_API_KEY is required when SKILL_INFERENCE_ENABLED is true")
	}
	if c.InferenceTimeout <= 0 {
		problems = append(problems, "SKILL_INFERENCE_TIMEOUT must be positive")
	}
	if c.Neo4jURI != "" && (c.Neo4jUser == "" || c.Neo4jPassword == "") {
		problems = append(problems, "NEO4J_USERNAME and NEO4J_PASSWORD are required when NEO4J_URI is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func parseBool(v string) (bool, error) {
	return strconv.ParseBool(strings.ToLower(v))
}
