// Package config provides configuration management and environment variable handling for the application
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers selectable for the lead/portfolio stores.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// ProductionConfig holds all configuration for production environment
type ProductionConfig struct {
	Storage  StorageConfig  `json:"storage"`
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
	Security SecurityConfig `json:"security"`
	Session  SessionConfig  `json:"session"`
	Email    EmailConfig    `json:"email"`
	Uploads  UploadsConfig  `json:"uploads"`
	Logging  LoggingConfig  `json:"logging"`
	Metrics  MetricsConfig  `json:"metrics"`
	Cache    CacheConfig    `json:"cache"`
	Admin    AdminConfig    `json:"admin"`
}

type StorageConfig struct {
	// Driver selects "postgres" or "memory". The memory driver keeps the most
	// recent 1000 leads and loses everything on restart.
	Driver string `json:"driver"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	AutoMigrate     bool          `json:"auto_migrate"`
}

type ServerConfig struct {
	Host              string        `json:"host"`
	Port              int           `json:"port"`
	ReadTimeout       time.Duration `json:"read_timeout"`
	WriteTimeout      time.Duration `json:"write_timeout"`
	IdleTimeout       time.Duration `json:"idle_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout"`
	BodyLimit         int           `json:"body_limit"`
	EnableCompression bool          `json:"enable_compression"`
}

type SecurityConfig struct {
	// CORS
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	CORSMaxAge       int      `json:"cors_max_age"`

	// Rate Limiting
	AuthRateLimit   int           `json:"auth_rate_limit"`   // requests per minute
	GlobalRateLimit int           `json:"global_rate_limit"` // requests per minute
	RateLimitWindow time.Duration `json:"rate_limit_window"`

	BcryptCost int `json:"bcrypt_cost"`
}

type SessionConfig struct {
	CookieName     string        `json:"cookie_name"`
	CookieSecure   bool          `json:"cookie_secure"`
	CookieHTTPOnly bool          `json:"cookie_httponly"`
	CookieSameSite string        `json:"cookie_samesite"`
	TTL            time.Duration `json:"ttl"`
}

type EmailConfig struct {
	Enabled    bool          `json:"enabled"`
	Host       string        `json:"host"`
	Port       int           `json:"port"`
	Username   string        `json:"username"`
	Password   string        `json:"password"`
	FromEmail  string        `json:"from_email"`
	FromName   string        `json:"from_name"`
	AdminEmail string        `json:"admin_email"`
	Timeout    time.Duration `json:"timeout"`
}

type UploadsConfig struct {
	Dir          string `json:"dir"`
	MaxSizeBytes int64  `json:"max_size_bytes"`
	PublicPath   string `json:"public_path"`
}

type LoggingConfig struct {
	Output     string `json:"output"` // stdout, file, both
	FilePath   string `json:"file_path"`
	MaxSize    int    `json:"max_size"` // MB
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"` // days
	Compress   bool   `json:"compress"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	Provider        string        `json:"provider"` // redis, memory
	RedisURL        string        `json:"redis_url"`
	RedisDB         int           `json:"redis_db"`
	RedisPrefix     string        `json:"redis_prefix"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// MinAdminPasswordLength matches the login DTO's password constraint, so the
// seeded account is always one a login request can actually express.
const MinAdminPasswordLength = 8

// AdminConfig seeds the bootstrap admin account on first run.
type AdminConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoadProductionConfig loads and validates configuration from environment variables
func LoadProductionConfig() (*ProductionConfig, error) {
	// Load environment variables from .env file
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &ProductionConfig{
		Storage: StorageConfig{
			Driver: getEnvString("STORAGE_DRIVER", StorageDriverPostgres),
		},
		Database: DatabaseConfig{
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnvString("DB_NAME", "breezeline"),
			User:            getEnvString("DB_USER", "postgres"),
			Password:        getEnvString("DB_PASSWORD", ""),
			SSLMode:         getEnvString("DB_SSL_MODE", "require"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Server: ServerConfig{
			Host:              getEnvString("SERVER_HOST", "0.0.0.0"),
			Port:              getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:       getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			BodyLimit:         getEnvInt("SERVER_BODY_LIMIT", 10*1024*1024), // 10MB, multipart uploads included
			EnableCompression: getEnvBool("SERVER_ENABLE_COMPRESSION", true),
		},
		Security: SecurityConfig{
			AllowedOrigins:   getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"https://breezeline-interiors.com", "https://www.breezeline-interiors.com", "http://localhost:3000"}),
			AllowedMethods:   getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", true),
			CORSMaxAge:       getEnvInt("CORS_MAX_AGE", 86400),
			AuthRateLimit:    getEnvInt("AUTH_RATE_LIMIT", 20),
			GlobalRateLimit:  getEnvInt("GLOBAL_RATE_LIMIT", 600),
			RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", 1*time.Minute),
			BcryptCost:       getEnvInt("BCRYPT_COST", 12),
		},
		Session: SessionConfig{
			CookieName:     getEnvString("SESSION_COOKIE_NAME", "bz_admin_session"),
			CookieSecure:   getEnvBool("SESSION_COOKIE_SECURE", true),
			CookieHTTPOnly: getEnvBool("SESSION_COOKIE_HTTPONLY", true),
			CookieSameSite: getEnvString("SESSION_COOKIE_SAMESITE", "Strict"),
			TTL:            getEnvDuration("SESSION_TTL", 24*time.Hour),
		},
		Email: EmailConfig{
			Enabled:    getEnvBool("EMAIL_ENABLED", false),
			Host:       getEnvString("EMAIL_HOST", "smtp.gmail.com"),
			Port:       getEnvInt("EMAIL_PORT", 587),
			Username:   getEnvString("EMAIL_USERNAME", ""),
			Password:   getEnvString("EMAIL_PASSWORD", ""),
			FromEmail:  getEnvString("EMAIL_FROM_EMAIL", "noreply@breezeline-interiors.com"),
			FromName:   getEnvString("EMAIL_FROM_NAME", "Breezeline Interiors"),
			AdminEmail: getEnvString("EMAIL_ADMIN_EMAIL", ""),
			Timeout:    getEnvDuration("EMAIL_TIMEOUT", 30*time.Second),
		},
		Uploads: UploadsConfig{
			Dir:          getEnvString("UPLOADS_DIR", "data/uploads/works"),
			MaxSizeBytes: int64(getEnvInt("UPLOADS_MAX_SIZE_BYTES", 5*1024*1024)), // 5MB
			PublicPath:   getEnvString("UPLOADS_PUBLIC_PATH", "/uploads"),
		},
		Logging: LoggingConfig{
			Output:     getEnvString("LOG_OUTPUT", "stdout"),
			FilePath:   getEnvString("LOG_FILE_PATH", "/var/log/breezeline/app.log"),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 10),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 30),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnvString("METRICS_PATH", "/metrics"),
		},
		Cache: CacheConfig{
			Enabled:         getEnvBool("CACHE_ENABLED", false),
			Provider:        getEnvString("CACHE_PROVIDER", "redis"),
			RedisURL:        getEnvString("CACHE_REDIS_URL", "redis://localhost:6379"),
			RedisDB:         getEnvInt("CACHE_REDIS_DB", 0),
			RedisPrefix:     getEnvString("CACHE_REDIS_PREFIX", "breezeline:"),
			CleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", 10*time.Minute),
		},
		Admin: AdminConfig{
			Username: getEnvString("ADMIN_USERNAME", "admin"),
			Password: getEnvString("ADMIN_PASSWORD", ""),
		},
	}

	// Validate the loaded configuration
	if err := ValidateProductionConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadEnvFile loads environment variables from .env file if it exists
func loadEnvFile() error {
	envFile := ".env"

	// Check if .env file exists
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// .env file doesn't exist, continue with environment variables
		return nil
	}

	// Open .env file
	file, err := os.Open(envFile)
	if err != nil {
		return fmt.Errorf("failed to open .env file: %w", err)
	}
	defer file.Close()

	// Read file line by line
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key=value pairs
		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				key := strings.TrimSpace(parts[0])
				value := strings.TrimSpace(parts[1])

				// Remove quotes if present
				if (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
					(strings.HasPrefix(value, `'`) && strings.HasSuffix(value, `'`)) {
					value = value[1 : len(value)-1]
				}

				// Set environment variable if not already set
				if os.Getenv(key) == "" {
					os.Setenv(key, value)
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// ValidateProductionConfig validates the production configuration
func ValidateProductionConfig(cfg *ProductionConfig) error {
	var errors []string

	// Validate storage configuration
	if cfg.Storage.Driver != StorageDriverPostgres && cfg.Storage.Driver != StorageDriverMemory {
		errors = append(errors, "STORAGE_DRIVER must be postgres or memory")
	}

	// Validate database configuration only when it is actually used
	if cfg.Storage.Driver == StorageDriverPostgres {
		if cfg.Database.Host == "" {
			errors = append(errors, "DB_HOST is required")
		}
		if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
			errors = append(errors, "DB_PORT must be between 1 and 65535")
		}
		if cfg.Database.Name == "" {
			errors = append(errors, "DB_NAME is required")
		}
		if cfg.Database.User == "" {
			errors = append(errors, "DB_USER is required")
		}
	}

	// Validate server configuration
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 {
		errors = append(errors, "SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		errors = append(errors, "SERVER_WRITE_TIMEOUT must be positive")
	}
	if cfg.Server.IdleTimeout <= 0 {
		errors = append(errors, "SERVER_IDLE_TIMEOUT must be positive")
	}

	// Validate security configuration
	if cfg.Security.BcryptCost < 10 || cfg.Security.BcryptCost > 14 {
		errors = append(errors, "BCRYPT_COST must be between 10 and 14")
	}

	// Validate session configuration
	if cfg.Session.CookieName == "" {
		errors = append(errors, "SESSION_COOKIE_NAME is required")
	}
	if cfg.Session.TTL <= 0 {
		errors = append(errors, "SESSION_TTL must be positive")
	}

	// Validate email configuration if enabled
	if cfg.Email.Enabled {
		if cfg.Email.Host == "" {
			errors = append(errors, "EMAIL_HOST is required when email is enabled")
		}
		if cfg.Email.Username == "" {
			errors = append(errors, "EMAIL_USERNAME is required when email is enabled")
		}
		if cfg.Email.Password == "" {
			errors = append(errors, "EMAIL_PASSWORD is required when email is enabled")
		}
		if cfg.Email.FromEmail == "" {
			errors = append(errors, "EMAIL_FROM_EMAIL is required when email is enabled")
		}
	}

	// Validate uploads configuration
	if cfg.Uploads.Dir == "" {
		errors = append(errors, "UPLOADS_DIR is required")
	}
	if cfg.Uploads.MaxSizeBytes <= 0 {
		errors = append(errors, "UPLOADS_MAX_SIZE_BYTES must be positive")
	}

	// Validate cache configuration if enabled
	if cfg.Cache.Enabled {
		if cfg.Cache.Provider == "redis" && cfg.Cache.RedisURL == "" {
			errors = append(errors, "CACHE_REDIS_URL is required when cache is enabled with redis provider")
		}
	}

	// Validate admin bootstrap credentials. An empty password would seed an
	// account no login can ever match, since the seeded hash is never updated.
	if cfg.Admin.Username == "" {
		errors = append(errors, "ADMIN_USERNAME is required")
	}
	if len(cfg.Admin.Password) < MinAdminPasswordLength {
		errors = append(errors, fmt.Sprintf("ADMIN_PASSWORD must be at least %d characters", MinAdminPasswordLength))
	}

	// Return validation errors if any
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
