package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *ProductionConfig {
	return &ProductionConfig{
		Storage: StorageConfig{Driver: StorageDriverMemory},
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{BcryptCost: 12},
		Session: SessionConfig{
			CookieName: "breezeline_admin_session",
			TTL:        24 * time.Hour,
		},
		Uploads: UploadsConfig{
			Dir:          "/var/lib/breezeline/uploads",
			MaxSizeBytes: 5 << 20,
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "SecurePass123!",
		},
	}
}

func TestValidateProductionConfig(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		assert.NoError(t, ValidateProductionConfig(validTestConfig()))
	})

	t.Run("AdminPasswordRequired", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Admin.Password = ""

		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
	})

	t.Run("AdminPasswordMinimumLength", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Admin.Password = strings.Repeat("x", MinAdminPasswordLength-1)
		require.Error(t, ValidateProductionConfig(cfg))

		cfg.Admin.Password = strings.Repeat("x", MinAdminPasswordLength)
		assert.NoError(t, ValidateProductionConfig(cfg))
	})

	t.Run("AdminUsernameRequired", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Admin.Username = ""
		require.Error(t, ValidateProductionConfig(cfg))
	})

	t.Run("UnknownStorageDriver", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Storage.Driver = "sqlite"
		require.Error(t, ValidateProductionConfig(cfg))
	})

	t.Run("DatabaseRequiredOnlyForPostgres", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Storage.Driver = StorageDriverPostgres

		err := ValidateProductionConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_HOST")

		cfg.Database.Host = "localhost"
		cfg.Database.Port = 5432
		cfg.Database.Name = "breezeline"
		cfg.Database.User = "breezeline"
		assert.NoError(t, ValidateProductionConfig(cfg))
	})
}
