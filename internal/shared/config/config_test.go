package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CLASS_LOOKUP_MODE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "http://localhost:3001", cfg.Frontend.URL)
	assert.Equal(t, LookupModeLocal, cfg.ClassLookup.Mode)
	assert.Equal(t, 5*time.Second, cfg.ClassLookup.Timeout)
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_SQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_PATH", "/tmp/fleet.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file:/tmp/fleet.db?_foreign_keys=on&_busy_timeout=5000", cfg.Database.DataSourceName())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "short jwt secret", env: map[string]string{"JWT_SECRET": "too-short"}},
		{name: "http lookup without url", env: map[string]string{"CLASS_LOOKUP_MODE": LookupModeHTTP, "CLASS_LOOKUP_BASE_URL": ""}},
		{name: "unknown lookup mode", env: map[string]string{"CLASS_LOOKUP_MODE": "grpc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDataSourceName_Postgres(t *testing.T) {
	d := DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     "db",
		Port:     "5432",
		User:     "fleet",
		Password: "secret",
		Name:     "starships",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=fleet password=secret dbname=starships sslmode=disable", d.DataSourceName())
}
