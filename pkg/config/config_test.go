package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefectoEnDesarrollo(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_STORAGE", "memory")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("HTTP_PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.App.Storage)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_LeeVariablesNumericas(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_STORAGE", "postgres")
	t.Setenv("DB_MAX_CONNS", " 32 ")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 32, cfg.DB.MaxConns)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_ProduccionExigeSecreto(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_STORAGE", "postgres")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("HTTP_PORT", "8080")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_StorageInvalido(t *testing.T) {
	cfg := &Config{
		App:  AppConfig{Env: "development", Storage: "sqlite"},
		HTTP: HTTPConfig{Port: 8080},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_STORAGE")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "naste", Password: "p@ss:w/rd", DBName: "naste", SSLMode: "disable"}
	assert.Equal(t, "postgres://naste:p%40ss%3Aw%2Frd@db:5432/naste?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro@host/db"
	assert.Equal(t, "postgres://otro@host/db", c.ConnectionString(), "DATABASE_URL tiene prioridad")
}
