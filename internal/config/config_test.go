package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setShopEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SHP_KEY", "key")
	t.Setenv("SHP_PWD", "pwd")
	t.Setenv("SHP_NAME", "acme")
}

func TestLoad_Defaults(t *testing.T) {
	setShopEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost:8084", cfg.Address())
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "acme", cfg.Shop.ShopName)
	assert.Equal(t, "key", cfg.Shop.APIKey)
	assert.Equal(t, "pwd", cfg.Shop.Password)
	assert.Equal(t, 250, cfg.Shop.PageSize)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, []string{"http://localhost:8084"}, cfg.Security.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setShopEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("LOGGER_LEVEL", "debug")
	t.Setenv("SHOP_WINDOW_DAYS", "7")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 7, cfg.Shop.WindowDays)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
}

func TestLoad_ConfigFile(t *testing.T) {
	setShopEnv(t)
	path := filepath.Join(t.TempDir(), "dashboard.toml")
	content := `
[server]
port = 7070

[shop]
api_version = "2023-10"
max_workers = 5

[logger]
format = "text"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "2023-10", cfg.Shop.APIVersion)
	assert.Equal(t, 5, cfg.Shop.MaxWorkers)
	assert.Equal(t, "text", cfg.Logger.Format)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	setShopEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing credentials", env: map[string]string{"SHP_KEY": "", "SHP_PWD": "", "SHP_NAME": "acme"}},
		{name: "missing shop", env: map[string]string{"SHP_NAME": ""}},
		{name: "bad port", env: map[string]string{"SERVER_PORT": "70000"}},
		{name: "bad log level", env: map[string]string{"LOGGER_LEVEL": "verbose"}},
		{name: "bad log format", env: map[string]string{"LOGGER_FORMAT": "xml"}},
		{name: "page size", env: map[string]string{"SHOP_PAGE_SIZE": "500"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setShopEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
