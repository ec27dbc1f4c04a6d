package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerLog, cfg.Server.Log)

	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, DefaultDBPort, cfg.Database.Port)
	assert.Equal(t, DefaultDBName, cfg.Database.DBName)
	assert.Equal(t, DefaultDBMaxConns, cfg.Database.MaxConns)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Database.Host = "custom-host"

	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "custom-host", cfg.Database.Host)
	assert.Equal(t, DefaultServerHost, cfg.Server.Host) // still defaulted
}

func TestApplyDefaults_PreserveUserAndPassword(t *testing.T) {
	cfg := &Config{}
	cfg.Database.User = "custom-user"
	cfg.Database.Password = "custom-pass"

	ApplyDefaults(cfg)

	assert.Equal(t, "custom-user", cfg.Database.User)
	assert.Equal(t, "custom-pass", cfg.Database.Password)
}

func TestApplyDefaults_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		ApplyDefaults(nil)
	})
}
