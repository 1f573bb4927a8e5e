package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		port:          3000,
		roomRetention: time.Hour,
		sweepInterval: 10 * time.Minute,
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().validate())

	cfg := validConfig()
	cfg.port = 0
	assert.Error(t, cfg.validate())

	cfg = validConfig()
	cfg.port = 70000
	assert.Error(t, cfg.validate())

	cfg = validConfig()
	cfg.tlsCert = "cert.pem"
	assert.Error(t, cfg.validate(), "cert without key")

	cfg.tlsKey = "key.pem"
	assert.NoError(t, cfg.validate())

	cfg = validConfig()
	cfg.roomRetention = 0
	assert.Error(t, cfg.validate())

	cfg = validConfig()
	cfg.sweepInterval = -time.Second
	assert.Error(t, cfg.validate())
}

func TestConfigScheme(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert = "cert.pem"
	cfg.tlsKey = "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}

func TestNewCmdDefaults(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NotNil(t, cmd)

	assert.Equal(t, "0.0.0.0", cfg.bind)
	assert.Equal(t, 3000, cfg.port)
	assert.Equal(t, time.Hour, cfg.roomRetention)
	assert.Equal(t, 10*time.Minute, cfg.sweepInterval)
	assert.NoError(t, cfg.validate())
}
