package fuzz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuDuda/settings-fuzz/pkg/console"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Port)
	assert.Equal(t, 500, cfg.Iterations)
	assert.Equal(t, 200, cfg.ValueLength)
	assert.False(t, cfg.FactoryReset)
	assert.False(t, cfg.FreeSpace)
	assert.Equal(t, "mt/", cfg.KeyPrefix)
	assert.Equal(t, 115200, cfg.BaudRate)
	assert.Equal(t, 150*time.Millisecond, cfg.ReadTimeout)
	assert.Equal(t, Delays{
		Settle:       150 * time.Millisecond,
		FreeSpace:    3 * time.Second,
		FactoryReset: 6 * time.Second,
	}, cfg.Delays)
	assert.Equal(t, console.Strict, cfg.loopMode())
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Port = "/dev/ttyACM0"
	require.NoError(t, valid.Validate())

	zero := valid
	zero.Iterations = 0
	zero.ValueLength = 0
	assert.NoError(t, zero.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing port", func(c *Config) { c.Port = "" }, "port is required"},
		{"negative iterations", func(c *Config) { c.Iterations = -1 }, "iterations"},
		{"negative value length", func(c *Config) { c.ValueLength = -5 }, "value length"},
		{"zero baud", func(c *Config) { c.BaudRate = 0 }, "baud rate"},
		{"zero read timeout", func(c *Config) { c.ReadTimeout = 0 }, "read timeout"},
		{"negative delay", func(c *Config) { c.Delays.FactoryReset = -time.Second }, "delays"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfigValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Iterations = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port is required")
	assert.Contains(t, err.Error(), "iterations")
}

func TestConsoleConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaudRate = 9600
	cfg.ReadTimeout = time.Second

	assert.Equal(t, console.Config{BaudRate: 9600, ReadTimeout: time.Second}, cfg.ConsoleConfig())

	cfg.LenientLoop = true
	assert.Equal(t, console.Lenient, cfg.loopMode())
}
