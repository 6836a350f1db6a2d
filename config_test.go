package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tcases := map[string]struct {
		mutate    func(*Config)
		expectErr string
	}{
		"defaults":         {mutate: func(*Config) {}},
		"tls_pair":         {mutate: func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }},
		"tls_cert_only":    {mutate: func(c *Config) { c.tlsCert = "cert.pem" }, expectErr: "--tls-key"},
		"port_zero":        {mutate: func(c *Config) { c.port = 0 }, expectErr: "invalid port"},
		"port_too_high":    {mutate: func(c *Config) { c.port = 70000 }, expectErr: "invalid port"},
		"no_send_buffer":   {mutate: func(c *Config) { c.sendBuffer = 0 }, expectErr: "invalid send buffer"},
		"no_ping_interval": {mutate: func(c *Config) { c.pingInterval = 0 }, expectErr: "invalid ping interval"},
	}

	for name, tc := range tcases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(cfg)

			err := cfg.validate()
			if tc.expectErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.expectErr)
		})
	}
}

func TestScheme(t *testing.T) {
	cfg := testConfig()
	require.Equal(t, "http", cfg.scheme())

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	require.Equal(t, "https", cfg.scheme())
}

func TestPongWaitExceedsPingInterval(t *testing.T) {
	cfg := testConfig()
	cfg.pingInterval = 9 * time.Second
	require.Equal(t, 10*time.Second, cfg.pongWait())
}

func TestFlagDefaults(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.ParseFlags(nil))

	require.Equal(t, "0.0.0.0", cfg.bind)
	require.Equal(t, 3000, cfg.port)
	require.Equal(t, 16, cfg.sendBuffer)
	require.Equal(t, 54*time.Second, cfg.pingInterval)
	require.False(t, cfg.verbose)
	require.NoError(t, cfg.validate())
}

func TestPortFromPlainEnv(t *testing.T) {
	t.Setenv("PORT", "4000")

	cfg := &Config{}
	newCmd(cfg)
	require.Equal(t, 4000, cfg.port)
}

func TestPrefixedEnvWins(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("SODALOBBY_PORT", "5000")
	t.Setenv("SODALOBBY_VERBOSE", "true")
	t.Setenv("SODALOBBY_SEND_BUFFER", "4")
	t.Setenv("SODALOBBY_PING_INTERVAL", "30s")

	cfg := &Config{}
	newCmd(cfg)
	require.Equal(t, 5000, cfg.port)
	require.True(t, cfg.verbose)
	require.Equal(t, 4, cfg.sendBuffer)
	require.Equal(t, 30*time.Second, cfg.pingInterval)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SODALOBBY_PORT", "5000")

	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"--port", "6000", "--send_buffer", "8"}))
	require.Equal(t, 6000, cfg.port)
	require.Equal(t, 8, cfg.sendBuffer)
}

func TestExecuteRejectsInvalidConfig(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)
	cmd.SetArgs([]string{"--port", "0"})

	require.ErrorContains(t, cmd.Execute(), "invalid port")
}
