package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Overlay(t *testing.T) {
	t.Setenv("JACKLINE_HOST", "auction.example.com")
	t.Setenv("JACKLINE_PORT", "1400")
	t.Setenv("JACKLINE_TIMEOUT", "5")
	t.Setenv("JACKLINE_NO_DNS", "true")
	t.Setenv("JACKLINE_RETRY", "4")
	t.Setenv("JACKLINE_TUNNEL", "admin@bastion")
	t.Setenv("JACKLINE_SSH_KEY", "/tmp/id_test")
	t.Setenv("JACKLINE_VERBOSE", "2")

	cfg := &Config{Host: DefaultHost, Port: DefaultPort}
	LoadFromEnv(cfg)

	if cfg.Host != "auction.example.com" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Port != 1400 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if !cfg.NoDNS {
		t.Error("NoDNS not set")
	}
	if cfg.RetryAttempts != 4 {
		t.Errorf("RetryAttempts = %d", cfg.RetryAttempts)
	}
	if cfg.TunnelSpec != "admin@bastion" {
		t.Errorf("TunnelSpec = %q", cfg.TunnelSpec)
	}
	if cfg.SSHKeyPath != "/tmp/id_test" {
		t.Errorf("SSHKeyPath = %q", cfg.SSHKeyPath)
	}
	if cfg.Verbose != 2 {
		t.Errorf("Verbose = %d", cfg.Verbose)
	}
}

func TestLoadFromEnv_EmptyLeavesDefaults(t *testing.T) {
	cfg := &Config{Host: DefaultHost, Port: DefaultPort}
	LoadFromEnv(cfg)

	if cfg.Host != DefaultHost || cfg.Port != DefaultPort {
		t.Errorf("defaults clobbered: %q:%d", cfg.Host, cfg.Port)
	}
}

func TestLoadFromEnv_BadIntIgnored(t *testing.T) {
	t.Setenv("JACKLINE_PORT", "not-a-number")

	cfg := &Config{Port: DefaultPort}
	LoadFromEnv(cfg)
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want default %d", cfg.Port, DefaultPort)
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"0", false},
		{"no", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("JACKLINE_TEST_BOOL", tt.value)
			if got := envBool("JACKLINE_TEST_BOOL"); got != tt.want {
				t.Errorf("envBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
