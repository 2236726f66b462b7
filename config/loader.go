package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the JACKLINE_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("JACKLINE_HOST"); v != "" {
		cfg.Host = v
	}
	if v := envInt("JACKLINE_PORT"); v > 0 {
		cfg.Port = v
	}
	if v := envInt("JACKLINE_TIMEOUT"); v > 0 {
		cfg.Timeout = time.Duration(v) * time.Second
	}
	if envBool("JACKLINE_NO_DNS") {
		cfg.NoDNS = true
	}
	if v := envInt("JACKLINE_RETRY"); v > 0 {
		cfg.RetryAttempts = v
	}

	// SSH tunnel
	if v := os.Getenv("JACKLINE_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("JACKLINE_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("JACKLINE_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("JACKLINE_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("JACKLINE_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Output
	if v := envInt("JACKLINE_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}
