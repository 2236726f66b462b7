package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultHost is the auction server address used when no host
	// argument is given.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the auction server's listening port.
	DefaultPort = 1300

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultDialTimeout is the TCP/SSH connection timeout.
	DefaultDialTimeout = 30 * time.Second

	// DefaultRetryDelay is the delay before the first connect retry.
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryBackoff caps the exponential backoff between
	// connect retries.
	DefaultMaxRetryBackoff = 30 * time.Second
)
