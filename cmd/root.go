// Package cmd wires up the CLI flags and dispatches to the client core.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"jackline/client"
	"jackline/config"
	"jackline/internal/transport"
	"jackline/tunnel"
	"jackline/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X jackline/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the appropriate jackline mode.
func Execute(ctx context.Context, args []string) error {
	cfg := &config.Config{
		Host:    config.DefaultHost,
		Port:    config.DefaultPort,
		Timeout: config.DefaultDialTimeout,
	}
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("jackline", flag.ContinueOnError)

	// ── connection ───────────────────────────────────────────────
	fs.BoolVarP(&cfg.Listen, "listen", "l", false, "Listen mode")
	fs.IntVarP(&cfg.LocalPort, "port", "p", 0, "Local port number (with -l)")
	fs.BoolVarP(&cfg.KeepOpen, "keep-open", "k", false, "Accept multiple connections (with -l)")
	fs.BoolVarP(&cfg.NoDNS, "no-dns", "n", false, "Numeric-only, no DNS resolution")
	fs.IntVarP(&cfg.RetryAttempts, "retry", "r", 0, "Total connect attempts (with backoff)")

	var timeoutSec int
	fs.IntVarP(&timeoutSec, "timeout", "w", 0, "Dial timeout in seconds")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "SSH tunnel via [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", false, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&cfg.Stats, "stats", false, "Print traffic statistics on exit")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")
	fs.BoolVar(&dryRun, "dry-run", false, "Validate configuration and exit")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("jackline %s\n", version)
		return nil
	}

	if timeoutSec > 0 {
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	// ── tunnel spec ──────────────────────────────────────────────
	if cfg.TunnelSpec != "" {
		user, host, port, err := config.ParseTunnelSpec(cfg.TunnelSpec)
		if err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		cfg.TunnelEnabled = true
		cfg.TunnelUser = user
		cfg.TunnelHost = host
		cfg.TunnelPort = port
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)

	var dialer transport.Dialer
	if cfg.TunnelEnabled {
		dialer = transport.NewSSHDialer(&tunnel.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   cfg.Timeout,
		}, logger)
	} else {
		dialer = &transport.TCPDialer{Timeout: cfg.Timeout}
	}
	defer dialer.Close()

	cl := client.New(cfg, dialer, logger)
	err := cl.Run(ctx)

	if cfg.Stats {
		fmt.Fprintln(os.Stderr, cl.Metrics.JSON())
	}
	return err
}

// ── helpers ──────────────────────────────────────────────────────────

// parsePositional fills host and port from the remaining arguments.
// Both are optional in connect mode: the defaults target a local
// auction server on port 1300.
func parsePositional(cfg *config.Config, remaining []string) error {
	if cfg.Listen {
		if len(remaining) > 0 {
			return fmt.Errorf("listen mode takes no positional arguments")
		}
		return nil
	}

	switch len(remaining) {
	case 0: // jackline
	case 1: // jackline HOST
		cfg.Host = remaining[0]
	case 2: // jackline HOST PORT
		cfg.Host = remaining[0]
		port, err := config.ParsePort(remaining[1])
		if err != nil {
			return fmt.Errorf("port: %w", err)
		}
		cfg.Port = port
	default:
		return fmt.Errorf("too many arguments")
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Jackline – line-oriented TCP client v%s

Bridges stdin/stdout to a newline-delimited TCP session, such as a
jack auction server.

Usage:
  jackline [options] [host] [port]            Connect (default 127.0.0.1 1300)
  jackline -l -p <port> [options]             Listen and broadcast
  jackline -T user@gateway <host> <port>      Connect through an SSH tunnel

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  jackline                                    Connect to 127.0.0.1:1300
  jackline auction.example.com 1300           Connect to a remote server
  jackline -r 5 -w 10 auction.example.com 1300  Retry the dial up to 5 times
  jackline -l -p 1300 -k                      Accept and broadcast to clients
  jackline -T admin@bastion auction-internal 1300  Dial through a bastion
  echo "BID 42" | jackline                    Pipe a command
`)
}
