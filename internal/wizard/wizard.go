// Package wizard provides an interactive setup wizard for sudotun,
// walking an operator through choosing a role (relay server or SOCKS5
// client), the shared tunnel parameters, and writing the resulting
// configuration file.
package wizard

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/postalsys/sudotun/internal/config"
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

// Result is the outcome of a completed wizard run.
type Result struct {
	Config     *config.Config
	ConfigPath string
}

// Wizard drives the interactive prompts.
type Wizard struct {
	// DefaultConfigPath is offered as the default save location.
	DefaultConfigPath string
}

// New returns a Wizard with sudotun's conventional default config path.
func New() *Wizard {
	return &Wizard{DefaultConfigPath: "sudotun.yaml"}
}

// Run walks the operator through setup and writes the resulting config
// to disk, returning the config and the path it was written to.
func (w *Wizard) Run() (*Result, error) {
	printBanner()

	role, err := askRole()
	if err != nil {
		return nil, err
	}

	cfg := config.Default()

	key, err := askOrGenerateKey()
	if err != nil {
		return nil, err
	}
	cfg.Tunnel.Key = key

	cipher, layout, err := askCryptoParams()
	if err != nil {
		return nil, err
	}
	cfg.Tunnel.Cipher = cipher
	cfg.Tunnel.Layout = layout

	if role == roleServer {
		if err := askServerConfig(cfg); err != nil {
			return nil, err
		}
	} else {
		if err := askClientConfig(cfg); err != nil {
			return nil, err
		}
	}

	if err := askAuthAndLogging(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("wizard produced an invalid config: %w", err)
	}

	path, err := askConfigPath(w.DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	if err := writeConfig(cfg, path); err != nil {
		return nil, err
	}

	printSummary(role, path, cfg)
	return &Result{Config: cfg, ConfigPath: path}, nil
}

type role string

const (
	roleServer role = "server"
	roleClient role = "client"
)

func printBanner() {
	fmt.Println(bannerStyle.Render("sudotun setup wizard"))
	fmt.Println(hintStyle.Render("Configure a relay server or a SOCKS5 client for a sudotun tunnel."))
	fmt.Println()
}

func askRole() (role, error) {
	var choice string
	err := huh.NewSelect[string]().
		Title("What is this machine?").
		Options(
			huh.NewOption("Relay server — sits near the upstream, accepts tunnel connections", string(roleServer)),
			huh.NewOption("Client — runs a local SOCKS5 proxy that tunnels through a relay", string(roleClient)),
		).
		Value(&choice).
		Run()
	return role(choice), err
}

func askOrGenerateKey() (string, error) {
	var mode string
	if err := huh.NewSelect[string]().
		Title("Tunnel key").
		Description("Both peers must share the same key out of band.").
		Options(
			huh.NewOption("Generate a new random key", "generate"),
			huh.NewOption("Enter an existing key", "existing"),
		).
		Value(&mode).
		Run(); err != nil {
		return "", err
	}

	if mode == "generate" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate key: %w", err)
		}
		key := hex.EncodeToString(buf)
		fmt.Println(hintStyle.Render("Generated key: " + key))
		fmt.Println(hintStyle.Render("Copy this to the other peer's configuration."))
		return key, nil
	}

	var key string
	err := huh.NewInput().
		Title("Tunnel key").
		Placeholder("64 hex characters, or any passphrase").
		Value(&key).
		Validate(func(s string) error {
			if s == "" {
				return fmt.Errorf("key is required")
			}
			return nil
		}).
		Run()
	return key, err
}

func askCryptoParams() (cipher, layout string, err error) {
	cipher = "chacha20-poly1305"
	layout = "ascii"
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("AEAD cipher").
				Options(
					huh.NewOption("ChaCha20-Poly1305 (recommended)", "chacha20-poly1305"),
					huh.NewOption("AES-128-GCM", "aes-128-gcm"),
					huh.NewOption("None (plaintext, testing only)", "none"),
				).
				Value(&cipher),
			huh.NewSelect[string]().
				Title("Codec layout").
				Options(
					huh.NewOption("ASCII (printable Sudoku hint characters)", "ascii"),
					huh.NewOption("Entropy (denser encoding, less convincing ASCII)", "entropy"),
				).
				Value(&layout),
		),
	).Run()
	return cipher, layout, err
}

func askServerConfig(cfg *config.Config) error {
	portStr := strconv.Itoa(cfg.Server.UpstreamPort)
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Listen address").
				Description("Where the relay accepts poll-transport HTTP requests.").
				Value(&cfg.Server.ListenAddr).
				Validate(nonEmpty),
			huh.NewInput().
				Title("Upstream host").
				Description("The single TCP destination this relay forwards tunneled bytes to.").
				Value(&cfg.Server.UpstreamHost).
				Validate(nonEmpty),
			huh.NewInput().
				Title("Upstream port").
				Value(&portStr).
				Validate(validPort),
		),
	).Run(); err != nil {
		return err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("parse upstream port: %w", err)
	}
	cfg.Server.UpstreamPort = port
	return nil
}

func askClientConfig(cfg *config.Config) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Relay address").
				Description("Base URL of the relay's poll-transport endpoint, e.g. https://relay.example.com").
				Value(&cfg.Client.RelayAddr).
				Validate(nonEmpty),
			huh.NewInput().
				Title("Local SOCKS5 listen address").
				Value(&cfg.Client.SOCKS5ListenAddr).
				Validate(nonEmpty),
		),
	).Run()
}

func askAuthAndLogging(cfg *config.Config) error {
	var wantAuth bool
	if err := huh.NewConfirm().
		Title("Enable HMAC request authentication between peers?").
		Value(&wantAuth).
		Run(); err != nil {
		return err
	}
	if wantAuth {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate auth secret: %w", err)
		}
		cfg.Tunnel.AuthSecret = hex.EncodeToString(buf)
		fmt.Println(hintStyle.Render("Generated auth secret: " + cfg.Tunnel.AuthSecret))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("info", "info"),
					huh.NewOption("debug", "debug"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&cfg.Log.Level),
		),
	).Run()
}

func askConfigPath(defaultPath string) (string, error) {
	path := defaultPath
	err := huh.NewInput().
		Title("Save configuration to").
		Value(&path).
		Validate(nonEmpty).
		Run()
	if path == "" {
		path = defaultPath
	}
	return path, err
}

func writeConfig(cfg *config.Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# sudotun configuration\n# Generated by the setup wizard.\n\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func printSummary(r role, path string, cfg *config.Config) {
	fmt.Println()
	fmt.Println(bannerStyle.Render("Configuration written to " + path))
	if r == roleServer {
		fmt.Printf("  sudotun server -c %s\n", path)
	} else {
		fmt.Printf("  sudotun client -c %s\n", path)
	}
}

func nonEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

func validPort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}
