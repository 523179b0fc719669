// Package main provides the CLI entry point for sudotun.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/postalsys/sudotun/internal/auth"
	"github.com/postalsys/sudotun/internal/codec"
	"github.com/postalsys/sudotun/internal/config"
	"github.com/postalsys/sudotun/internal/logging"
	"github.com/postalsys/sudotun/internal/metrics"
	"github.com/postalsys/sudotun/internal/pollclient"
	"github.com/postalsys/sudotun/internal/pollserver"
	"github.com/postalsys/sudotun/internal/ratelimit"
	"github.com/postalsys/sudotun/internal/session"
	"github.com/postalsys/sudotun/internal/socks5"
	"github.com/postalsys/sudotun/internal/transport"
	"github.com/postalsys/sudotun/internal/webui"
	"github.com/postalsys/sudotun/internal/wizard"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "sudotun",
		Short: "sudotun - an AEAD tunnel disguised as Sudoku puzzle data",
		Long: `sudotun carries an opaque TCP byte stream between a client and an
upstream destination, sealed with ChaCha20-Poly1305 or AES-128-GCM and
masked byte-for-byte into printable ASCII "Sudoku hint" bytes so the
wire traffic resembles a puzzle data dump rather than an encrypted
tunnel.

A relay ("server") terminates the tunnel next to the real upstream
service; a local "client" exposes an ordinary SOCKS5 proxy and forwards
every CONNECT through the tunnel to that one configured upstream.`,
		Version: Version,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "start", Title: "Getting Started:"})
	rootCmd.AddGroup(&cobra.Group{ID: "admin", Title: "Administration:"})

	configureC := configureCmd()
	configureC.GroupID = "start"
	rootCmd.AddCommand(configureC)

	serverC := serverCmd()
	serverC.GroupID = "start"
	rootCmd.AddCommand(serverC)

	clientC := clientCmd()
	clientC.GroupID = "start"
	rootCmd.AddCommand(clientC)

	keyC := keyCmd()
	keyC.GroupID = "admin"
	rootCmd.AddCommand(keyC)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configureCmd runs the interactive setup wizard.
func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive setup wizard",
		Long: `Run an interactive wizard that walks through choosing a role
(relay server or SOCKS5 client), generating or entering a shared tunnel
key, picking the AEAD cipher and codec layout, and writing the
resulting configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := wizard.New()
			result, err := w.Run()
			if err != nil {
				return fmt.Errorf("setup wizard failed: %w", err)
			}
			fmt.Printf("Configuration written to %s\n", result.ConfigPath)
			return nil
		},
	}
}

// keyCmd generates a random 32-byte tunnel key, printed as hex for
// pasting into tunnel.key.
func keyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key",
		Short: "Generate a random tunnel key",
		Long:  "Print a random 64-character hex key suitable for tunnel.key.",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := randomHexKey()
			if err != nil {
				return err
			}
			fmt.Println(key)
			return nil
		},
	}
}

func serverCmd() *cobra.Command {
	var (
		configPath    string
		transportName string
		metricsAddr   string
		decoyAddr     string
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the relay server",
		Long: `Run the relay half of the tunnel: terminate client connections,
decrypt and unmask the obfuscated byte stream, and forward the
plaintext to the configured upstream TCP destination.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.ValidateServer(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			logger := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
			logger.Info("starting sudotun server", "config", configPath)

			masterKey, err := cfg.Tunnel.DeriveKey()
			if err != nil {
				return err
			}
			cipher, err := session.ParseCipher(cfg.Tunnel.Cipher)
			if err != nil {
				return fmt.Errorf("invalid tunnel.cipher: %w", err)
			}
			layout, err := codec.ParseLayout(cfg.Tunnel.Layout)
			if err != nil {
				return fmt.Errorf("invalid tunnel.layout: %w", err)
			}

			reg := prometheus.NewRegistry()
			m := metrics.NewMetricsWithRegistry(reg)

			upstreamAddr := net.JoinHostPort(cfg.Server.UpstreamHost, strconv.Itoa(cfg.Server.UpstreamPort))

			var shutdown []func() error

			// The decoy page and the metrics endpoint share one listener when
			// pointed at the same address, so a single innocuous-looking port
			// can serve both the camouflage page and /metrics.
			if decoyAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/", webui.Handler())
				if metricsAddr == decoyAddr {
					mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				}
				srv := &http.Server{Addr: decoyAddr, Handler: mux}
				ln, lerr := net.Listen("tcp", decoyAddr)
				if lerr != nil {
					return fmt.Errorf("listen decoy: %w", lerr)
				}
				go srv.Serve(ln)
				shutdown = append(shutdown, func() error {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return srv.Shutdown(ctx)
				})
				logger.Info("serving decoy page", "addr", decoyAddr)
			}
			if metricsAddr != "" && metricsAddr != decoyAddr {
				metricsMux := http.NewServeMux()
				metricsMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				srv := &http.Server{Addr: metricsAddr, Handler: metricsMux}
				ln, lerr := net.Listen("tcp", metricsAddr)
				if lerr != nil {
					return fmt.Errorf("listen metrics: %w", lerr)
				}
				go srv.Serve(ln)
				shutdown = append(shutdown, func() error {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return srv.Shutdown(ctx)
				})
				logger.Info("serving metrics", "addr", metricsAddr)
			}

			var authenticator *auth.Authenticator
			if cfg.Tunnel.AuthSecret != "" {
				secret, derr := (config.TunnelConfig{Key: cfg.Tunnel.AuthSecret}).DeriveKey()
				if derr != nil {
					return fmt.Errorf("derive auth secret: %w", derr)
				}
				authenticator, err = auth.New(secret)
				if err != nil {
					return fmt.Errorf("build authenticator: %w", err)
				}
			}

			var limiter *ratelimit.Limiter
			if cfg.RateLimit.Enabled {
				limiter = ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
				logger.Info("rate limiting enabled",
					"requests_per_second", cfg.RateLimit.RequestsPerSecond,
					"burst", humanize.Comma(int64(cfg.RateLimit.Burst)))
			}

			pollCfg := pollserver.Config{
				MasterKey:          masterKey,
				Cipher:             cipher,
				Layout:             layout,
				UpstreamAddr:       upstreamAddr,
				DialTimeout:        cfg.Server.DialTimeout,
				SessionIdleTimeout: cfg.Server.SessionIdleTimeout,
				LongPollTotal:      cfg.Server.LongPollTotal,
				LongPollHeartbeat:  cfg.Server.LongPollHeartbeat,
				Authenticator:      authenticator,
				RateLimiter:        limiter,
				Logger:             logger,
				Metrics:            m,
			}

			switch transportName {
			case "", "poll":
				srv := pollserver.NewServer(pollCfg)
				ln, lerr := net.Listen("tcp", cfg.Server.ListenAddr)
				if lerr != nil {
					return fmt.Errorf("listen: %w", lerr)
				}
				srv.Start(ln)
				logger.Info("poll transport listening", "addr", ln.Addr().String(), "upstream", upstreamAddr)
				shutdown = append(shutdown, srv.Stop)
			case "ws", "h2", "quic":
				tp, terr := transport.New(transport.TransportType(transportName))
				if terr != nil {
					return terr
				}
				ln, lerr := tp.Listen(cfg.Server.ListenAddr, transport.DefaultListenOptions())
				if lerr != nil {
					return fmt.Errorf("listen: %w", lerr)
				}
				logger.Info("stream transport listening", "transport", transportName, "addr", cfg.Server.ListenAddr, "upstream", upstreamAddr)
				params := transport.TunnelParams{MasterKey: masterKey, Cipher: cipher, Layout: layout}
				go acceptStreamTunnels(ln, upstreamAddr, params, logger)
				shutdown = append(shutdown, ln.Close, tp.Close)
			default:
				return fmt.Errorf("unknown transport %q", transportName)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			logger.Info("shutting down", "signal", sig.String())

			for _, stop := range shutdown {
				if serr := stop(); serr != nil {
					logger.Warn("shutdown error", "error", serr)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "sudotun.yaml", "Path to configuration file")
	cmd.Flags().StringVar(&transportName, "transport", "poll", "Transport backend: poll, ws, h2, or quic")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on (disabled if empty)")
	cmd.Flags().StringVar(&decoyAddr, "decoy-addr", "", "Address to serve the embedded decoy page on (disabled if empty)")

	return cmd
}

// acceptStreamTunnels accepts peer connections and streams on a
// streaming-transport listener, serving each stream as one tunnel.
func acceptStreamTunnels(ln transport.Listener, upstreamAddr string, params transport.TunnelParams, logger *slog.Logger) {
	ctx := context.Background()
	for {
		peer, err := ln.Accept(ctx)
		if err != nil {
			return
		}
		go func() {
			for {
				st, serr := peer.AcceptStream(ctx)
				if serr != nil {
					return
				}
				go func() {
					if terr := transport.ServeTunnel(ctx, st, upstreamAddr, params, logger); terr != nil {
						logger.Debug("tunnel ended", "error", terr)
					}
				}()
			}
		}()
	}
}

func clientCmd() *cobra.Command {
	var (
		configPath    string
		transportName string
		metricsAddr   string
	)

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Run the local SOCKS5 front-end",
		Long: `Run a local SOCKS5 proxy. Every CONNECT accepted by the proxy is
forwarded through the obfuscated tunnel to the relay's single
configured upstream, regardless of the address the SOCKS5 caller
requested.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.ValidateClient(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			logger := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)

			masterKey, err := cfg.Tunnel.DeriveKey()
			if err != nil {
				return err
			}
			cipher, err := session.ParseCipher(cfg.Tunnel.Cipher)
			if err != nil {
				return fmt.Errorf("invalid tunnel.cipher: %w", err)
			}
			layout, err := codec.ParseLayout(cfg.Tunnel.Layout)
			if err != nil {
				return fmt.Errorf("invalid tunnel.layout: %w", err)
			}

			reg := prometheus.NewRegistry()
			m := metrics.NewMetricsWithRegistry(reg)
			var metricsShutdown func() error
			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				srv := &http.Server{Addr: metricsAddr, Handler: mux}
				ln, lerr := net.Listen("tcp", metricsAddr)
				if lerr != nil {
					return fmt.Errorf("listen metrics: %w", lerr)
				}
				go srv.Serve(ln)
				metricsShutdown = func() error {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return srv.Shutdown(ctx)
				}
				logger.Info("serving metrics", "addr", metricsAddr)
			}

			var dialer socks5.Dialer
			switch transportName {
			case "", "poll":
				pcCfg := pollclient.DefaultConfig()
				pcCfg.RelayAddr = cfg.Client.RelayAddr
				pcCfg.MasterKey = masterKey
				pcCfg.Cipher = cipher
				pcCfg.Layout = layout
				dialer = socks5.NewTunnelDialer(pcCfg)
			case "ws", "h2", "quic":
				sd, derr := newStreamDialer(transportName, cfg.Client.RelayAddr, transport.TunnelParams{
					MasterKey: masterKey,
					Cipher:    cipher,
					Layout:    layout,
				})
				if derr != nil {
					return derr
				}
				defer sd.Close()
				dialer = sd
			default:
				return fmt.Errorf("unknown transport %q", transportName)
			}

			scfg := socks5.DefaultServerConfig()
			scfg.Address = cfg.Client.SOCKS5ListenAddr
			scfg.Dialer = dialer
			scfg.Metrics = m

			srv := socks5.NewServer(scfg)
			if err := srv.Start(); err != nil {
				return fmt.Errorf("start socks5 server: %w", err)
			}
			logger.Info("socks5 front-end listening", "addr", srv.Address().String(), "relay", cfg.Client.RelayAddr, "transport", transportName)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			stopErr := srv.StopWithContext(ctx)
			if metricsShutdown != nil {
				if merr := metricsShutdown(); merr != nil {
					logger.Warn("metrics shutdown error", "error", merr)
				}
			}
			return stopErr
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "sudotun.yaml", "Path to configuration file")
	cmd.Flags().StringVar(&transportName, "transport", "poll", "Transport backend: poll, ws, h2, or quic")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on (disabled if empty)")

	return cmd
}

// streamDialer implements socks5.Dialer over a single long-lived
// streaming-transport PeerConn, opening one new stream per SOCKS5
// connection. It ignores the network/address the SOCKS5 caller
// requested, same as socks5.TunnelDialer: every tunnel reaches the
// relay's one configured upstream.
type streamDialer struct {
	peer   transport.PeerConn
	params transport.TunnelParams
}

func newStreamDialer(name, relayAddr string, params transport.TunnelParams) (*streamDialer, error) {
	tp, err := transport.New(transport.TransportType(name))
	if err != nil {
		return nil, err
	}
	peer, err := tp.Dial(context.Background(), relayAddr, transport.DefaultDialOptions())
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	return &streamDialer{peer: peer, params: params}, nil
}

func (d *streamDialer) Dial(network, address string) (net.Conn, error) {
	return d.DialContext(context.Background(), network, address)
}

func (d *streamDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	st, err := d.peer.OpenStream(ctx)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	cc, err := transport.DialTunnel(st, d.params)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &streamConn{ClientConn: cc}, nil
}

func (d *streamDialer) Close() error {
	return d.peer.Close()
}

// streamConn adapts transport.ClientConn's plain Read/Write/Close to the
// net.Conn shape socks5's relay loop expects.
type streamConn struct {
	*transport.ClientConn
}

func (streamConn) LocalAddr() net.Addr               { return streamAddr{} }
func (streamConn) RemoteAddr() net.Addr              { return streamAddr{} }
func (streamConn) SetDeadline(t time.Time) error     { return nil }
func (streamConn) SetReadDeadline(t time.Time) error  { return nil }
func (streamConn) SetWriteDeadline(t time.Time) error { return nil }

type streamAddr struct{}

func (streamAddr) Network() string { return "sudotun" }
func (streamAddr) String() string  { return "sudotun-stream-tunnel" }

// randomHexKey generates a random 32-byte key, hex encoded, suitable for
// tunnel.key.
func randomHexKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
