package socks5

import (
	"context"
	"net"
	"time"

	"github.com/postalsys/sudotun/internal/pollclient"
)

// TunnelDialer implements Dialer by opening a sudotun tunnel through a
// relay for every CONNECT request, instead of dialing the destination
// directly. The relay itself decides what upstream a tunnel reaches
// (§6's fixed per-relay upstream target), so the requested network and
// address are accepted for SOCKS5 protocol compliance but otherwise
// ignored; the RFC 1928 handshake still runs end to end.
type TunnelDialer struct {
	cfg pollclient.Config
}

// NewTunnelDialer builds a Dialer that opens one pollclient tunnel per
// accepted SOCKS5 connection.
func NewTunnelDialer(cfg pollclient.Config) *TunnelDialer {
	return &TunnelDialer{cfg: cfg}
}

// Dial opens a tunnel, ignoring network/address.
func (d *TunnelDialer) Dial(network, address string) (net.Conn, error) {
	return d.DialContext(context.Background(), network, address)
}

// DialContext opens a tunnel, ignoring network/address, honoring ctx
// cancellation for the initial /session call.
func (d *TunnelDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	conn, err := pollclient.Dial(ctx, d.cfg)
	if err != nil {
		return nil, err
	}
	return &tunnelConn{Conn: conn}, nil
}

// tunnelConn adapts pollclient.Conn (Read/Write/CloseWrite/Close) to the
// full net.Conn interface the SOCKS5 handler's relay loop expects.
// Deadlines are no-ops: each Read/Write is already a bounded HTTP call
// governed by the underlying http.Client's timeout.
type tunnelConn struct {
	*pollclient.Conn
}

func (c *tunnelConn) LocalAddr() net.Addr                { return tunnelAddr{} }
func (c *tunnelConn) RemoteAddr() net.Addr               { return tunnelAddr{} }
func (c *tunnelConn) SetDeadline(t time.Time) error      { return nil }
func (c *tunnelConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *tunnelConn) SetWriteDeadline(t time.Time) error { return nil }

type tunnelAddr struct{}

func (tunnelAddr) Network() string { return "sudotun" }
func (tunnelAddr) String() string  { return "sudotun-tunnel" }
