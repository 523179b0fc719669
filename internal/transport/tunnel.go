package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/postalsys/sudotun/internal/codec"
	"github.com/postalsys/sudotun/internal/logging"
	"github.com/postalsys/sudotun/internal/recovery"
	"github.com/postalsys/sudotun/internal/session"
	"github.com/postalsys/sudotun/internal/upstream"
)

// TunnelParams carries the cryptographic parameters a streaming-transport
// tunnel needs to build its two directional sessions, mirroring the poll
// transport's pollserver.Config and pollclient.Config.
type TunnelParams struct {
	MasterKey []byte
	Cipher    session.Cipher
	Layout    codec.Layout
}

// ServeTunnel is the server side of one streaming-transport tunnel: it
// dials upstream, then pumps bytes between upstream and the stream,
// sealing/masking outbound data and opening/unmasking inbound data with
// the same per-direction session state the poll transport uses. It
// blocks until the stream or the upstream connection ends.
func ServeTunnel(ctx context.Context, st Stream, upstreamAddr string, params TunnelParams, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NopLogger()
	}

	upSess, err := session.Create(params.MasterKey, params.Cipher, params.Layout, session.DirectionUpload)
	if err != nil {
		return fmt.Errorf("transport: create upload session: %w", err)
	}
	downSess, err := session.Create(params.MasterKey, params.Cipher, params.Layout, session.DirectionStream)
	if err != nil {
		return fmt.Errorf("transport: create stream session: %w", err)
	}

	conn, err := upstream.Dial(ctx, upstream.DefaultConfig(), upstreamAddr)
	if err != nil {
		return fmt.Errorf("transport: dial upstream: %w", err)
	}
	defer conn.Close()

	done := make(chan error, 2)

	go func() {
		defer recovery.RecoverWithLog(logger, "transport.ServeTunnel.upstream->stream")
		done <- pumpSealed(conn, st, downSess)
	}()
	go func() {
		defer recovery.RecoverWithLog(logger, "transport.ServeTunnel.stream->upstream")
		done <- pumpMasked(st, conn, upSess)
	}()

	err = <-done
	st.Close()
	conn.Close()
	<-done
	return err
}

// DialTunnel is the client side: it seals/masks local writes with an
// upload session and unmasks/opens stream reads with a stream session,
// presenting the result as a plain io.ReadWriteCloser.
func DialTunnel(st Stream, params TunnelParams) (*ClientConn, error) {
	upSess, err := session.Create(params.MasterKey, params.Cipher, params.Layout, session.DirectionUpload)
	if err != nil {
		return nil, fmt.Errorf("transport: create upload session: %w", err)
	}
	downSess, err := session.Create(params.MasterKey, params.Cipher, params.Layout, session.DirectionStream)
	if err != nil {
		return nil, fmt.Errorf("transport: create stream session: %w", err)
	}
	return &ClientConn{stream: st, upload: upSess, download: downSess}, nil
}

// ClientConn is a streaming-transport tunnel from the client's side.
type ClientConn struct {
	stream   Stream
	upload   *session.Session
	download *session.Session
	pending  []byte
}

// Write seals p and writes the masked record to the stream.
func (c *ClientConn) Write(p []byte) (int, error) {
	masked, err := c.upload.Seal(p)
	if err != nil {
		return 0, fmt.Errorf("transport: seal: %w", err)
	}
	if _, err := c.stream.Write(masked); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Read returns unmasked, decrypted bytes, reading and feeding raw stream
// bytes into the frame reassembler as needed.
func (c *ClientConn) Read(p []byte) (int, error) {
	for len(c.pending) == 0 {
		buf := make([]byte, 32*1024)
		n, err := c.stream.Read(buf)
		if n > 0 {
			frames, ferr := c.download.Feed(buf[:n])
			if ferr != nil {
				return 0, fmt.Errorf("transport: feed: %w", ferr)
			}
			for _, f := range frames {
				c.pending = append(c.pending, f...)
			}
		}
		if err != nil {
			if len(c.pending) > 0 {
				break
			}
			return 0, err
		}
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// Close closes the underlying stream.
func (c *ClientConn) Close() error { return c.stream.Close() }

// pumpSealed reads plaintext from src, seals it with sess, and writes the
// masked record to dst. Used for the upstream -> stream direction.
func pumpSealed(src io.Reader, dst io.Writer, sess *session.Session) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			masked, serr := sess.Seal(buf[:n])
			if serr != nil {
				return serr
			}
			if _, werr := dst.Write(masked); werr != nil {
				return werr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// pumpMasked reads masked records from src, reassembles and unmasks them
// with sess, and writes the resulting plaintext to dst. Used for the
// stream -> upstream direction.
func pumpMasked(src io.Reader, dst io.Writer, sess *session.Session) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			frames, ferr := sess.Feed(buf[:n])
			if ferr != nil {
				return ferr
			}
			for _, f := range frames {
				if _, werr := dst.Write(f); werr != nil {
					return werr
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
