package upstream

import (
	"io"
	"log/slog"
	"time"

	"github.com/postalsys/sudotun/internal/logging"
	"github.com/postalsys/sudotun/internal/recovery"
	"github.com/postalsys/sudotun/internal/session"
)

// pumpBufferSize bounds a single Read call; it has no relation to the
// frame length prefix, which is computed after sealing.
const pumpBufferSize = 32 * 1024

// enqueueRetryInterval is how long Pump backs off when a session's
// ready-to-read queue is at session.ReadyQueueLimit, per the backpressure
// rule of suspending the upstream reader until the next drain.
const enqueueRetryInterval = 20 * time.Millisecond

// Pump reads from conn until it closes or errors, seals each chunk through
// sess and enqueues it for delivery to the client. It mirrors the exit
// reader-goroutine shape: one goroutine per connection, deferred panic
// recovery, idle deadlines reset on every read.
//
// onDone is invoked exactly once when the pump exits, with the error that
// ended it (nil on a clean EOF-driven shutdown after the session itself
// closed); callers use it to tear down the session and connection.
func Pump(conn *Conn, sess *session.Session, logger *slog.Logger, onDone func(error)) {
	defer recovery.RecoverWithLog(logger, "upstream.Pump")

	buf := make([]byte, pumpBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			masked, sealErr := sess.Seal(buf[:n])
			if sealErr != nil {
				logger.Error("seal failed in upstream pump", logging.KeyError, sealErr)
				onDone(sealErr)
				return
			}
			if !enqueue(sess, masked) {
				onDone(nil)
				return
			}
		}
		if err != nil {
			if err == io.EOF {
				onDone(nil)
			} else {
				onDone(err)
			}
			return
		}
	}
}

// enqueue retries Enqueue while the ready queue is full and the session is
// still open, giving the stream handler time to drain it. It gives up and
// reports failure once the session closes out from under it.
func enqueue(sess *session.Session, masked []byte) bool {
	for {
		if sess.Enqueue(masked) {
			return true
		}
		if sess.Closed() {
			return false
		}
		time.Sleep(enqueueRetryInterval)
	}
}
