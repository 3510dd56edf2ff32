package rfb

import (
	"bufio"
	"io"
	"net"
	"sync"
	"time"

	"github.com/quailfeather/rfbclient/rfb/diag"
)

// ByteTransport is the synchronous byte-stream contract the session and
// the input forwarder share. Exactly one goroutine may call
// RecvExact (the network context); any number may call Send provided they
// bracket it with BeginSend/EndSend, since two logical producers (session
// acknowledgements and forwarded input) share one TCP stream and their
// bytes must never interleave.
type ByteTransport interface {
	// Send blocks until all of b is delivered or fails with KindWrite.
	Send(b []byte) error

	// RecvExact blocks until exactly len(buf) bytes have been read into
	// buf. Short reads are looped internally; any EOF or error before
	// buf is full fails with KindRead.
	RecvExact(buf []byte) error

	// WaitReadable blocks up to timeout for at least one byte to become
	// available. It returns false on timeout, true when data is pending,
	// and fails with KindSelect on a fatal polling error.
	WaitReadable(timeout time.Duration) (bool, error)

	// BeginSend/EndSend bracket a logical write so that two producers
	// (the session's acknowledgements, the input forwarder's events)
	// never interleave their bytes on the wire.
	BeginSend()
	EndSend()

	// Close releases the underlying connection. Safe to call more than
	// once.
	Close() error
}

// TCPTransport is the concrete ByteTransport backing a real VNC connection.
// It is the only piece of this package that imports net; everything else
// depends on the ByteTransport interface so it can be driven by an
// in-memory transport in tests.
type TCPTransport struct {
	conn net.Conn
	br   *bufio.Reader

	sendMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// NewTCPTransport wraps an already-connected net.Conn (typically the
// result of net.Dial("tcp", hostport)) as a ByteTransport. Dialing itself
// is left to the caller; it is out of this package's scope per the
// engine/embedder split.
func NewTCPTransport(conn net.Conn) *TCPTransport {
	return &TCPTransport{conn: conn, br: bufio.NewReaderSize(conn, 4096)}
}

func (t *TCPTransport) Send(b []byte) error {
	_, err := t.conn.Write(b)
	if err != nil {
		return wrapf(KindWrite, err, "short write to server")
	}
	return nil
}

func (t *TCPTransport) RecvExact(buf []byte) error {
	if _, err := io.ReadFull(t.br, buf); err != nil {
		return wrapf(KindRead, err, "failed to read %d bytes", len(buf))
	}
	return nil
}

// WaitReadable peeks a single byte through the buffered reader so that a
// positive result never consumes data RecvExact still needs to see.
func (t *TCPTransport) WaitReadable(timeout time.Duration) (bool, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return false, wrapf(KindSelect, err, "failed to set read deadline")
	}
	_, err := t.br.Peek(1)
	_ = t.conn.SetReadDeadline(time.Time{})
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return false, nil
		}
		return false, wrapf(KindSelect, err, "failed waiting for readable data")
	}
	return true, nil
}

func (t *TCPTransport) BeginSend() { t.sendMu.Lock() }
func (t *TCPTransport) EndSend()   { t.sendMu.Unlock() }

func (t *TCPTransport) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}

// countingTransport decorates a ByteTransport with byte accounting for
// diagnostics, backed by Prometheus counters so bytes-sent and
// bytes-received are visible to anything scraping the process.
type countingTransport struct {
	ByteTransport
	diag *diag.Collectors
}

func (t *countingTransport) Send(b []byte) error {
	err := t.ByteTransport.Send(b)
	if err == nil {
		t.diag.BytesSent.Add(float64(len(b)))
	}
	return err
}

func (t *countingTransport) RecvExact(buf []byte) error {
	err := t.ByteTransport.RecvExact(buf)
	if err == nil {
		t.diag.BytesReceived.Add(float64(len(buf)))
	}
	return err
}
