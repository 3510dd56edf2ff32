package rfb

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// memTransport is an in-memory ByteTransport for tests: an "outbound"
// buffer collects everything the client sends, and "inbound" is scripted
// bytes the client reads as if they came from a server.
type memTransport struct {
	mu       sync.Mutex
	inbound  *bytes.Reader
	outbound bytes.Buffer

	sendMu sync.Mutex
}

func newMemTransport(scripted []byte) *memTransport {
	return &memTransport{inbound: bytes.NewReader(scripted)}
}

func (t *memTransport) Send(b []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.outbound.Write(b)
	return err
}

func (t *memTransport) RecvExact(buf []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.ReadFull(t.inbound, buf)
	if err != nil {
		return wrapf(KindRead, err, "memTransport: short read")
	}
	return nil
}

func (t *memTransport) WaitReadable(timeout time.Duration) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inbound.Len() > 0, nil
}

func (t *memTransport) BeginSend() { t.sendMu.Lock() }
func (t *memTransport) EndSend()   { t.sendMu.Unlock() }
func (t *memTransport) Close() error { return nil }

func (t *memTransport) Outbound() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]byte(nil), t.outbound.Bytes()...)
}
