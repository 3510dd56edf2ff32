package rfb

import (
	"bytes"
	"compress/zlib"
	"io"
)

// ZlibInflater is the injected zlib primitive; this package does not
// implement inflate itself. It mirrors the shape of Go's own
// compress/zlib.NewReader, so the stdlib
// implementation satisfies it directly, but any other inflate primitive
// can be substituted (e.g. for a cgo zlib binding) without the engine
// noticing.
type ZlibInflater interface {
	// NewReader returns a fresh decompressor for r, or an error on
	// failure to parse the zlib header; SetStream reports that error as
	// KindZlibInit.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// StdlibInflater is the default ZlibInflater, backed by compress/zlib.
// This is the concrete implementation the CLI wires in, and the one
// Connect and NewZlibInflateStream fall back to when given none.
type StdlibInflater struct{}

func (StdlibInflater) NewReader(r io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(r)
}

// zlibQueue is an io.Reader/io.Writer adapter over a bytes.Buffer that
// never reports io.EOF: SetStream appends each rectangle's compressed run
// with Write, and the long-lived inflater pulls from the front with Read.
// Real RFB Zlib/ZRLE rectangles are contiguous slices of one deflate
// stream with no per-rectangle header, so the reader on the other end
// must never see an end-of-stream between rectangles — an io.EOF here
// would be indistinguishable from the deflate stream genuinely ending.
type zlibQueue struct {
	buf bytes.Buffer
}

func (q *zlibQueue) Write(p []byte) (int, error) { return q.buf.Write(p) }

// Read returns io.ErrUnexpectedEOF instead of io.EOF when empty: under
// correct use SetStream always supplies a whole rectangle's compressed
// bytes before any Read of it is attempted, so an empty queue here means
// the server's declared compressed length undersold what the decoder
// actually needed to produce the rectangle's pixels.
func (q *zlibQueue) Read(p []byte) (int, error) {
	if q.buf.Len() == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	return q.buf.Read(p)
}

// ZlibInflateStream makes a run of compressed bytes handed in via
// SetStream look like a readable byte sequence via ReadExact. A single
// instance, and a single underlying zlib.Reader, is long-lived per
// decoder that uses it: RFB's Zlib/ZRLE encodings carry dictionary and
// sliding-window state across the whole session, not just within one
// rectangle, so the inflater is created once and simply fed more bytes
// as rectangles arrive — it is never Reset or recreated, since
// zlib.Resetter.Reset re-reads a zlib header and throws the window away,
// which would desynchronize from the server's single continuous stream.
type ZlibInflateStream struct {
	inflater ZlibInflater

	pending *zlibQueue
	zr      io.ReadCloser
}

// NewZlibInflateStream constructs a stream around the given inflater. A
// nil inflater defaults to StdlibInflater{}.
func NewZlibInflateStream(inflater ZlibInflater) *ZlibInflateStream {
	if inflater == nil {
		inflater = StdlibInflater{}
	}
	return &ZlibInflateStream{inflater: inflater, pending: &zlibQueue{}}
}

// SetStream appends the next contiguous compressed run to the stream's
// pending queue. The underlying zlib reader is created once, the first
// time any bytes are queued, and reused for the lifetime of this
// ZlibInflateStream so its dictionary and window persist across every
// rectangle the decoder feeds it.
func (z *ZlibInflateStream) SetStream(compressed []byte) error {
	z.pending.Write(compressed)
	if z.zr == nil {
		zr, err := z.inflater.NewReader(z.pending)
		if err != nil {
			return wrapf(KindZlibInit, err, "failed to initialize zlib stream")
		}
		z.zr = zr
	}
	return nil
}

// ReadExact fills buf completely from the inflate stream. A
// pointer-difference loop-termination check can spin when inflate
// returns "ok, more output room available, but no more output produced"
// (Z_OK with avail_out>0 and no forward progress); this implementation
// instead loops strictly on bytes actually copied into buf and treats
// io.EOF from the underlying reader as a genuine end of the compressed
// run, monotonically shrinking the remaining slice each pass.
func (z *ZlibInflateStream) ReadExact(buf []byte) error {
	remaining := buf
	for len(remaining) > 0 {
		n, err := z.zr.Read(remaining)
		if n > 0 {
			remaining = remaining[n:]
		}
		if err != nil {
			if err == io.EOF && len(remaining) == 0 {
				break
			}
			return wrapf(KindZlibDecompress, err, "zlib stream ended after %d of %d bytes", len(buf)-len(remaining), len(buf))
		}
		if n == 0 && err == nil {
			// No forward progress and no error: this is exactly the
			// spin condition the source's bug allowed. Treat it as a
			// decompression failure rather than looping forever.
			return errKind(KindZlibDecompress, "zlib inflate made no progress (%d of %d bytes)", len(buf)-len(remaining), len(buf))
		}
	}
	return nil
}
