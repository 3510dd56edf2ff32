package rfb

import (
	"encoding/binary"
)

// DefaultStringLimit bounds string_u32_prefixed reads (server desktop
// name, auth-rejection reason) when no explicit limit is given. Server
// cut-text is not read through StringU32Prefixed and is not bounded by it.
const DefaultStringLimit = 1000

// reader is anything BigEndianReader can pull a fixed number of bytes
// from: a ByteTransport's RecvExact, or a ZlibInflateStream's ReadExact.
type reader interface {
	RecvExact(buf []byte) error
}

// BigEndianReader offers the primitive framing helpers every RFB message
// parser is built from. All multi-byte protocol integers are big-endian.
type BigEndianReader struct {
	src reader
}

func NewBigEndianReader(src reader) *BigEndianReader {
	return &BigEndianReader{src: src}
}

func (r *BigEndianReader) U8() (uint8, error) {
	var buf [1]byte
	if err := r.src.RecvExact(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (r *BigEndianReader) U16() (uint16, error) {
	var buf [2]byte
	if err := r.src.RecvExact(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (r *BigEndianReader) U32() (uint32, error) {
	var buf [4]byte
	if err := r.src.RecvExact(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// Bytes reads exactly n raw bytes, useful for pixel data and native-order
// pixel values that must not be reinterpreted as an integer.
func (r *BigEndianReader) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.src.RecvExact(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// StringU32Prefixed reads a 32-bit length, rejects any length greater than
// limit with KindOversizedString, then reads that many bytes verbatim. RFB
// does not specify a string encoding, so the bytes are returned as-is.
func (r *BigEndianReader) StringU32Prefixed(limit int) (string, error) {
	n, err := r.U32()
	if err != nil {
		return "", err
	}
	if limit <= 0 {
		limit = DefaultStringLimit
	}
	if int(n) > limit {
		return "", errKind(KindOversizedString, "string length %d exceeds limit %d", n, limit)
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// BigEndianWriter mirrors BigEndianReader for client -> server framing.
type BigEndianWriter struct {
	dst ByteTransport
}

func NewBigEndianWriter(dst ByteTransport) *BigEndianWriter {
	return &BigEndianWriter{dst: dst}
}

func (w *BigEndianWriter) U8(v uint8) error {
	return w.dst.Send([]byte{v})
}

func (w *BigEndianWriter) U16(v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return w.dst.Send(buf[:])
}

func (w *BigEndianWriter) U32(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return w.dst.Send(buf[:])
}

func (w *BigEndianWriter) Bytes(b []byte) error {
	return w.dst.Send(b)
}

func (w *BigEndianWriter) StringU32Prefixed(s string) error {
	if err := w.U32(uint32(len(s))); err != nil {
		return err
	}
	return w.Bytes([]byte(s))
}

// zlibReader adapts a ZlibInflateStream to the reader interface so a
// BigEndianReader can be built over compressed data the same way it is
// built over the transport.
type zlibReader struct {
	z *ZlibInflateStream
}

func (z zlibReader) RecvExact(buf []byte) error {
	return z.z.ReadExact(buf)
}

// NewCompressedReader builds a BigEndianReader over a ZlibInflateStream,
// for decoders (ZlibRaw) that need compressed integers.
func NewCompressedReader(z *ZlibInflateStream) *BigEndianReader {
	return NewBigEndianReader(zlibReader{z: z})
}
