package rfb

import (
	"sync/atomic"

	"github.com/quailfeather/rfbclient/rfb/encodings"
)

// EncodingID is the 32-bit wire identifier for an RFB rectangle encoding.
// It is an alias for encodings.ID so callers outside this package can use
// either name interchangeably.
type EncodingID = encodings.ID

// Standard encodings this client speaks, re-exported from the encodings
// sub-package for convenience. IDs match RFC 6143 §7.7 except CoRRE (4)
// and Zlib (6), which are not in the RFC's own table but are widely
// deployed extensions (Zlib being zlib-compressed Raw).
const (
	EncodingRaw      = encodings.Raw
	EncodingCopyRect = encodings.CopyRect
	EncodingRRE      = encodings.RRE
	EncodingCoRRE    = encodings.CoRRE
	EncodingHextile  = encodings.Hextile
	EncodingZlib     = encodings.Zlib
	EncodingZRLE     = encodings.ZRLE
)

// Decoder reads one rectangle's worth of a specific encoding off the wire
// and issues drawing calls into a Framebuffer. Implementations hold
// back-references to the transport reader and the framebuffer but do not
// own either.
type Decoder interface {
	// EncodingID is the wire identifier this decoder handles.
	EncodingID() EncodingID

	// Name is the short lowercase identifier used by -d to disable this
	// decoder (e.g. "hextile", "corre"). Raw's name is "raw" but Raw can
	// never be disabled.
	Name() string

	// Description is a one-line human-readable summary, surfaced by
	// diagnostics.
	Description() string

	// Decode reads rect's pixel data for this encoding from rd and
	// writes it into fb. It is always called between fb.BeginDrawing()
	// and fb.EndDrawing().
	Decode(rd *BigEndianReader, rect ScreenRect, fb Framebuffer) error

	// Processed is the monotonic count of rectangles this decoder has
	// successfully decoded, for diagnostics only.
	Processed() uint64
}

// processedCounter is embedded by every Decoder implementation to satisfy
// the Processed() method without repeating the atomic bookkeeping.
type processedCounter struct {
	n uint64
}

func (c *processedCounter) mark()          { atomic.AddUint64(&c.n, 1) }
func (c *processedCounter) Processed() uint64 { return atomic.LoadUint64(&c.n) }

// DecoderRegistry maps encoding IDs to decoder instances and preserves the
// order decoders were registered in, since that order is what gets
// advertised to the server via SetEncodings. Raw must always be present
// and always sorts last in the preference list.
type DecoderRegistry struct {
	byID  map[EncodingID]Decoder
	order []EncodingID
}

// NewDecoderRegistry builds a registry with the given decoders registered
// in argument order, then moves Raw (if present) to the end regardless of
// where it appeared, satisfying "Raw always present and always last."
func NewDecoderRegistry(decoders ...Decoder) *DecoderRegistry {
	reg := &DecoderRegistry{byID: make(map[EncodingID]Decoder, len(decoders))}
	var raw Decoder
	for _, d := range decoders {
		if d.EncodingID() == EncodingRaw {
			raw = d
			continue
		}
		reg.byID[d.EncodingID()] = d
		reg.order = append(reg.order, d.EncodingID())
	}
	if raw == nil {
		raw = &RawDecoder{}
	}
	reg.byID[EncodingRaw] = raw
	reg.order = append(reg.order, EncodingRaw)
	return reg
}

// Lookup returns the decoder for id, or (nil, false) if none is
// registered — the session must fail with KindMissingDecoder in that
// case, since the server must only send encodings the client advertised.
func (r *DecoderRegistry) Lookup(id EncodingID) (Decoder, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// PreferenceOrder returns the encoding IDs in the order they should be
// advertised via SetEncodings: insertion order, with Raw always last.
func (r *DecoderRegistry) PreferenceOrder() []EncodingID {
	out := make([]EncodingID, len(r.order))
	copy(out, r.order)
	return out
}

// Remove drops the decoder named name from the registry (case-sensitive
// match against Decoder.Name()). Raw can never be removed; Remove is a
// no-op for it, matching the CLI's "-d name" flag.
func (r *DecoderRegistry) Remove(name string) {
	for id, d := range r.byID {
		if id == EncodingRaw {
			continue
		}
		if d.Name() == name {
			delete(r.byID, id)
			for i, oid := range r.order {
				if oid == id {
					r.order = append(r.order[:i], r.order[i+1:]...)
					break
				}
			}
			return
		}
	}
}

// Decoders returns every registered decoder, for diagnostics.
func (r *DecoderRegistry) Decoders() []Decoder {
	out := make([]Decoder, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// DefaultDecoders returns one fresh instance of every decoder this client
// implements, in the preference order the original VNC viewer registered
// them: Zlib first, then Hextile, CoRRE, RRE, CopyRect, and finally Raw.
func DefaultDecoders(inflater ZlibInflater) []Decoder {
	return []Decoder{
		NewZlibDecoder(inflater),
		&HextileDecoder{},
		&CoRREDecoder{},
		&RREDecoder{},
		&CopyRectDecoder{},
		&RawDecoder{},
	}
}
