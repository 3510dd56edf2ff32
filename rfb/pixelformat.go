package rfb

import "math/bits"

// PixelFormat describes the byte layout of one pixel on the wire. Masks
// are the maximum value of each channel (e.g. 0xFF for an 8-bit channel);
// shifts are the channel's bit position within the pixel word.
//
// Invariant: BytesPerPixel*8 >= Depth >= popcount(RedMax)+popcount(GreenMax)+popcount(BlueMax).
type PixelFormat struct {
	BytesPerPixel uint8 // 1, 2, or 4
	Depth         uint8
	BigEndian     bool
	TrueColor     bool
	RedMax        uint16
	GreenMax      uint16
	BlueMax       uint16
	RedShift      uint8
	GreenShift    uint8
	BlueShift     uint8
}

// Valid reports whether BytesPerPixel is 1, 2 or 4 and the format
// satisfies the invariant above. It does not check TrueColor.
func (pf PixelFormat) Valid() bool {
	if pf.BytesPerPixel != 1 && pf.BytesPerPixel != 2 && pf.BytesPerPixel != 4 {
		return false
	}
	channelBits := bits.OnesCount16(pf.RedMax) + bits.OnesCount16(pf.GreenMax) + bits.OnesCount16(pf.BlueMax)
	if int(pf.BytesPerPixel)*8 < int(pf.Depth) {
		return false
	}
	if int(pf.Depth) < channelBits {
		return false
	}
	return true
}

// ArbitrateFormat reconciles the server's native format against the
// local display's preferred format. If the local
// display is paletted (1 byte per pixel) it must adopt the server's
// channel layout, since RFB has no client-driven palette negotiation. For
// any true-color local format (2, 3, or 4 bytes per pixel) the local
// shifts/masks are kept — RFB lets the client dictate pixel layout in
// true-color mode, so local is always acceptable, and depth travels with
// whichever side's masks win so it is never silently overwritten.
func ArbitrateFormat(serverFormat, localPreferred PixelFormat) PixelFormat {
	if localPreferred.BytesPerPixel == 1 {
		arbitrated := serverFormat
		arbitrated.TrueColor = serverFormat.TrueColor
		return arbitrated
	}
	arbitrated := localPreferred
	arbitrated.TrueColor = true
	return arbitrated
}
