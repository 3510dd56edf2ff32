package rfb

// RawDecoder implements the simplest RFB rectangle encoding: pixel data sent
// verbatim, row by row. Always supported; the client must advertise and
// implement it, and it is never removable via -d.
//
// See RFC 6143 §7.7.1.
type RawDecoder struct {
	processedCounter
}

func (*RawDecoder) EncodingID() EncodingID { return EncodingRaw }
func (*RawDecoder) Name() string           { return "raw" }
func (*RawDecoder) Description() string    { return "raw pixel data without compression" }

// Decode reads rect.W*rect.H*bpp bytes verbatim, one row at a time, and
// calls WritePixels once per row so the decoder never assumes the
// framebuffer stores rows contiguously.
func (d *RawDecoder) Decode(rd *BigEndianReader, rect ScreenRect, fb Framebuffer) error {
	bpp := int(fb.PixelFormat().BytesPerPixel)
	rowBytes := int(rect.W) * bpp
	for row := uint16(0); row < rect.H; row++ {
		pixels, err := rd.Bytes(rowBytes)
		if err != nil {
			return wrapf(KindRead, err, "raw: failed to read row %d of rect %+v", row, rect)
		}
		fb.WritePixels(rect.X, rect.Y+row, int(rect.W), pixels)
	}
	d.mark()
	return nil
}
