package rfb

// RREDecoder implements Rise-and-Run-length Encoding, suited to updates
// dominated by a large solid-color background with a handful of
// differently-colored sub-rectangles.
//
// See RFC 6143 §7.7.3.
type RREDecoder struct {
	processedCounter
}

func (*RREDecoder) EncodingID() EncodingID { return EncodingRRE }
func (*RREDecoder) Name() string           { return "rre" }
func (*RREDecoder) Description() string {
	return "rise and run length encoded pixel data (RRE)"
}

func (d *RREDecoder) Decode(rd *BigEndianReader, rect ScreenRect, fb Framebuffer) error {
	bpp := int(fb.PixelFormat().BytesPerPixel)

	numSubrects, err := rd.U32()
	if err != nil {
		return wrapf(KindRead, err, "rre: failed to read sub-rectangle count")
	}

	// Background pixel is transmitted byte-for-byte in the framebuffer's
	// native format, not reinterpreted as a big-endian integer.
	bg, err := rd.Bytes(bpp)
	if err != nil {
		return wrapf(KindRead, err, "rre: failed to read background pixel")
	}
	fillSubrect(fb, rect.X, rect.Y, rect.W, rect.H, bg)

	for i := uint32(0); i < numSubrects; i++ {
		pixel, err := rd.Bytes(bpp)
		if err != nil {
			return wrapf(KindRead, err, "rre: failed to read sub-rect %d color", i)
		}
		x, err := rd.U16()
		if err != nil {
			return wrapf(KindRead, err, "rre: failed to read sub-rect %d x", i)
		}
		y, err := rd.U16()
		if err != nil {
			return wrapf(KindRead, err, "rre: failed to read sub-rect %d y", i)
		}
		w, err := rd.U16()
		if err != nil {
			return wrapf(KindRead, err, "rre: failed to read sub-rect %d w", i)
		}
		h, err := rd.U16()
		if err != nil {
			return wrapf(KindRead, err, "rre: failed to read sub-rect %d h", i)
		}
		fillSubrect(fb, rect.X+x, rect.Y+y, w, h, pixel)
	}
	d.mark()
	return nil
}

// fillSubrect fills a w x h region row by row via WriteUniformPixels,
// shared by RRE and CoRRE.
func fillSubrect(fb Framebuffer, x, y, w, h uint16, pixel []byte) {
	for row := uint16(0); row < h; row++ {
		fb.WriteUniformPixels(x, y+row, int(w), pixel)
	}
}
