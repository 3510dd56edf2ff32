package rfb

// CoRREDecoder is RRE with 8-bit sub-rectangle coordinates and sizes,
// used only for rectangles no larger than 255x255 in either dimension —
// servers must not advertise CoRRE for larger rectangles.
//
// See RFC 6143 §7.7 (CoRRE is a TightVNC-era extension to RRE, not in the
// base RFC table under its own number, but widely implemented).
type CoRREDecoder struct {
	processedCounter
}

func (*CoRREDecoder) EncodingID() EncodingID { return EncodingCoRRE }
func (*CoRREDecoder) Name() string           { return "corre" }
func (*CoRREDecoder) Description() string {
	return "compact rise and run length encoded pixel data (CoRRE)"
}

func (d *CoRREDecoder) Decode(rd *BigEndianReader, rect ScreenRect, fb Framebuffer) error {
	bpp := int(fb.PixelFormat().BytesPerPixel)

	numSubrects, err := rd.U32()
	if err != nil {
		return wrapf(KindRead, err, "corre: failed to read sub-rectangle count")
	}

	bg, err := rd.Bytes(bpp)
	if err != nil {
		return wrapf(KindRead, err, "corre: failed to read background pixel")
	}
	fillSubrect(fb, rect.X, rect.Y, rect.W, rect.H, bg)

	for i := uint32(0); i < numSubrects; i++ {
		pixel, err := rd.Bytes(bpp)
		if err != nil {
			return wrapf(KindRead, err, "corre: failed to read sub-rect %d color", i)
		}
		x, err := rd.U8()
		if err != nil {
			return wrapf(KindRead, err, "corre: failed to read sub-rect %d x", i)
		}
		y, err := rd.U8()
		if err != nil {
			return wrapf(KindRead, err, "corre: failed to read sub-rect %d y", i)
		}
		w, err := rd.U8()
		if err != nil {
			return wrapf(KindRead, err, "corre: failed to read sub-rect %d w", i)
		}
		h, err := rd.U8()
		if err != nil {
			return wrapf(KindRead, err, "corre: failed to read sub-rect %d h", i)
		}
		fillSubrect(fb, rect.X+uint16(x), rect.Y+uint16(y), uint16(w), uint16(h), pixel)
	}
	d.mark()
	return nil
}
