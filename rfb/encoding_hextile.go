package rfb

const (
	hextileRaw                 = 0x01
	hextileBackgroundSpecified = 0x02
	hextileForegroundSpecified = 0x04
	hextileAnySubrects         = 0x08
	hextileSubrectsColored     = 0x10
)

// HextileDecoder splits a rectangle into a row-major grid of 16x16 tiles
// (edge tiles clipped to the remainder) and decodes each with its own
// subencoding bitmask. tileBg and subFg persist across tiles within one
// rectangle, per RFC 6143 §7.7.4.
type HextileDecoder struct {
	processedCounter
}

func (*HextileDecoder) EncodingID() EncodingID { return EncodingHextile }
func (*HextileDecoder) Name() string           { return "hextile" }
func (*HextileDecoder) Description() string {
	return "16x16 tile encoded pixel data (hextile)"
}

func (d *HextileDecoder) Decode(rd *BigEndianReader, rect ScreenRect, fb Framebuffer) error {
	bpp := int(fb.PixelFormat().BytesPerPixel)

	// RFC 6143 leaves the value undefined if the first tile of a
	// rectangle omits both Background/Foreground-Specified flags.
	// Reference servers always set at least the background on the
	// first tile; when they don't, this client initializes both to
	// an all-zero (black) pixel rather than leaving them undefined.
	tileBg := make([]byte, bpp)
	subFg := make([]byte, bpp)

	for y := rect.Y; y < rect.Y+rect.H; y += 16 {
		tileH := uint16(16)
		if rect.Y+rect.H-y < 16 {
			tileH = rect.Y + rect.H - y
		}
		for x := rect.X; x < rect.X+rect.W; x += 16 {
			tileW := uint16(16)
			if rect.X+rect.W-x < 16 {
				tileW = rect.X + rect.W - x
			}

			mask, err := rd.U8()
			if err != nil {
				return wrapf(KindRead, err, "hextile: failed to read subencoding mask at (%d,%d)", x, y)
			}

			if mask&hextileRaw != 0 {
				rowBytes := int(tileW) * bpp
				for row := uint16(0); row < tileH; row++ {
					pixels, err := rd.Bytes(rowBytes)
					if err != nil {
						return wrapf(KindRead, err, "hextile: failed to read raw tile row %d", row)
					}
					fb.WritePixels(x, y+row, int(tileW), pixels)
				}
				continue
			}

			if mask&hextileBackgroundSpecified != 0 {
				bg, err := rd.Bytes(bpp)
				if err != nil {
					return wrapf(KindRead, err, "hextile: failed to read background pixel")
				}
				tileBg = bg
			}
			if mask&hextileForegroundSpecified != 0 {
				fg, err := rd.Bytes(bpp)
				if err != nil {
					return wrapf(KindRead, err, "hextile: failed to read foreground pixel")
				}
				subFg = fg
			}

			fillSubrect(fb, x, y, tileW, tileH, tileBg)

			if mask&hextileAnySubrects != 0 {
				count, err := rd.U8()
				if err != nil {
					return wrapf(KindRead, err, "hextile: failed to read sub-rectangle count")
				}
				colored := mask&hextileSubrectsColored != 0

				for i := uint8(0); i < count; i++ {
					color := subFg
					if colored {
						c, err := rd.Bytes(bpp)
						if err != nil {
							return wrapf(KindRead, err, "hextile: failed to read sub-rect %d color", i)
						}
						color = c
					}
					xy, err := rd.U8()
					if err != nil {
						return wrapf(KindRead, err, "hextile: failed to read sub-rect %d xy", i)
					}
					wh, err := rd.U8()
					if err != nil {
						return wrapf(KindRead, err, "hextile: failed to read sub-rect %d wh", i)
					}
					subX := uint16(xy>>4) & 0x0F
					subY := uint16(xy) & 0x0F
					subW := uint16(wh>>4&0x0F) + 1
					subH := uint16(wh&0x0F) + 1
					fillSubrect(fb, x+subX, y+subY, subW, subH, color)
				}
			}
		}
	}
	d.mark()
	return nil
}
