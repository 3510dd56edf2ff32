package rfb

// ZlibDecoder implements the Zlib encoding: a zlib-compressed run of Raw
// pixel data. The zlib stream is session-lifetime for this decoder
// instance (its dictionary carries across every ZlibRaw rectangle of the
// session, but is not shared with any other decoder).
//
// See RFC 6143 §7.7 note and https://tools.ietf.org/html/rfc6143#section-7.7.6
// for the sibling ZRLE format this is a simpler cousin of.
type ZlibDecoder struct {
	processedCounter
	stream *ZlibInflateStream
}

// NewZlibDecoder builds a ZlibDecoder with its own persistent inflate
// stream, backed by inflater (nil defaults to StdlibInflater{}).
func NewZlibDecoder(inflater ZlibInflater) *ZlibDecoder {
	return &ZlibDecoder{stream: NewZlibInflateStream(inflater)}
}

func (*ZlibDecoder) EncodingID() EncodingID { return EncodingZlib }
func (*ZlibDecoder) Name() string           { return "zlib" }
func (*ZlibDecoder) Description() string    { return "zlib-compressed raw pixel data" }

func (d *ZlibDecoder) Decode(rd *BigEndianReader, rect ScreenRect, fb Framebuffer) error {
	bpp := int(fb.PixelFormat().BytesPerPixel)

	compressedLen, err := rd.U32()
	if err != nil {
		return wrapf(KindRead, err, "zlib: failed to read compressed length")
	}
	compressed, err := rd.Bytes(int(compressedLen))
	if err != nil {
		return wrapf(KindRead, err, "zlib: failed to read %d compressed bytes", compressedLen)
	}
	if err := d.stream.SetStream(compressed); err != nil {
		return err
	}

	inflated := NewCompressedReader(d.stream)
	rowBytes := int(rect.W) * bpp
	for row := uint16(0); row < rect.H; row++ {
		pixels, err := inflated.Bytes(rowBytes)
		if err != nil {
			return wrapf(KindZlibDecompress, err, "zlib: failed to inflate row %d", row)
		}
		fb.WritePixels(rect.X, rect.Y+row, int(rect.W), pixels)
	}
	d.mark()
	return nil
}
