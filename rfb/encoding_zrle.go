package rfb

// ZRLEDecoder is a stub: it reads and discards the encoded payload rather
// than implementing ZRLE's per-tile RLE sub-format (RFC 6143 §7.7.6). It
// is not registered by DefaultDecoders; an embedder that
// wants to advertise ZRLE anyway (e.g. because a specific server refuses
// to fall back) can register it explicitly, but it will silently drop
// every ZRLE rectangle's actual pixel content — the framebuffer region is
// never written.
type ZRLEDecoder struct {
	processedCounter
}

func (*ZRLEDecoder) EncodingID() EncodingID { return EncodingZRLE }
func (*ZRLEDecoder) Name() string           { return "zrle" }
func (*ZRLEDecoder) Description() string {
	return "zlib-compressed RLE pixel data (ZRLE) -- stub, payload discarded"
}

func (d *ZRLEDecoder) Decode(rd *BigEndianReader, rect ScreenRect, fb Framebuffer) error {
	length, err := rd.U32()
	if err != nil {
		return wrapf(KindRead, err, "zrle: failed to read data length")
	}
	if _, err := rd.Bytes(int(length)); err != nil {
		return wrapf(KindRead, err, "zrle: failed to read %d bytes of payload", length)
	}
	d.mark()
	return nil
}
