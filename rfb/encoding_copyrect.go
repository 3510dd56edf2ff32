package rfb

// CopyRectDecoder implements the CopyRect encoding: instead of pixel
// data, the server sends the source coordinates of a region already
// present in the framebuffer. Overlap handling is delegated to the
// Framebuffer implementation.
//
// See RFC 6143 §7.7.2.
type CopyRectDecoder struct {
	processedCounter
}

func (*CopyRectDecoder) EncodingID() EncodingID { return EncodingCopyRect }
func (*CopyRectDecoder) Name() string           { return "copyrect" }
func (*CopyRectDecoder) Description() string    { return "fast copy within framebuffer" }

func (d *CopyRectDecoder) Decode(rd *BigEndianReader, rect ScreenRect, fb Framebuffer) error {
	srcX, err := rd.U16()
	if err != nil {
		return wrapf(KindRead, err, "copyrect: failed to read src_x")
	}
	srcY, err := rd.U16()
	if err != nil {
		return wrapf(KindRead, err, "copyrect: failed to read src_y")
	}
	fb.CopyPixels(srcX, srcY, rect.X, rect.Y, rect.W, rect.H)
	d.mark()
	return nil
}
