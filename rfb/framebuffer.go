package rfb

// Framebuffer is the abstract pixel-write surface the decoders draw into.
// It is owned by the application embedder (the GUI layer); its lifetime
// must exceed the session's. The decoders call WritePixels,
// WriteUniformPixels and CopyPixels only between a matching
// BeginDrawing/EndDrawing pair. PixelFormat is also called outside one,
// by RfbSession.SetFramebuffer.
type Framebuffer interface {
	// BeginDrawing acquires exclusive write access to the backing store.
	BeginDrawing()

	// EndDrawing releases it and notifies the display that rect is dirty.
	EndDrawing(rect ScreenRect)

	// WritePixels copies a row of count pixels, encoded in the current
	// PixelFormat, into the store at (x, y).
	WritePixels(x, y uint16, count int, pixels []byte)

	// WriteUniformPixels fills a row of count pixels with one pixel
	// value (len(pixel) == PixelFormat().BytesPerPixel).
	WriteUniformPixels(x, y uint16, count int, pixel []byte)

	// CopyPixels performs an intra-framebuffer rectangle copy. The
	// implementation must handle overlapping source/destination
	// regions.
	CopyPixels(srcX, srcY, dstX, dstY, w, h uint16)

	// PixelFormat returns the format this framebuffer expects pixel
	// bytes to be encoded in — the arbitrated format once a session has
	// negotiated one, or the framebuffer's own preference beforehand.
	PixelFormat() PixelFormat
}
