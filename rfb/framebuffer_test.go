package rfb

import "sync"

// writeCall records one WritePixels/WriteUniformPixels invocation for
// assertions.
type writeCall struct {
	x, y  uint16
	count int
	pixel []byte
	kind  string // "row" or "uniform"
}

type copyCall struct {
	srcX, srcY, dstX, dstY, w, h uint16
}

// fakeFramebuffer is an in-memory Framebuffer implementation for tests,
// recording every call instead of rendering anything. Like the shipped
// pngFramebuffer, BeginDrawing/EndDrawing bracket a real mutex, so an
// unmatched Begin/End pair panics here exactly as it would in production.
type fakeFramebuffer struct {
	mu     sync.Mutex
	format PixelFormat

	writes []writeCall
	copies []copyCall

	beginCount int
	endCalls   []ScreenRect
}

func newFakeFramebuffer(format PixelFormat) *fakeFramebuffer {
	return &fakeFramebuffer{format: format}
}

func (f *fakeFramebuffer) PixelFormat() PixelFormat { return f.format }

func (f *fakeFramebuffer) BeginDrawing() {
	f.mu.Lock()
	f.beginCount++
}

func (f *fakeFramebuffer) EndDrawing(rect ScreenRect) {
	f.endCalls = append(f.endCalls, rect)
	f.mu.Unlock()
}

func (f *fakeFramebuffer) WritePixels(x, y uint16, count int, pixels []byte) {
	cp := append([]byte(nil), pixels...)
	f.writes = append(f.writes, writeCall{x: x, y: y, count: count, pixel: cp, kind: "row"})
}

func (f *fakeFramebuffer) WriteUniformPixels(x, y uint16, count int, pixel []byte) {
	cp := append([]byte(nil), pixel...)
	f.writes = append(f.writes, writeCall{x: x, y: y, count: count, pixel: cp, kind: "uniform"})
}

func (f *fakeFramebuffer) CopyPixels(srcX, srcY, dstX, dstY, w, h uint16) {
	f.copies = append(f.copies, copyCall{srcX, srcY, dstX, dstY, w, h})
}
