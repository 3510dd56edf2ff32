package main

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/glog"
	"github.com/quailfeather/rfbclient/rfb"
)

// pngFramebuffer is the demonstration Framebuffer this CLI wires into the
// session in place of a real GUI toolkit. It keeps an image.RGBA in
// memory and rewrites snapshotDir/framebuffer.png on every EndDrawing,
// i.e. after each decoded rectangle, which is enough to see the remote
// desktop without a window system.
//
// The per-pixel byte -> color.RGBA conversion below extracts channels via
// mask/shift, working directly off the raw bpp-sized byte slices the
// rfb.Framebuffer contract hands over — that package never parses pixels
// into a color type itself, decoders forward raw bytes.
type pngFramebuffer struct {
	mu  sync.Mutex
	img *image.RGBA

	format      rfb.PixelFormat
	snapshotDir string
}

func newPNGFramebuffer(width, height int, format rfb.PixelFormat, snapshotDir string) *pngFramebuffer {
	return &pngFramebuffer{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		format:      format,
		snapshotDir: snapshotDir,
	}
}

func (f *pngFramebuffer) PixelFormat() rfb.PixelFormat { return f.format }

func (f *pngFramebuffer) BeginDrawing() { f.mu.Lock() }

func (f *pngFramebuffer) EndDrawing(rect rfb.ScreenRect) {
	f.mu.Unlock()
	if f.snapshotDir != "" {
		if err := f.writeSnapshot(); err != nil {
			glog.Warningf("failed to write framebuffer snapshot: %v", err)
		}
	}
}

func (f *pngFramebuffer) WritePixels(x, y uint16, count int, pixels []byte) {
	bpp := int(f.format.BytesPerPixel)
	for i := 0; i < count; i++ {
		px := pixels[i*bpp : (i+1)*bpp]
		f.img.SetRGBA(int(x)+i, int(y), f.decodePixel(px))
	}
}

func (f *pngFramebuffer) WriteUniformPixels(x, y uint16, count int, pixel []byte) {
	rgba := f.decodePixel(pixel)
	for i := 0; i < count; i++ {
		f.img.SetRGBA(int(x)+i, int(y), rgba)
	}
}

// CopyPixels performs an intra-framebuffer copy, scanning top-to-bottom
// when the source is below the destination and bottom-to-top otherwise so
// overlapping regions copy correctly.
func (f *pngFramebuffer) CopyPixels(srcX, srcY, dstX, dstY, w, h uint16) {
	rows := make([]int, h)
	for i := range rows {
		rows[i] = i
	}
	if srcY <= dstY {
		// Destination below source: copy bottom-to-top so we don't
		// overwrite source rows before we've read them.
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	for _, row := range rows {
		for col := 0; col < int(w); col++ {
			c := f.img.RGBAAt(int(srcX)+col, int(srcY)+row)
			f.img.SetRGBA(int(dstX)+col, int(dstY)+row, c)
		}
	}
}

// decodePixel turns bpp raw bytes (in f.format) into an opaque color.RGBA
// by extracting each channel via its shift and max, true-color only.
func (f *pngFramebuffer) decodePixel(raw []byte) color.RGBA {
	var word uint32
	switch f.format.BytesPerPixel {
	case 1:
		word = uint32(raw[0])
	case 2:
		if f.format.BigEndian {
			word = uint32(binary.BigEndian.Uint16(raw))
		} else {
			word = uint32(binary.LittleEndian.Uint16(raw))
		}
	case 4:
		if f.format.BigEndian {
			word = binary.BigEndian.Uint32(raw)
		} else {
			word = binary.LittleEndian.Uint32(raw)
		}
	}
	r := scaleChannel((word>>f.format.RedShift)&uint32(f.format.RedMax), f.format.RedMax)
	g := scaleChannel((word>>f.format.GreenShift)&uint32(f.format.GreenMax), f.format.GreenMax)
	b := scaleChannel((word>>f.format.BlueShift)&uint32(f.format.BlueMax), f.format.BlueMax)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// scaleChannel rescales a value in [0, max] up to the [0, 255] range PNG
// output needs.
func scaleChannel(v uint32, max uint16) uint8 {
	if max == 0 {
		return 0
	}
	return uint8((v * 255) / uint32(max))
}

func (f *pngFramebuffer) writeSnapshot() error {
	f.mu.Lock()
	img := f.img
	f.mu.Unlock()

	if err := os.MkdirAll(f.snapshotDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(f.snapshotDir, "framebuffer.png")
	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
