package rfb

// Client-to-server message type bytes, per RFC 6143 §7.5.
const (
	msgTypeSetPixelFormat = 0
	msgTypeSetEncodings   = 2
	msgTypeFBUpdateReq    = 3
	msgTypeKeyEvent       = 4
	msgTypePointerEvent   = 5
)

// Server-to-client message type bytes, per RFC 6143 §7.6.
const (
	smsgFramebufferUpdate  = 0
	smsgSetColorMapEntries = 1
	smsgBell               = 2
	smsgServerCutText      = 3
)

// ClientMessage is a message the input forwarder or the session writes to
// the server. Send is always called with the transport's send lock held.
type ClientMessage interface {
	Send(w *BigEndianWriter) error
}

// SetPixelFormatMsg (type 0) tells the server which pixel format to send
// future FramebufferUpdate rectangles in.
type SetPixelFormatMsg struct {
	Format PixelFormat
}

func (m SetPixelFormatMsg) Send(w *BigEndianWriter) error {
	if err := w.U8(msgTypeSetPixelFormat); err != nil {
		return err
	}
	if err := w.Bytes([]byte{0, 0, 0}); err != nil { // 3 bytes padding
		return err
	}
	pf := m.Format
	if err := w.U8(pf.BytesPerPixel * 8); err != nil {
		return err
	}
	if err := w.U8(pf.Depth); err != nil {
		return err
	}
	if err := w.U8(boolToByte(pf.BigEndian)); err != nil {
		return err
	}
	if err := w.U8(boolToByte(pf.TrueColor)); err != nil {
		return err
	}
	if err := w.U16(pf.RedMax); err != nil {
		return err
	}
	if err := w.U16(pf.GreenMax); err != nil {
		return err
	}
	if err := w.U16(pf.BlueMax); err != nil {
		return err
	}
	if err := w.U8(pf.RedShift); err != nil {
		return err
	}
	if err := w.U8(pf.GreenShift); err != nil {
		return err
	}
	if err := w.U8(pf.BlueShift); err != nil {
		return err
	}
	return w.Bytes([]byte{0, 0, 0}) // 3 bytes padding
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// SetEncodingsMsg (type 2) advertises the encodings the client can decode,
// in preference order.
type SetEncodingsMsg struct {
	Encodings []EncodingID
}

func (m SetEncodingsMsg) Send(w *BigEndianWriter) error {
	if err := w.U8(msgTypeSetEncodings); err != nil {
		return err
	}
	if err := w.U8(0); err != nil { // padding
		return err
	}
	if err := w.U16(uint16(len(m.Encodings))); err != nil {
		return err
	}
	for _, e := range m.Encodings {
		if err := w.U32(uint32(e)); err != nil {
			return err
		}
	}
	return nil
}

// FramebufferUpdateRequestMsg (type 3) asks the server for a region of
// the desktop, either as a full refresh (Incremental=false) or as a diff
// against whatever the client already has.
type FramebufferUpdateRequestMsg struct {
	Incremental bool
	Rect        ScreenRect
}

func (m FramebufferUpdateRequestMsg) Send(w *BigEndianWriter) error {
	if err := w.U8(msgTypeFBUpdateReq); err != nil {
		return err
	}
	if err := w.U8(boolToByte(m.Incremental)); err != nil {
		return err
	}
	if err := w.U16(m.Rect.X); err != nil {
		return err
	}
	if err := w.U16(m.Rect.Y); err != nil {
		return err
	}
	if err := w.U16(m.Rect.W); err != nil {
		return err
	}
	return w.U16(m.Rect.H)
}

// KeyEventMsg (type 4) forwards a keyboard press or release. Keysym is in
// the X11 keysym space (RFC 6143 §7.5.4); translating a local scancode
// table into that space is left to the caller.
type KeyEventMsg struct {
	Down   bool
	Keysym uint32
}

func (m KeyEventMsg) Send(w *BigEndianWriter) error {
	if err := w.U8(msgTypeKeyEvent); err != nil {
		return err
	}
	if err := w.U8(boolToByte(m.Down)); err != nil {
		return err
	}
	if err := w.U16(0); err != nil { // padding
		return err
	}
	return w.U32(m.Keysym)
}

// PointerEventMsg (type 5) forwards the pointer's button mask and
// position.
type PointerEventMsg struct {
	ButtonMask uint8
	X, Y       uint16
}

func (m PointerEventMsg) Send(w *BigEndianWriter) error {
	if err := w.U8(msgTypePointerEvent); err != nil {
		return err
	}
	if err := w.U8(m.ButtonMask); err != nil {
		return err
	}
	if err := w.U16(m.X); err != nil {
		return err
	}
	return w.U16(m.Y)
}
