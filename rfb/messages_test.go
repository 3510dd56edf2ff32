package rfb

import "testing"

func TestSetPixelFormatMsgRoundTrip(t *testing.T) {
	pf := PixelFormat{
		BytesPerPixel: 4,
		Depth:         24,
		BigEndian:     true,
		TrueColor:     true,
		RedMax:        255,
		GreenMax:      255,
		BlueMax:       255,
		RedShift:      16,
		GreenShift:    8,
		BlueShift:     0,
	}

	mt := newMemTransport(nil)
	wr := NewBigEndianWriter(mt)
	if err := (SetPixelFormatMsg{Format: pf}).Send(wr); err != nil {
		t.Fatalf("Send: %v", err)
	}

	rd := NewBigEndianReader(newMemTransport(mt.Outbound()))
	msgType, err := rd.U8()
	if err != nil || msgType != msgTypeSetPixelFormat {
		t.Fatalf("msgType = %d, %v; want %d, nil", msgType, err, msgTypeSetPixelFormat)
	}
	if _, err := rd.Bytes(3); err != nil { // padding
		t.Fatalf("padding: %v", err)
	}
	bpp, _ := rd.U8()
	depth, _ := rd.U8()
	bigEndian, _ := rd.U8()
	trueColor, _ := rd.U8()
	redMax, _ := rd.U16()
	greenMax, _ := rd.U16()
	blueMax, _ := rd.U16()
	redShift, _ := rd.U8()
	greenShift, _ := rd.U8()
	blueShift, _ := rd.U8()

	if bpp != pf.BytesPerPixel*8 {
		t.Errorf("bpp = %d, want %d", bpp, pf.BytesPerPixel*8)
	}
	if depth != pf.Depth {
		t.Errorf("depth = %d, want %d", depth, pf.Depth)
	}
	if (bigEndian != 0) != pf.BigEndian {
		t.Errorf("bigEndian = %d, want %v", bigEndian, pf.BigEndian)
	}
	if (trueColor != 0) != pf.TrueColor {
		t.Errorf("trueColor = %d, want %v", trueColor, pf.TrueColor)
	}
	if redMax != pf.RedMax || greenMax != pf.GreenMax || blueMax != pf.BlueMax {
		t.Errorf("max = (%d,%d,%d), want (%d,%d,%d)", redMax, greenMax, blueMax, pf.RedMax, pf.GreenMax, pf.BlueMax)
	}
	if redShift != pf.RedShift || greenShift != pf.GreenShift || blueShift != pf.BlueShift {
		t.Errorf("shift = (%d,%d,%d), want (%d,%d,%d)", redShift, greenShift, blueShift, pf.RedShift, pf.GreenShift, pf.BlueShift)
	}
}

func TestSetEncodingsMsgRoundTrip(t *testing.T) {
	encs := []EncodingID{EncodingHextile, EncodingCoRRE, EncodingRaw}

	mt := newMemTransport(nil)
	wr := NewBigEndianWriter(mt)
	if err := (SetEncodingsMsg{Encodings: encs}).Send(wr); err != nil {
		t.Fatalf("Send: %v", err)
	}

	rd := NewBigEndianReader(newMemTransport(mt.Outbound()))
	msgType, _ := rd.U8()
	if msgType != msgTypeSetEncodings {
		t.Fatalf("msgType = %d, want %d", msgType, msgTypeSetEncodings)
	}
	if _, err := rd.U8(); err != nil { // padding
		t.Fatalf("padding: %v", err)
	}
	count, _ := rd.U16()
	if int(count) != len(encs) {
		t.Fatalf("count = %d, want %d", count, len(encs))
	}
	for i, want := range encs {
		got, err := rd.U32()
		if err != nil {
			t.Fatalf("reading encoding %d: %v", i, err)
		}
		if EncodingID(int32(got)) != want {
			t.Errorf("encoding[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestFramebufferUpdateRequestMsgRoundTrip(t *testing.T) {
	msg := FramebufferUpdateRequestMsg{Incremental: true, Rect: ScreenRect{X: 1, Y: 2, W: 3, H: 4}}

	mt := newMemTransport(nil)
	wr := NewBigEndianWriter(mt)
	if err := msg.Send(wr); err != nil {
		t.Fatalf("Send: %v", err)
	}

	rd := NewBigEndianReader(newMemTransport(mt.Outbound()))
	msgType, _ := rd.U8()
	incremental, _ := rd.U8()
	x, _ := rd.U16()
	y, _ := rd.U16()
	w, _ := rd.U16()
	h, _ := rd.U16()

	if msgType != msgTypeFBUpdateReq {
		t.Errorf("msgType = %d, want %d", msgType, msgTypeFBUpdateReq)
	}
	if (incremental != 0) != msg.Incremental {
		t.Errorf("incremental = %d, want %v", incremental, msg.Incremental)
	}
	if x != msg.Rect.X || y != msg.Rect.Y || w != msg.Rect.W || h != msg.Rect.H {
		t.Errorf("rect = (%d,%d,%d,%d), want %+v", x, y, w, h, msg.Rect)
	}
}

func TestKeyEventMsgIdempotentRepeat(t *testing.T) {
	msg := KeyEventMsg{Down: true, Keysym: 0x61}

	mt := newMemTransport(nil)
	wr := NewBigEndianWriter(mt)
	if err := msg.Send(wr); err != nil {
		t.Fatalf("Send 1: %v", err)
	}
	if err := msg.Send(wr); err != nil {
		t.Fatalf("Send 2: %v", err)
	}

	out := mt.Outbound()
	if len(out) != 16 {
		t.Fatalf("len(out) = %d, want 16 (two 8-byte messages)", len(out))
	}
	if string(out[:8]) != string(out[8:]) {
		t.Errorf("repeating KeyEventMsg.Send produced different bytes: %v vs %v", out[:8], out[8:])
	}

	rd := NewBigEndianReader(newMemTransport(out[:8]))
	msgType, _ := rd.U8()
	down, _ := rd.U8()
	if _, err := rd.U16(); err != nil { // padding
		t.Fatalf("padding: %v", err)
	}
	keysym, _ := rd.U32()

	if msgType != msgTypeKeyEvent {
		t.Errorf("msgType = %d, want %d", msgType, msgTypeKeyEvent)
	}
	if (down != 0) != msg.Down {
		t.Errorf("down = %d, want %v", down, msg.Down)
	}
	if keysym != msg.Keysym {
		t.Errorf("keysym = %d, want %d", keysym, msg.Keysym)
	}
}

func TestPointerEventMsgRoundTrip(t *testing.T) {
	msg := PointerEventMsg{ButtonMask: 0x05, X: 100, Y: 200}

	mt := newMemTransport(nil)
	wr := NewBigEndianWriter(mt)
	if err := msg.Send(wr); err != nil {
		t.Fatalf("Send: %v", err)
	}

	rd := NewBigEndianReader(newMemTransport(mt.Outbound()))
	msgType, _ := rd.U8()
	mask, _ := rd.U8()
	x, _ := rd.U16()
	y, _ := rd.U16()

	if msgType != msgTypePointerEvent {
		t.Errorf("msgType = %d, want %d", msgType, msgTypePointerEvent)
	}
	if mask != msg.ButtonMask || x != msg.X || y != msg.Y {
		t.Errorf("got (%d,%d,%d), want (%d,%d,%d)", mask, x, y, msg.ButtonMask, msg.X, msg.Y)
	}
}
