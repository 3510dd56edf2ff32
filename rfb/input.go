package rfb

// InputEvent is one local input occurrence the input forwarder
// translates into a KeyEvent or PointerEvent message. Exactly one of the
// Key* or Pointer* fields is meaningful, selected by Kind.
type InputEventKind int

const (
	InputKeyEvent InputEventKind = iota
	InputPointerEvent
)

type InputEvent struct {
	Kind InputEventKind

	// Valid when Kind == InputKeyEvent. Keysym is already in the X11
	// keysym space; translating a local scancode table into that space
	// is the caller's job.
	KeyDown   bool
	KeySym    uint32

	// Valid when Kind == InputPointerEvent.
	ButtonMask uint8
	X, Y       uint16
}

// InputSource is the injected UI event feed. WaitForEvent blocks until
// an event is available or the source is closed (ok == false).
type InputSource interface {
	WaitForEvent() (event InputEvent, ok bool)
}

// InputForwarder drains an InputSource and writes the corresponding
// KeyEvent/PointerEvent messages to the session under the transport's
// send lock. It runs in its own execution context, distinct from the
// session's network context.
type InputForwarder struct {
	session *RfbSession
	source  InputSource
}

func NewInputForwarder(session *RfbSession, source InputSource) *InputForwarder {
	return &InputForwarder{session: session, source: source}
}

// Run drains events until the source closes (WaitForEvent returns
// ok == false), quit is closed (checked before each WaitForEvent), or a
// Send fails, whose error it returns. It never
// blocks on the network context: it only ever holds the send lock, never
// the receive side.
func (f *InputForwarder) Run(quit <-chan struct{}) error {
	for {
		select {
		case <-quit:
			return nil
		default:
		}

		event, ok := f.source.WaitForEvent()
		if !ok {
			return nil
		}

		var msg ClientMessage
		switch event.Kind {
		case InputKeyEvent:
			msg = KeyEventMsg{Down: event.KeyDown, Keysym: event.KeySym}
		case InputPointerEvent:
			msg = PointerEventMsg{ButtonMask: event.ButtonMask, X: event.X, Y: event.Y}
		default:
			continue
		}
		if err := f.session.Send(msg); err != nil {
			return err
		}
	}
}
