package rfb

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/quailfeather/rfbclient/rfb/diag"
)

// SessionState is the connection lifecycle defined by RFC 6143 §7: version
// and security handshake, initialization, then normal protocol
// interaction. It advances strictly forward; there is no backward
// transition.
type SessionState int

const (
	StateGreeting SessionState = iota
	StateAuthenticating
	StateInitializing
	StateRunning
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateGreeting:
		return "Greeting"
	case StateAuthenticating:
		return "Authenticating"
	case StateInitializing:
		return "Initializing"
	case StateRunning:
		return "Running"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// ClientConfig configures a session before Connect performs the
// handshake. After it is passed to Connect it must not be modified.
type ClientConfig struct {
	// Password for VNC/DES authentication. Ignored if the server offers
	// AuthNone.
	Password string

	// Des is the injected DES primitive used for RFC 6143 §7.2.2 VNC
	// Authentication. Required only if the server ends up requesting
	// VNC/DES auth; Connect fails with KindUnknownAuth-adjacent behavior
	// only if it's nil AND needed.
	Des DesBlockCipher

	// Exclusive requests exclusive access; false (shared) is the
	// default RFB clients use.
	Exclusive bool

	// Decoders to register. Defaults to DefaultDecoders(StdlibInflater{})
	// if nil.
	Decoders []Decoder

	// OnBell is invoked when the server sends a Bell message (RFC 6143
	// §7.6.3). It is the only observable side-effect of Bell; nil is a
	// valid no-op.
	OnBell func()

	// Diag optionally receives Prometheus-backed counters (bytes, bells,
	// rectangles by encoding). Nil disables all of them; each decoder's
	// own Processed() count is kept regardless.
	Diag *diag.Collectors
}

// RfbSession is the connection state machine. It exclusively owns the
// ByteTransport, the DecoderRegistry, the PixelFormat, and the session
// state; a Framebuffer is merely referenced, since its lifetime is owned
// by the application embedder.
type RfbSession struct {
	transport ByteTransport
	rd        *BigEndianReader
	wr        *BigEndianWriter

	registry *DecoderRegistry
	cfg      *ClientConfig

	state SessionState

	serverFormat PixelFormat
	format       PixelFormat
	fbWidth      uint16
	fbHeight     uint16
	desktopName  string

	fb Framebuffer
}

// Connect drives the session through Greeting, Authenticating, and
// Initializing per RFC 6143 §7.1-7.3. It does not enter Running — that
// happens once the caller supplies a Framebuffer via SetFramebuffer.
func Connect(transport ByteTransport, cfg *ClientConfig) (*RfbSession, error) {
	if cfg == nil {
		cfg = &ClientConfig{}
	}
	decoders := cfg.Decoders
	if decoders == nil {
		decoders = DefaultDecoders(StdlibInflater{})
	}
	if cfg.Diag != nil {
		transport = &countingTransport{ByteTransport: transport, diag: cfg.Diag}
	}

	s := &RfbSession{
		transport: transport,
		rd:        NewBigEndianReader(transport),
		wr:        NewBigEndianWriter(transport),
		registry:  NewDecoderRegistry(decoders...),
		cfg:       cfg,
		state:     StateGreeting,
	}

	if err := s.greeting(); err != nil {
		return nil, err
	}
	s.state = StateAuthenticating
	if err := s.authenticate(); err != nil {
		return nil, err
	}
	s.state = StateInitializing
	if err := s.initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

// State returns the session's current lifecycle state.
func (s *RfbSession) State() SessionState { return s.state }

// DesktopName is the name the server reported during ServerInit.
func (s *RfbSession) DesktopName() string { return s.desktopName }

// FramebufferSize is the desktop size the server reported during
// ServerInit. It never changes after the handshake (screen resize is a
// non-goal).
func (s *RfbSession) FramebufferSize() (width, height uint16) { return s.fbWidth, s.fbHeight }

// Registry exposes the decoder registry so a CLI can apply -d before
// calling SetFramebuffer.
func (s *RfbSession) Registry() *DecoderRegistry { return s.registry }

func (s *RfbSession) greeting() error {
	var buf [12]byte
	if err := s.transport.RecvExact(buf[:]); err != nil {
		return err
	}
	var major, minor int
	if _, err := fmt.Sscanf(string(buf[:]), "RFB %03d.%03d\n", &major, &minor); err != nil {
		return errKind(KindNotRFB, "server greeting %q is not a valid RFB version string", buf[:])
	}
	if major != 3 {
		return errKind(KindBadVersion, "unsupported major version %d", major)
	}
	if minor < 0 {
		return errKind(KindBadVersion, "invalid minor version %d", minor)
	}
	glog.V(1).Infof("server offered RFB %03d.%03d, pinning to 003.003", major, minor)

	// Always reply 003.003 regardless of the server's minor — this
	// client only implements RFB 3.3 semantics.
	reply := []byte("RFB 003.003\n")
	return s.transport.Send(reply)
}

func (s *RfbSession) authenticate() error {
	scheme, err := s.rd.U32()
	if err != nil {
		return err
	}
	switch AuthScheme(scheme) {
	case AuthInvalid:
		reason, err := s.rd.StringU32Prefixed(DefaultStringLimit)
		if err != nil {
			return err
		}
		return errKind(KindAuthRejected, "%s", reason)
	case AuthNone:
		glog.V(1).Info("server requires no authentication")
		return nil
	case AuthVNC:
		return s.authenticateVNC()
	default:
		return errKind(KindUnknownAuth, "unrecognized security scheme %d", scheme)
	}
}

func (s *RfbSession) authenticateVNC() error {
	if s.cfg.Des == nil {
		return errKind(KindUnknownAuth, "server requires VNC/DES authentication but no Des cipher was configured")
	}
	challengeBytes, err := s.rd.Bytes(16)
	if err != nil {
		return err
	}
	var challenge [16]byte
	copy(challenge[:], challengeBytes)

	response := vncChallengeResponse(s.cfg.Des, challenge, s.cfg.Password)
	if err := s.transport.Send(response[:]); err != nil {
		return err
	}

	result, err := s.rd.U32()
	if err != nil {
		return err
	}
	switch AuthResult(result) {
	case AuthResultOK:
		glog.V(1).Info("VNC authentication succeeded")
		return nil
	case AuthResultFailed:
		return errKind(KindAuthFailed, "server rejected VNC authentication")
	case AuthResultTooMany:
		return errKind(KindAuthTooMany, "too many failed authentication attempts")
	default:
		return errKind(KindAuthFailed, "unrecognized authentication result %d", result)
	}
}

func (s *RfbSession) initialize() error {
	sharedFlag := uint8(1)
	if s.cfg.Exclusive {
		sharedFlag = 0
	}
	if err := s.transport.Send([]byte{sharedFlag}); err != nil {
		return err
	}

	width, err := s.rd.U16()
	if err != nil {
		return err
	}
	height, err := s.rd.U16()
	if err != nil {
		return err
	}
	bpp, err := s.rd.U8()
	if err != nil {
		return err
	}
	depth, err := s.rd.U8()
	if err != nil {
		return err
	}
	bigEndianFlag, err := s.rd.U8()
	if err != nil {
		return err
	}
	trueColorFlag, err := s.rd.U8()
	if err != nil {
		return err
	}
	redMax, err := s.rd.U16()
	if err != nil {
		return err
	}
	greenMax, err := s.rd.U16()
	if err != nil {
		return err
	}
	blueMax, err := s.rd.U16()
	if err != nil {
		return err
	}
	redShift, err := s.rd.U8()
	if err != nil {
		return err
	}
	greenShift, err := s.rd.U8()
	if err != nil {
		return err
	}
	blueShift, err := s.rd.U8()
	if err != nil {
		return err
	}
	if _, err := s.rd.Bytes(3); err != nil { // padding
		return err
	}
	name, err := s.rd.StringU32Prefixed(DefaultStringLimit)
	if err != nil {
		return err
	}

	s.fbWidth, s.fbHeight = width, height
	s.desktopName = name
	s.serverFormat = PixelFormat{
		BytesPerPixel: bpp / 8,
		Depth:         depth,
		BigEndian:     bigEndianFlag != 0,
		TrueColor:     trueColorFlag != 0,
		RedMax:        redMax,
		GreenMax:      greenMax,
		BlueMax:       blueMax,
		RedShift:      redShift,
		GreenShift:    greenShift,
		BlueShift:     blueShift,
	}
	glog.V(1).Infof("server init: %dx%d %q, native format %+v", width, height, name, s.serverFormat)
	return nil
}

// SetFramebuffer adopts fb's preferred pixel format (arbitrated against
// the server's native format), sends SetPixelFormat, advertises the
// registered decoders via SetEncodings, requests a non-incremental
// full-desktop update, and transitions the session to Running.
func (s *RfbSession) SetFramebuffer(fb Framebuffer) error {
	s.fb = fb
	s.format = ArbitrateFormat(s.serverFormat, fb.PixelFormat())

	s.transport.BeginSend()
	err := func() error {
		if err := (SetPixelFormatMsg{Format: s.format}).Send(s.wr); err != nil {
			return err
		}
		if err := (SetEncodingsMsg{Encodings: s.registry.PreferenceOrder()}).Send(s.wr); err != nil {
			return err
		}
		return (FramebufferUpdateRequestMsg{
			Incremental: false,
			Rect:        ScreenRect{X: 0, Y: 0, W: s.fbWidth, H: s.fbHeight},
		}).Send(s.wr)
	}()
	s.transport.EndSend()
	if err != nil {
		return err
	}

	s.state = StateRunning
	return nil
}

// Send writes a ClientMessage to the server under the transport's send
// lock, for use by the input forwarder and any embedder-driven request
// outside the normal Update loop.
func (s *RfbSession) Send(msg ClientMessage) error {
	s.transport.BeginSend()
	defer s.transport.EndSend()
	return msg.Send(s.wr)
}

// Run loops calling Update with a 100ms readable-wait until ctx is
// cancelled or a fatal error occurs, matching the reference client's
// "while (!quit) rfb.Update(100)" network thread.
func (s *RfbSession) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := s.Update(100 * time.Millisecond); err != nil {
			return err
		}
	}
}

// Update performs one tick of the dispatch loop: it waits up to timeout
// for data, and if any arrived, reads and dispatches exactly one server
// message (RFC 6143 §7.6).
func (s *RfbSession) Update(timeout time.Duration) error {
	readable, err := s.transport.WaitReadable(timeout)
	if err != nil {
		return err
	}
	if !readable {
		return nil
	}

	msgType, err := s.rd.U8()
	if err != nil {
		return err
	}

	switch msgType {
	case smsgFramebufferUpdate:
		return s.handleFramebufferUpdate()
	case smsgSetColorMapEntries:
		return errKind(KindUnsupportedFeature, "SetColorMapEntries: this client only negotiates true-color")
	case smsgBell:
		glog.V(2).Info("bell")
		if s.cfg.Diag != nil {
			s.cfg.Diag.Bells.Inc()
		}
		if s.cfg.OnBell != nil {
			s.cfg.OnBell()
		}
		return nil
	case smsgServerCutText:
		return s.handleServerCutText()
	default:
		return errKind(KindUnknownMessage, "unrecognized server message type %d", msgType)
	}
}

func (s *RfbSession) handleFramebufferUpdate() error {
	if _, err := s.rd.U8(); err != nil { // padding
		return err
	}
	numRects, err := s.rd.U16()
	if err != nil {
		return err
	}

	// Each rectangle gets its own matched Begin/End pair: a single Begin
	// before the loop paired with N Ends inside it would unbalance any
	// Framebuffer that treats them as a lock.
	for i := uint16(0); i < numRects; i++ {
		x, err := s.rd.U16()
		if err != nil {
			return err
		}
		y, err := s.rd.U16()
		if err != nil {
			return err
		}
		w, err := s.rd.U16()
		if err != nil {
			return err
		}
		h, err := s.rd.U16()
		if err != nil {
			return err
		}
		encodingID, err := s.rd.U32()
		if err != nil {
			return err
		}
		rect := ScreenRect{X: x, Y: y, W: w, H: h}

		s.fb.BeginDrawing()

		decoder, ok := s.registry.Lookup(EncodingID(int32(encodingID)))
		if !ok {
			s.fb.EndDrawing(rect)
			return errKind(KindMissingDecoder, "server sent unadvertised encoding %d for rect %+v", encodingID, rect)
		}
		if err := decoder.Decode(s.rd, rect, s.fb); err != nil {
			s.fb.EndDrawing(rect)
			return err
		}
		if s.cfg.Diag != nil {
			s.cfg.Diag.Decoded.WithLabelValues(decoder.Name()).Inc()
		}
		s.fb.EndDrawing(rect)
	}

	return s.Send(FramebufferUpdateRequestMsg{
		Incremental: true,
		Rect:        ScreenRect{X: 0, Y: 0, W: s.fbWidth, H: s.fbHeight},
	})
}

func (s *RfbSession) handleServerCutText() error {
	if _, err := s.rd.Bytes(3); err != nil { // padding
		return err
	}
	length, err := s.rd.U32()
	if err != nil {
		return err
	}
	if _, err := s.rd.Bytes(int(length)); err != nil {
		return err
	}
	glog.V(2).Infof("discarded %d bytes of server cut text", length)
	return nil
}

// Close releases the underlying transport and marks the session Closed.
func (s *RfbSession) Close() error {
	s.state = StateClosed
	return s.transport.Close()
}
