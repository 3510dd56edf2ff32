// Package rfb implements the client half of RFB 3.3, the wire protocol
// VNC servers use to stream a remote desktop. It owns the connection
// lifecycle state machine, message framing, pixel-format arbitration, and
// the family of rectangle decoders (Raw, CopyRect, RRE, CoRRE, Hextile,
// Zlib). The session consumes the GUI toolkit, keyboard-scancode table,
// TCP sockets, DES primitive, and zlib inflate primitive only through
// narrow interfaces (ByteTransport, Framebuffer, InputSource,
// DesBlockCipher, ZlibInflater). The package implements no Framebuffer,
// InputSource or DES cipher; it does ship TCPTransport (a ByteTransport
// over net.Conn) and StdlibInflater (a ZlibInflater over compress/zlib).
package rfb
