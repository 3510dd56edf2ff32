// Package encodings provides the wire identifiers for the RFB rectangle
// encodings this client speaks: the six core encodings plus a ZRLE stub.
// No Tight, TRLE, Hitachi, or pseudo-encodings; screen resize, cursor
// shape, and desktop renaming are out of scope.
package encodings

// ID is a known VNC rectangle encoding type.
type ID int32

const (
	Raw      ID = 0
	CopyRect ID = 1
	RRE      ID = 2
	CoRRE    ID = 4
	Hextile  ID = 5
	Zlib     ID = 6
	ZRLE     ID = 16
)

// names maps each ID to its RFC-style short name, matching the Name()
// method every Decoder in package rfb exposes for -d.
var names = map[ID]string{
	Raw:      "raw",
	CopyRect: "copyrect",
	RRE:      "rre",
	CoRRE:    "corre",
	Hextile:  "hextile",
	Zlib:     "zlib",
	ZRLE:     "zrle",
}

// String implements fmt.Stringer for diagnostic output.
func (id ID) String() string {
	if n, ok := names[id]; ok {
		return n
	}
	return "unknown"
}
