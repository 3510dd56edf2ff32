package rfb

// AuthScheme is the security type negotiated during the RFC 6143 §7.2
// security handshake.
type AuthScheme uint32

const (
	AuthInvalid AuthScheme = 0 // "Failed" when read as the server's chosen scheme
	AuthNone    AuthScheme = 1
	AuthVNC     AuthScheme = 2
)

// AuthResult is the server's post-challenge verdict for VNC/DES auth.
type AuthResult uint32

const (
	AuthResultOK      AuthResult = 0
	AuthResultFailed  AuthResult = 1
	AuthResultTooMany AuthResult = 2
)

// DesBlockCipher is the injected DES primitive behind RFC 6143 §7.2.2 VNC
// Authentication; this package does not implement DES itself. It
// encrypts one 8-byte block under an 8-byte key.
//
// This package derives the key from the password by right-padding with
// NUL bytes (truncating past 8 characters) and passes it through
// unmirrored. RFB's VNC Authentication mandates bit-mirroring each key
// byte before use in the DES key schedule; a DesBlockCipher targeting a
// real RFB server MUST perform that mirror itself — this package's
// contract only fixes the key-derivation and block chunking, not the DES
// key-schedule bit order.
type DesBlockCipher func(key, block [8]byte) [8]byte

// deriveDesKey right-pads password with NUL bytes to 8 bytes, truncating
// anything past the eighth character, per RFC 6143 §7.2.2.
func deriveDesKey(password string) [8]byte {
	var key [8]byte
	copy(key[:], password)
	return key
}

// vncChallengeResponse encrypts a 16-byte VNC auth challenge in two 8-byte
// blocks under the password-derived key. Deterministic in (challenge,
// password): same inputs always produce the same 16 bytes.
func vncChallengeResponse(des DesBlockCipher, challenge [16]byte, password string) [16]byte {
	key := deriveDesKey(password)
	var response [16]byte
	var block [8]byte

	copy(block[:], challenge[:8])
	encrypted := des(key, block)
	copy(response[:8], encrypted[:])

	copy(block[:], challenge[8:])
	encrypted = des(key, block)
	copy(response[8:], encrypted[:])

	return response
}
