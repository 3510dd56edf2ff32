package main

import "crypto/des"

// mirrorByte reverses the bit order of a single byte. RFB's VNC
// Authentication bit-mirrors each DES key byte before keying, a quirk of
// the original implementation's key-schedule convention that every
// interoperable client must reproduce.
func mirrorByte(b byte) byte {
	var out byte
	for i := 0; i < 8; i++ {
		out <<= 1
		out |= b & 1
		b >>= 1
	}
	return out
}

// vncDes is the concrete rfb.DesBlockCipher wired into the CLI, built on
// stdlib crypto/des with the key bit-mirror VNC Authentication requires.
func vncDes(key, block [8]byte) [8]byte {
	var mirrored [8]byte
	for i, b := range key {
		mirrored[i] = mirrorByte(b)
	}

	cipher, err := des.NewCipher(mirrored[:])
	if err != nil {
		// mirrored is always exactly 8 bytes, so NewCipher cannot
		// fail on key length; any other failure means crypto/des
		// itself is broken, which this client cannot recover from.
		panic("rfbclient: des.NewCipher failed on an 8-byte key: " + err.Error())
	}

	var out [8]byte
	cipher.Encrypt(out[:], block[:])
	return out
}
