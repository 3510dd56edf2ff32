package rfb

import "testing"

// xorDes is a deterministic stand-in DES primitive for tests: it XORs each
// block byte with the corresponding key byte. It is not cryptographically
// meaningful, only reproducible, which is all vncChallengeResponse's
// contract requires of its injected cipher.
func xorDes(key, block [8]byte) [8]byte {
	var out [8]byte
	for i := range out {
		out[i] = key[i] ^ block[i]
	}
	return out
}

func TestVncChallengeResponseDeterministic(t *testing.T) {
	var challenge [16]byte
	for i := range challenge {
		challenge[i] = byte(i)
	}

	r1 := vncChallengeResponse(xorDes, challenge, "hunter2")
	r2 := vncChallengeResponse(xorDes, challenge, "hunter2")
	if r1 != r2 {
		t.Errorf("vncChallengeResponse is not deterministic: %v vs %v", r1, r2)
	}

	r3 := vncChallengeResponse(xorDes, challenge, "different")
	if r1 == r3 {
		t.Errorf("different passwords produced the same response")
	}
}

func TestDeriveDesKeyPadsAndTruncates(t *testing.T) {
	short := deriveDesKey("ab")
	want := [8]byte{'a', 'b', 0, 0, 0, 0, 0, 0}
	if short != want {
		t.Errorf("deriveDesKey(short) = %v, want %v", short, want)
	}

	long := deriveDesKey("0123456789")
	wantLong := [8]byte{'0', '1', '2', '3', '4', '5', '6', '7'}
	if long != wantLong {
		t.Errorf("deriveDesKey(long) = %v, want %v (truncated to 8)", long, wantLong)
	}
}

func TestVncChallengeResponseUsesBothBlocks(t *testing.T) {
	var challenge [16]byte
	for i := range challenge {
		challenge[i] = byte(i + 1)
	}
	resp := vncChallengeResponse(xorDes, challenge, "pw")
	key := deriveDesKey("pw")

	var firstBlock, secondBlock [8]byte
	copy(firstBlock[:], challenge[:8])
	copy(secondBlock[:], challenge[8:])
	wantFirst := xorDes(key, firstBlock)
	wantSecond := xorDes(key, secondBlock)

	if [8]byte(resp[:8]) != wantFirst {
		t.Errorf("response[:8] = %v, want %v", resp[:8], wantFirst)
	}
	if [8]byte(resp[8:]) != wantSecond {
		t.Errorf("response[8:] = %v, want %v", resp[8:], wantSecond)
	}
}
