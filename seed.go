package soulcipher

// embeddedLiteral is the build-time literal the embedded seed is derived
// from. The transform below is not a security boundary — it only keeps
// the literal from showing up verbatim in a `strings` dump of the binary.
var embeddedLiteral = [seedSize]byte{
	'V', '1', '0', 'l', '3', 't', '-', 'C',
	'1', 'p', 'h', '3', 'r', '-', 'S', '3',
	'3', 'd', '-', '2', '0', '2', '6', '-',
	'K', 'l', '4', 'u', 'd', '1', 'a', '!',
}

// embeddedSeed recovers the 32-byte seed S from the embedded literal by
// computing S[i] = L[i] XOR ((i*0x5A + 0x3C) mod 256). S is used as the
// HMAC key for the v4 envelope tag and is appended to the passphrase on
// every current-KDF call, binding ciphertexts to this build.
func embeddedSeed() [seedSize]byte {
	var s [seedSize]byte
	for i, b := range embeddedLiteral {
		s[i] = b ^ byte(i*0x5A+0x3C)
	}
	return s
}
