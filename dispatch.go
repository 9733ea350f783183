package soulcipher

import "unicode/utf8"

// AutoDecode tries each wire format this package understands, newest
// first, and returns the plaintext of whichever one both decrypts and
// (for the unauthenticated legacy formats) decodes as valid UTF-8.
//
// A v4 blob (leading byte 0x04) never falls through: if its HMAC or any
// layer's AEAD tag fails, that is terminal and reported directly, since a
// v4 failure means either a wrong passphrase or tampering — not "try an
// older format". Only blobs that aren't v4 attempt v3, then v2.
func (c *Config) AutoDecode(passphrase string, label SaltLabel, blob []byte) (string, error) {
	if len(blob) > 0 && blob[0] == byte(VersionV4) {
		plaintext, err := c.Decode(passphrase, label, blob)
		if err != nil {
			return "", err
		}
		return string(plaintext), nil
	}

	if plaintext, err := c.v3Decode(passphrase, label, blob); err == nil && utf8.Valid(plaintext) {
		return string(plaintext), nil
	}

	if plaintext, err := c.v2Decode(passphrase, blob); err == nil && utf8.Valid(plaintext) {
		return string(plaintext), nil
	}

	return "", newAuthError("blob did not decode under v4, v3, or v2", nil)
}
