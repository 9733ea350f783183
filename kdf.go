package soulcipher

import (
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"
)

// kdfInvocationCount counts the Argon2id derivations kdfCurrent runs
// (calls rejected for an empty passphrase or salt are not counted). Tests
// reset it to zero
// and assert it stays at zero when an envelope fails HMAC verification,
// confirming the early-fail-before-KDF ordering (spec §8 property 6).
// Single-threaded use only; no lock, matching this package's cooperative
// execution model.
var kdfInvocationCount int

// kdfCurrent derives a 32-byte key for the v4 format via Argon2id over
// (passphrase || seed) with the given random salt. The embedded seed
// binds the derived key to this build; legacy callers never take this
// path.
func (c *Config) kdfCurrent(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}

	input := make([]byte, 0, len(passphrase)+seedSize)
	input = append(input, passphrase...)
	input = append(input, c.seed[:]...)
	defer wipe(input)

	kdfInvocationCount++
	params := c.Argon2
	if params == (Argon2Params{}) {
		params = DefaultArgon2Params()
	}
	key := argon2.IDKey(input, salt, params.Iterations, params.Memory, params.Parallelism, keySize)
	return key, nil
}

// kdfLegacy derives a 32-byte key via scrypt over the raw passphrase and
// an ASCII salt string, matching the wire format produced by prior tool
// versions. The embedded seed is never mixed in here — that would change
// the legacy ciphertext this function must still be able to read.
func (c *Config) kdfLegacy(passphrase, salt string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if salt == "" {
		return nil, ErrEmptySalt
	}

	p := c.Scrypt
	key, err := scrypt.Key([]byte(passphrase), []byte(salt), 1<<uint(p.LogN), p.R, p.P, keySize)
	if err != nil {
		return nil, newKdfError("scrypt", "key derivation failed", err)
	}
	return key, nil
}
