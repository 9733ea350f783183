package soulcipher

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
)

// layer is the {salt, nonce, ciphertext} record the design notes call
// for: every v4 layer serializes to salt || nonce || ciphertext+tag, and
// this type is the one place that knows the offset arithmetic.
type layer struct {
	salt   []byte // argonSaltSize bytes
	sealed []byte // nonce || ciphertext || tag, produced by seal()
}

// marshal returns salt || sealed — the plaintext a layer's parent AEAD
// protects (or, for the outer layer, the envelope body before the HMAC).
func (l layer) marshal() []byte {
	out := make([]byte, 0, len(l.salt)+len(l.sealed))
	out = append(out, l.salt...)
	out = append(out, l.sealed...)
	return out
}

// parseLayer splits payload into its leading salt and trailing sealed
// AEAD blob.
func parseLayer(payload []byte) (layer, error) {
	if len(payload) < argonSaltSize+gcmNonceSize+gcmTagSize {
		return layer{}, newMalformedError("layer payload shorter than salt+nonce+tag")
	}
	return layer{
		salt:   payload[:argonSaltSize],
		sealed: payload[argonSaltSize:],
	}, nil
}

func randomSalt() ([]byte, error) {
	salt := make([]byte, argonSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// v4MinLength is the minimum possible length of a v4 envelope: version
// byte + outer salt + an empty AEAD payload (nonce+tag only) + HMAC tag.
const v4MinLength = 1 + argonSaltSize + gcmNonceSize + gcmTagSize + hmacTagSize

// Encode produces a v4 envelope for plaintext under passphrase and the
// given salt label: three nested AEAD layers (inner AES-256-GCM, middle
// ChaCha20-Poly1305, outer AES-256-GCM) each with its own random salt and
// domain-separated KDF input, followed by an HMAC-SHA-256 tag — keyed by
// the embedded seed — over the outer salt and ciphertext.
func (c *Config) Encode(passphrase string, label SaltLabel, plaintext []byte) ([]byte, error) {
	innerSalt, err := randomSalt()
	if err != nil {
		return nil, err
	}
	innerKey, err := c.kdfCurrent(passphrase, innerSalt)
	if err != nil {
		return nil, err
	}
	innerSealed, err := sealAESGCM(innerKey, plaintext)
	wipe(innerKey)
	if err != nil {
		return nil, err
	}
	innerPayload := layer{salt: innerSalt, sealed: innerSealed}.marshal()

	middleSalt, err := randomSalt()
	if err != nil {
		return nil, err
	}
	middleKey, err := c.kdfCurrent(middlePassphrase(passphrase, label), middleSalt)
	if err != nil {
		return nil, err
	}
	middleSealed, err := sealChaCha20Poly1305(middleKey, innerPayload)
	wipe(middleKey)
	if err != nil {
		return nil, err
	}
	middlePayload := layer{salt: middleSalt, sealed: middleSealed}.marshal()

	outerSalt, err := randomSalt()
	if err != nil {
		return nil, err
	}
	outerKey, err := c.kdfCurrent(outerPassphrase(passphrase, label), outerSalt)
	if err != nil {
		return nil, err
	}
	outerSealed, err := sealAESGCM(outerKey, middlePayload)
	wipe(outerKey)
	if err != nil {
		return nil, err
	}
	body := layer{salt: outerSalt, sealed: outerSealed}.marshal()

	tag := hmacTag(c.seed[:], body)

	out := make([]byte, 0, 1+len(body)+hmacTagSize)
	out = append(out, byte(VersionV4))
	out = append(out, body...)
	out = append(out, tag...)
	return out, nil
}

// Decode authenticates and decrypts a v4 envelope. The HMAC check runs
// before any key derivation, so a tampered blob or a ciphertext produced
// by a different build (different embedded seed) fails before a single
// memory-hard KDF invocation — see kdfInvocationCount in tests for the
// early-fail ordering property. The HMAC does not depend on the
// passphrase, so a wrong passphrase or salt label passes it and fails at
// the outer AEAD layer, after one KDF invocation.
func (c *Config) Decode(passphrase string, label SaltLabel, blob []byte) ([]byte, error) {
	if len(blob) == 0 {
		return nil, newVersionError(0, "empty blob, expected v4")
	}
	if blob[0] != byte(VersionV4) {
		return nil, newVersionError(blob[0], "leading byte is not 0x04")
	}
	if len(blob) < v4MinLength {
		return nil, newMalformedError("v4 envelope shorter than minimum length")
	}

	body := blob[1 : len(blob)-hmacTagSize]
	gotTag := blob[len(blob)-hmacTagSize:]
	wantTag := hmacTag(c.seed[:], body)
	if subtle.ConstantTimeCompare(gotTag, wantTag) != 1 {
		return nil, newAuthError("HMAC mismatch — data tampered or wrong binary", nil)
	}

	outerLayer, err := parseLayer(body)
	if err != nil {
		return nil, err
	}
	outerKey, err := c.kdfCurrent(outerPassphrase(passphrase, label), outerLayer.salt)
	if err != nil {
		return nil, err
	}
	middlePayload, err := openAESGCM(outerKey, outerLayer.sealed)
	wipe(outerKey)
	if err != nil {
		return nil, err
	}

	middleLayer, err := parseLayer(middlePayload)
	if err != nil {
		return nil, err
	}
	middleKey, err := c.kdfCurrent(middlePassphrase(passphrase, label), middleLayer.salt)
	if err != nil {
		return nil, err
	}
	innerPayload, err := openChaCha20Poly1305(middleKey, middleLayer.sealed)
	wipe(middleKey)
	if err != nil {
		return nil, err
	}

	innerLayer, err := parseLayer(innerPayload)
	if err != nil {
		return nil, err
	}
	innerKey, err := c.kdfCurrent(passphrase, innerLayer.salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := openAESGCM(innerKey, innerLayer.sealed)
	wipe(innerKey)
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}

func middlePassphrase(passphrase string, label SaltLabel) string {
	return passphrase + "-middle-" + string(label)
}

func outerPassphrase(passphrase string, label SaltLabel) string {
	return passphrase + "-outer-" + string(label)
}

func hmacTag(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
