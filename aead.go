package soulcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/chacha20poly1305"
)

// sealAESGCM encrypts plaintext under key with a freshly generated 12-byte
// nonce, returning nonce || ciphertext || tag.
func sealAESGCM(key, plaintext []byte) ([]byte, error) {
	if err := validateKey(key, keySize); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return seal(aead, plaintext)
}

// openAESGCM is the inverse of sealAESGCM.
func openAESGCM(key, blob []byte) ([]byte, error) {
	if err := validateKey(key, keySize); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return open(aead, blob)
}

// sealChaCha20Poly1305 encrypts plaintext under key with a freshly
// generated 12-byte nonce, returning nonce || ciphertext || tag.
func sealChaCha20Poly1305(key, plaintext []byte) ([]byte, error) {
	if err := validateKey(key, keySize); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return seal(aead, plaintext)
}

// openChaCha20Poly1305 is the inverse of sealChaCha20Poly1305.
func openChaCha20Poly1305(key, blob []byte) ([]byte, error) {
	if err := validateKey(key, keySize); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return open(aead, blob)
}

// seal generates a random nonce sized for aead and returns
// nonce || ciphertext || tag.
func seal(aead cipher.AEAD, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, nil)
	return out, nil
}

// open splits blob into nonce || ciphertext and authenticates/decrypts
// it. A blob shorter than nonce+tag is malformed; any AEAD tag failure
// is an authentication failure, never a partial plaintext.
func open(aead cipher.AEAD, blob []byte) ([]byte, error) {
	if err := validateBuffer(blob, "AEAD ciphertext", aead.NonceSize()+aead.Overhead()); err != nil {
		return nil, err
	}
	nonce := blob[:aead.NonceSize()]
	ct := blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, newAuthError("AEAD tag verification failed", err)
	}
	return plaintext, nil
}
