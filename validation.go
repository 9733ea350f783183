package soulcipher

import "fmt"

// validateBuffer checks that buf is non-nil and at least minSize bytes,
// returning a *MalformedError naming the field otherwise.
func validateBuffer(buf []byte, name string, minSize int) error {
	if buf == nil {
		return newMalformedError(fmt.Sprintf("%s cannot be nil", name))
	}
	if len(buf) < minSize {
		return newMalformedError(fmt.Sprintf("%s too short: got %d bytes, need at least %d", name, len(buf), minSize))
	}
	return nil
}

// validateKey checks that key is exactly expectedSize bytes.
func validateKey(key []byte, expectedSize int) error {
	if len(key) != expectedSize {
		return fmt.Errorf("invalid key size: got %d bytes, expected %d", len(key), expectedSize)
	}
	return nil
}
