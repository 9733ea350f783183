package soulcipher

// Legacy formats predate the v4 envelope and carry no authentication tag.
// They exist so files encrypted by earlier tool versions keep decrypting;
// nothing in this package ever writes them except the *Encode oracles
// below, which exist purely to manufacture test fixtures.

func legacySalt(label SaltLabel) string {
	if label == SaltGit {
		return legacyGitSalt
	}
	return legacyLocalSalt
}

// v2Decode reverses the original single-layer legacy format: AES-256-CBC
// under a scrypt-derived key salted by a single fixed string, independent
// of salt-label. Callers must still check the result is valid UTF-8
// before trusting it — see AutoDecode.
func (c *Config) v2Decode(passphrase string, blob []byte) ([]byte, error) {
	key, err := c.kdfLegacy(passphrase, legacyV2Salt)
	if err != nil {
		return nil, err
	}
	defer wipe(key)
	return decryptAESCBC(key, blob)
}

// v3Decode reverses the double-layer legacy format: an outer AES-256-CBC
// shell (fixed salt, passphrase suffixed with "-outer", independent of
// label) wrapping an inner AES-256-CBC layer keyed by scrypt(p, label).
func (c *Config) v3Decode(passphrase string, label SaltLabel, blob []byte) ([]byte, error) {
	outerKey, err := c.kdfLegacy(passphrase+"-outer", legacyOuterSalt)
	if err != nil {
		return nil, err
	}
	inner, err := decryptAESCBC(outerKey, blob)
	wipe(outerKey)
	if err != nil {
		return nil, err
	}

	innerKey, err := c.kdfLegacy(passphrase, legacySalt(label))
	if err != nil {
		return nil, err
	}
	defer wipe(innerKey)
	return decryptAESCBC(innerKey, inner)
}

// v2EncodeOracle produces a v2-format blob for plaintext. It exists only
// for tests that need to exercise legacy acceptance without a historical
// fixture file.
func (c *Config) v2EncodeOracle(passphrase string, plaintext []byte) ([]byte, error) {
	key, err := c.kdfLegacy(passphrase, legacyV2Salt)
	if err != nil {
		return nil, err
	}
	defer wipe(key)
	return encryptAESCBC(key, plaintext)
}

// v3EncodeOracle produces a v3-format blob for plaintext, mirroring
// v3Decode's layering in reverse.
func (c *Config) v3EncodeOracle(passphrase string, label SaltLabel, plaintext []byte) ([]byte, error) {
	innerKey, err := c.kdfLegacy(passphrase, legacySalt(label))
	if err != nil {
		return nil, err
	}
	inner, err := encryptAESCBC(innerKey, plaintext)
	wipe(innerKey)
	if err != nil {
		return nil, err
	}

	outerKey, err := c.kdfLegacy(passphrase+"-outer", legacyOuterSalt)
	if err != nil {
		return nil, err
	}
	defer wipe(outerKey)
	return encryptAESCBC(outerKey, inner)
}
