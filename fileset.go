package soulcipher

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/absfs/absfs"
	"github.com/sirupsen/logrus"
)

// Status classifies the outcome of a single target file within a
// file-set operation.
type Status string

const (
	StatusOK    Status = "ok"
	StatusSkip  Status = "skip"
	StatusLeak  Status = "leak"
	StatusError Status = "error"
)

// FileResult reports what happened to one target file during a file-set
// operation. Operations return a slice of these instead of printing,
// since console rendering belongs to the out-of-scope external CLI.
type FileResult struct {
	Name    string
	Status  Status
	Bytes   int
	Message string
	Err     error
}

func logger(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	return logrus.StandardLogger()
}

func readAll(fs absfs.FileSystem, name string) ([]byte, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeAll(fs absfs.FileSystem, name string, data []byte) error {
	f, err := fs.Create(name)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exists(fs absfs.FileSystem, name string) bool {
	_, err := fs.Stat(name)
	return err == nil
}

func localEncName(name string) string { return name + ".enc" }
func gitEncName(name string) string   { return name + ".git.enc" }

// EncryptLocal reads each present plaintext target file and writes its
// v4-encoded local-context ciphertext, skipping any target whose
// plaintext is absent.
func (c *Config) EncryptLocal(fs absfs.FileSystem, passphrase string, log *logrus.Logger) []FileResult {
	log = logger(log)
	results := make([]FileResult, 0, len(TargetFiles))
	for _, name := range TargetFiles {
		if !exists(fs, name) {
			log.WithField("file", name).Debug("encrypt-local: skip, plaintext absent")
			results = append(results, FileResult{Name: name, Status: StatusSkip, Message: "plaintext absent"})
			continue
		}
		plaintext, err := readAll(fs, name)
		if err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: newIoError("read", name, err)})
			continue
		}
		blob, err := c.Encode(passphrase, SaltLocal, plaintext)
		if err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: err})
			continue
		}
		if err := writeAll(fs, localEncName(name), blob); err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: newIoError("write", localEncName(name), err)})
			continue
		}
		log.WithFields(logrus.Fields{"file": name, "bytes": len(blob)}).Info("encrypt-local: ok")
		results = append(results, FileResult{Name: name, Status: StatusOK, Bytes: len(blob)})
	}
	return results
}

// DecryptLocal reads each present local-context ciphertext, auto-detects
// its wire format, and writes the recovered plaintext over the bare
// filename.
func (c *Config) DecryptLocal(fs absfs.FileSystem, passphrase string, log *logrus.Logger) []FileResult {
	log = logger(log)
	results := make([]FileResult, 0, len(TargetFiles))
	for _, name := range TargetFiles {
		encName := localEncName(name)
		if !exists(fs, encName) {
			log.WithField("file", encName).Debug("decrypt-local: skip, ciphertext absent")
			results = append(results, FileResult{Name: name, Status: StatusSkip, Message: "ciphertext absent"})
			continue
		}
		blob, err := readAll(fs, encName)
		if err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: newIoError("read", encName, err)})
			continue
		}
		plaintext, err := c.AutoDecode(passphrase, SaltLocal, blob)
		if err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: err})
			continue
		}
		if err := writeAll(fs, name, []byte(plaintext)); err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: newIoError("write", name, err)})
			continue
		}
		log.WithFields(logrus.Fields{"file": name, "bytes": len(plaintext)}).Info("decrypt-local: ok")
		results = append(results, FileResult{Name: name, Status: StatusOK, Bytes: len(plaintext)})
	}
	return results
}

// EncryptGit writes a fresh git-context placeholder for every target
// name, always encoding the fixed two-byte document "{}" — the source
// plaintext is never read, so a repository checkout never carries real
// data in its placeholder ciphertexts.
func (c *Config) EncryptGit(fs absfs.FileSystem, passphrase string, log *logrus.Logger) []FileResult {
	log = logger(log)
	results := make([]FileResult, 0, len(TargetFiles))
	for _, name := range TargetFiles {
		blob, err := c.Encode(passphrase, SaltGit, []byte("{}"))
		if err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: err})
			continue
		}
		if err := writeAll(fs, gitEncName(name), blob); err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: newIoError("write", gitEncName(name), err)})
			continue
		}
		log.WithField("file", gitEncName(name)).Info("encrypt-git: ok")
		results = append(results, FileResult{Name: name, Status: StatusOK, Bytes: len(blob)})
	}
	return results
}

// DecryptGit verifies that every present git-context ciphertext decrypts
// to exactly "{}" after trimming whitespace, without writing anything.
func (c *Config) DecryptGit(fs absfs.FileSystem, passphrase string, log *logrus.Logger) []FileResult {
	log = logger(log)
	results := make([]FileResult, 0, len(TargetFiles))
	for _, name := range TargetFiles {
		encName := gitEncName(name)
		if !exists(fs, encName) {
			results = append(results, FileResult{Name: name, Status: StatusSkip, Message: "placeholder absent"})
			continue
		}
		blob, err := readAll(fs, encName)
		if err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: newIoError("read", encName, err)})
			continue
		}
		plaintext, err := c.AutoDecode(passphrase, SaltGit, blob)
		if err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: err})
			continue
		}
		if strings.TrimSpace(plaintext) != "{}" {
			log.WithField("file", encName).Warn("decrypt-git: placeholder carries real data")
			results = append(results, FileResult{Name: name, Status: StatusLeak, Message: "placeholder is not {}"})
			continue
		}
		results = append(results, FileResult{Name: name, Status: StatusOK, Bytes: len(plaintext)})
	}
	return results
}

// ReEncrypt upgrades every local-context ciphertext still in a legacy
// format to v4, leaving files already at v4 untouched. Applied to a
// directory already in v4 steady-state, it is a byte-for-byte no-op.
func (c *Config) ReEncrypt(fs absfs.FileSystem, passphrase string, log *logrus.Logger) []FileResult {
	log = logger(log)
	results := make([]FileResult, 0, len(TargetFiles))
	for _, name := range TargetFiles {
		encName := localEncName(name)
		if !exists(fs, encName) {
			results = append(results, FileResult{Name: name, Status: StatusSkip, Message: "ciphertext absent"})
			continue
		}
		blob, err := readAll(fs, encName)
		if err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: newIoError("read", encName, err)})
			continue
		}
		if len(blob) > 0 && blob[0] == byte(VersionV4) {
			results = append(results, FileResult{Name: name, Status: StatusSkip, Message: "already v4"})
			continue
		}
		plaintext, err := c.AutoDecode(passphrase, SaltLocal, blob)
		if err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: err})
			continue
		}
		upgraded, err := c.Encode(passphrase, SaltLocal, []byte(plaintext))
		if err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: err})
			continue
		}
		if err := writeAll(fs, encName, upgraded); err != nil {
			results = append(results, FileResult{Name: name, Status: StatusError, Err: newIoError("write", encName, err)})
			continue
		}
		log.WithField("file", encName).Info("re-encrypt: upgraded to v4")
		results = append(results, FileResult{Name: name, Status: StatusOK, Bytes: len(upgraded)})
	}
	return results
}

// Verify runs the composite audit: every plaintext target is checked for
// an accidental passphrase leak, every local ciphertext is confirmed
// decryptable, and every git placeholder is confirmed to still hold only
// "{}". It returns per-file results and the total issue count.
func (c *Config) Verify(fs absfs.FileSystem, passphrase string, log *logrus.Logger) ([]FileResult, int) {
	log = logger(log)
	results := make([]FileResult, 0, len(TargetFiles)*3)
	issues := 0

	for _, name := range TargetFiles {
		if exists(fs, name) {
			plaintext, err := readAll(fs, name)
			if err != nil {
				results = append(results, FileResult{Name: name, Status: StatusError, Err: newIoError("read", name, err)})
				issues++
			} else if strings.Contains(string(plaintext), passphrase) {
				log.WithField("file", name).Warn("verify: passphrase leaked into plaintext")
				results = append(results, FileResult{Name: name, Status: StatusLeak, Message: "plaintext contains passphrase"})
				issues++
			} else {
				results = append(results, FileResult{Name: name, Status: StatusOK, Bytes: len(plaintext)})
			}
		}

		encName := localEncName(name)
		if exists(fs, encName) {
			blob, err := readAll(fs, encName)
			switch {
			case err != nil:
				results = append(results, FileResult{Name: encName, Status: StatusError, Err: newIoError("read", encName, err)})
				issues++
			case len(blob) == 0:
				results = append(results, FileResult{Name: encName, Status: StatusSkip, Message: "empty ciphertext"})
			default:
				plaintext, err := c.AutoDecode(passphrase, SaltLocal, blob)
				if err != nil {
					results = append(results, FileResult{Name: encName, Status: StatusError, Err: err})
					issues++
				} else if !utf8.ValidString(plaintext) {
					results = append(results, FileResult{Name: encName, Status: StatusError, Err: newEncodingError("decrypted local ciphertext is not valid UTF-8")})
					issues++
				} else {
					results = append(results, FileResult{Name: encName, Status: StatusOK, Bytes: len(plaintext)})
				}
			}
		}

		gitName := gitEncName(name)
		if exists(fs, gitName) {
			blob, err := readAll(fs, gitName)
			if err != nil {
				results = append(results, FileResult{Name: gitName, Status: StatusError, Err: newIoError("read", gitName, err)})
				issues++
				continue
			}
			plaintext, err := c.AutoDecode(passphrase, SaltGit, blob)
			switch {
			case err != nil:
				results = append(results, FileResult{Name: gitName, Status: StatusError, Err: err})
				issues++
			case strings.TrimSpace(plaintext) != "{}":
				log.WithField("file", gitName).Warn("verify: git placeholder carries real data")
				results = append(results, FileResult{Name: gitName, Status: StatusLeak, Message: "placeholder is not {}"})
				issues++
			default:
				results = append(results, FileResult{Name: gitName, Status: StatusOK, Bytes: len(plaintext)})
			}
		}
	}

	return results, issues
}

// DecryptFile decrypts a single already-loaded blob under the given
// salt-label, auto-detecting its wire format. It is the library-level
// counterpart of the external CLI's single-file decrypt helper.
func (c *Config) DecryptFile(passphrase string, label SaltLabel, blob []byte) (string, error) {
	return c.AutoDecode(passphrase, label, blob)
}
