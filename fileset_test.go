package soulcipher

import (
	"strings"
	"testing"

	"github.com/absfs/memfs"
)

func newMemFS(t *testing.T) *memfs.FileSystem {
	t.Helper()
	fs, err := memfs.NewFS()
	if err != nil {
		t.Fatalf("memfs.NewFS() error = %v", err)
	}
	return fs
}

func writeFile(t *testing.T, fs *memfs.FileSystem, name string, data []byte) {
	t.Helper()
	f, err := fs.Create(name)
	if err != nil {
		t.Fatalf("Create(%s) error = %v", name, err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("Write(%s) error = %v", name, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(%s) error = %v", name, err)
	}
}

func readFile(t *testing.T, fs *memfs.FileSystem, name string) []byte {
	t.Helper()
	data, err := readAll(fs, name)
	if err != nil {
		t.Fatalf("readAll(%s) error = %v", name, err)
	}
	return data
}

func resultFor(results []FileResult, name string) (FileResult, bool) {
	for _, r := range results {
		if r.Name == name {
			return r, true
		}
	}
	return FileResult{}, false
}

func TestEncryptDecryptLocalRoundTrip(t *testing.T) {
	fs := newMemFS(t)
	cfg := NewConfig()
	passphrase := "pw"

	for _, name := range TargetFiles {
		writeFile(t, fs, name, []byte(`{"name":"`+name+`"}`))
	}

	results := cfg.EncryptLocal(fs, passphrase, nil)
	if len(results) != len(TargetFiles) {
		t.Fatalf("EncryptLocal() returned %d results, want %d", len(results), len(TargetFiles))
	}
	for _, r := range results {
		if r.Status != StatusOK {
			t.Fatalf("EncryptLocal() result for %s: status=%s err=%v", r.Name, r.Status, r.Err)
		}
	}

	for _, name := range TargetFiles {
		if err := fs.Remove(name); err != nil {
			t.Fatalf("Remove(%s) error = %v", name, err)
		}
	}

	results = cfg.DecryptLocal(fs, passphrase, nil)
	for _, r := range results {
		if r.Status != StatusOK {
			t.Fatalf("DecryptLocal() result for %s: status=%s err=%v", r.Name, r.Status, r.Err)
		}
	}

	for _, name := range TargetFiles {
		got := string(readFile(t, fs, name))
		want := `{"name":"` + name + `"}`
		if got != want {
			t.Fatalf("recovered plaintext for %s = %q, want %q", name, got, want)
		}
	}
}

func TestEncryptLocalSkipsAbsentPlaintext(t *testing.T) {
	fs := newMemFS(t)
	cfg := NewConfig()

	results := cfg.EncryptLocal(fs, "pw", nil)
	for _, r := range results {
		if r.Status != StatusSkip {
			t.Fatalf("EncryptLocal() on empty directory result for %s: status=%s, want skip", r.Name, r.Status)
		}
	}
}

// S4 from the end-to-end scenarios: encrypt-git then decrypt-git must
// always recover the fixed two-byte document, never the real source.
func TestEncryptGitPlaceholderInvariant(t *testing.T) {
	fs := newMemFS(t)
	cfg := NewConfig()
	passphrase := "pw"

	writeFile(t, fs, "rules-index.json", []byte(`{"secret":"do not leak"}`))

	results := cfg.EncryptGit(fs, passphrase, nil)
	for _, r := range results {
		if r.Status != StatusOK {
			t.Fatalf("EncryptGit() result for %s: status=%s err=%v", r.Name, r.Status, r.Err)
		}
	}

	blob := readFile(t, fs, "rules-index.json.git.enc")
	got, err := NewConfig().AutoDecode(passphrase, SaltGit, blob)
	if err != nil {
		t.Fatalf("AutoDecode() error = %v", err)
	}
	if strings.TrimSpace(got) != "{}" {
		t.Fatalf("git placeholder decoded to %q, want {}", got)
	}

	decryptResults := cfg.DecryptGit(fs, passphrase, nil)
	for _, r := range decryptResults {
		if r.Status != StatusOK {
			t.Fatalf("DecryptGit() result for %s: status=%s message=%s", r.Name, r.Status, r.Message)
		}
	}
}

// S5/S6: a v2 legacy ciphertext decrypts via decrypt-local, and
// re-encrypt upgrades it to v4 exactly once, then becomes a no-op.
func TestLegacyUpgradeIdempotence(t *testing.T) {
	fs := newMemFS(t)
	cfg := NewConfig()
	passphrase := "pw"

	legacyBlob, err := cfg.v2EncodeOracle(passphrase, []byte("{}"))
	if err != nil {
		t.Fatalf("v2EncodeOracle() error = %v", err)
	}
	writeFile(t, fs, "rules-index.json.enc", legacyBlob)

	decryptResults := cfg.DecryptLocal(fs, passphrase, nil)
	r, ok := resultFor(decryptResults, "rules-index.json")
	if !ok || r.Status != StatusOK {
		t.Fatalf("DecryptLocal() result for rules-index.json = %+v", r)
	}
	if got := string(readFile(t, fs, "rules-index.json")); got != "{}" {
		t.Fatalf("decrypted plaintext = %q, want {}", got)
	}

	firstPass := cfg.ReEncrypt(fs, passphrase, nil)
	r, ok = resultFor(firstPass, "rules-index.json")
	if !ok || r.Status != StatusOK {
		t.Fatalf("first ReEncrypt() result = %+v", r)
	}
	upgraded := readFile(t, fs, "rules-index.json.enc")
	if upgraded[0] != byte(VersionV4) {
		t.Fatalf("re-encrypted file leading byte = 0x%02x, want 0x04", upgraded[0])
	}

	secondPass := cfg.ReEncrypt(fs, passphrase, nil)
	r, ok = resultFor(secondPass, "rules-index.json")
	if !ok || r.Status != StatusSkip {
		t.Fatalf("second ReEncrypt() result = %+v, want skip", r)
	}
	stillUpgraded := readFile(t, fs, "rules-index.json.enc")
	if string(stillUpgraded) != string(upgraded) {
		t.Fatal("second ReEncrypt() changed bytes of an already-v4 file")
	}
}

func TestVerifyDetectsPassphraseLeak(t *testing.T) {
	fs := newMemFS(t)
	cfg := NewConfig()
	passphrase := "hunter2"

	writeFile(t, fs, "rules-index.json", []byte(`{"note":"password is hunter2, oops"}`))

	results, issues := cfg.Verify(fs, passphrase, nil)
	if issues == 0 {
		t.Fatal("Verify() issues = 0, want at least one leak")
	}
	r, ok := resultFor(results, "rules-index.json")
	if !ok || r.Status != StatusLeak {
		t.Fatalf("Verify() result for rules-index.json = %+v, want leak", r)
	}
}

func TestVerifyCleanDirectoryHasNoIssues(t *testing.T) {
	fs := newMemFS(t)
	cfg := NewConfig()
	passphrase := "hunter2"

	for _, name := range TargetFiles {
		writeFile(t, fs, name, []byte(`{"ok":true}`))
	}
	cfg.EncryptLocal(fs, passphrase, nil)
	cfg.EncryptGit(fs, passphrase, nil)
	for _, name := range TargetFiles {
		fs.Remove(name)
	}

	_, issues := cfg.Verify(fs, passphrase, nil)
	if issues != 0 {
		t.Fatalf("Verify() issues = %d, want 0", issues)
	}
}

func TestVerifyDetectsGitPlaceholderLeak(t *testing.T) {
	fs := newMemFS(t)
	cfg := NewConfig()
	passphrase := "pw"

	blob, err := cfg.Encode(passphrase, SaltGit, []byte(`{"not":"empty"}`))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	writeFile(t, fs, "rules-index.json.git.enc", blob)

	results, issues := cfg.Verify(fs, passphrase, nil)
	if issues == 0 {
		t.Fatal("Verify() issues = 0, want at least one leak")
	}
	r, ok := resultFor(results, "rules-index.json.git.enc")
	if !ok || r.Status != StatusLeak {
		t.Fatalf("Verify() result for git placeholder = %+v, want leak", r)
	}
}

func TestDecryptFileWrapsAutoDecode(t *testing.T) {
	cfg := NewConfig()
	blob, err := cfg.Encode("pw", SaltLocal, []byte("{\"a\":1}\n"))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := cfg.DecryptFile("pw", SaltLocal, blob)
	if err != nil {
		t.Fatalf("DecryptFile() error = %v", err)
	}
	if got != "{\"a\":1}\n" {
		t.Fatalf("DecryptFile() = %q, want %q", got, "{\"a\":1}\n")
	}
}
