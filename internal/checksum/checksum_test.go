// SPDX-License-Identifier: MPL-2.0

package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func digestOf(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	t.Parallel()

	a, b := digestOf("a"), digestOf("b")
	input := strings.Join([]string{
		"# pinned toolchain archives",
		a + "  graalvm-ce-1.0.0-rc16-linux-amd64.tar.gz",
		"",
		"not a checksum line",
		"deadbeef  short.tar.gz",
		strings.ToUpper(b) + "  *openjdk-8u212-jvmci-0.58-linux-amd64.tar.gz",
	}, "\n")

	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Parse() returned %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].Hash != a || entries[0].Filename != "graalvm-ce-1.0.0-rc16-linux-amd64.tar.gz" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Hash != b || entries[1].Filename != "openjdk-8u212-jvmci-0.58-linux-amd64.tar.gz" {
		t.Errorf("entries[1] = %+v (hash must be lowercased, '*' stripped)", entries[1])
	}
}

func TestParse_NoEntries(t *testing.T) {
	t.Parallel()

	if _, err := Parse(strings.NewReader("\n# nothing\n")); !errors.Is(err, errNoValidEntries) {
		t.Errorf("Parse() error = %v, want errNoValidEntries", err)
	}
}

func TestSet(t *testing.T) {
	t.Parallel()

	s := NewSet([]Entry{{Hash: digestOf("x"), Filename: "x.tar.gz"}})
	if err := s.Add("y.tar.gz", strings.ToUpper(digestOf("y"))); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("z.tar.gz", "xyz"); !errors.Is(err, ErrInvalidDigest) {
		t.Errorf("Add(bad) error = %v, want ErrInvalidDigest", err)
	}

	if got, err := s.Lookup("y.tar.gz"); err != nil || got != digestOf("y") {
		t.Errorf("Lookup(y) = %q, %v", got, err)
	}
	if _, err := s.Lookup("missing.tar.gz"); !errors.Is(err, ErrNotPinned) {
		t.Errorf("Lookup(missing) error = %v, want ErrNotPinned", err)
	}
}

func TestVerifyFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "archive.tar.gz", "toolchain bytes")

	if err := VerifyFile(path, strings.ToUpper(digestOf("toolchain bytes"))); err != nil {
		t.Errorf("VerifyFile(match) error = %v", err)
	}

	err := VerifyFile(path, digestOf("other"))
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("VerifyFile(mismatch) error = %v, want ErrChecksumMismatch", err)
	}
	var mm *MismatchError
	if !errors.As(err, &mm) || mm.Got != digestOf("toolchain bytes") {
		t.Errorf("MismatchError = %+v", mm)
	}

	if err := VerifyFile(filepath.Join(t.TempDir(), "missing"), digestOf("x")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("VerifyFile(missing) error = %v, want ErrNotExist", err)
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "SHA256SUMS", digestOf("q")+"  q.tar.gz\n")
	entries, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Filename != "q.tar.gz" {
		t.Errorf("ParseFile() = %+v", entries)
	}
}
