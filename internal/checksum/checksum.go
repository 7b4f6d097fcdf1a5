// SPDX-License-Identifier: MPL-2.0

package checksum

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrChecksumMismatch indicates the computed SHA256 hash does not match the expected hash.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrNotPinned indicates no digest is known for the requested archive.
	ErrNotPinned = errors.New("no checksum pinned")

	// ErrInvalidDigest indicates a configured digest is not 64 hex characters.
	ErrInvalidDigest = errors.New("invalid sha256 digest")

	// errNoValidEntries indicates the checksums file contained no parseable entries.
	errNoValidEntries = errors.New("no valid checksum entries found")
)

type (
	// Entry is one "digest  filename" line of a checksums file.
	Entry struct {
		Hash     string // Hex-encoded SHA256 hash (64 characters)
		Filename string // Archive file name this hash applies to
	}

	// MismatchError provides details about a checksum verification failure.
	// It wraps ErrChecksumMismatch so callers can use errors.Is for classification.
	MismatchError struct {
		Path     string
		Expected string
		Got      string
	}

	// Set maps archive file names to lowercase hex digests.
	Set map[string]string
)

// Error returns a human-readable description of the checksum mismatch.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s\nExpected: %s\nGot:      %s", e.Path, e.Expected, e.Got)
}

// Unwrap returns ErrChecksumMismatch so callers can use errors.Is.
func (e *MismatchError) Unwrap() error { return ErrChecksumMismatch }

// Parse reads a checksums file in sha256sum output format: "{hex}  {filename}"
// per line. Blank and malformed lines are skipped; an input without any valid
// entry is an error.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "  ", 2)
		if len(parts) != 2 {
			continue
		}

		hash := parts[0]
		// sha256sum marks binary-mode entries with a leading '*'.
		filename := strings.TrimPrefix(strings.TrimSpace(parts[1]), "*")
		if filename == "" || !IsValidHexHash(hash) {
			continue
		}

		entries = append(entries, Entry{Hash: strings.ToLower(hash), Filename: filename})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading checksums: %w", err)
	}
	if len(entries) == 0 {
		return nil, errNoValidEntries
	}
	return entries, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }() // read-only

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// NewSet builds a Set from entries. Later entries override earlier ones.
func NewSet(entries []Entry) Set {
	s := make(Set, len(entries))
	for _, e := range entries {
		s[e.Filename] = e.Hash
	}
	return s
}

// Add pins digest for filename after validating its shape.
func (s Set) Add(filename, digest string) error {
	if !IsValidHexHash(digest) {
		return fmt.Errorf("%w for %s: %q", ErrInvalidDigest, filename, digest)
	}
	s[filename] = strings.ToLower(digest)
	return nil
}

// Lookup returns the pinned digest for filename.
func (s Set) Lookup(filename string) (string, error) {
	if h, ok := s[filename]; ok {
		return h, nil
	}
	return "", fmt.Errorf("%w for %s", ErrNotPinned, filename)
}

// VerifyFile computes the SHA256 hash of the file at path and compares it with
// expectedHash (case-insensitive). A mismatch returns a *MismatchError.
func VerifyFile(path, expectedHash string) error {
	got, err := ComputeFileHash(path)
	if err != nil {
		return err
	}

	if !strings.EqualFold(got, expectedHash) {
		return &MismatchError{
			Path:     path,
			Expected: strings.ToLower(expectedHash),
			Got:      got,
		}
	}
	return nil
}

// ComputeFileHash streams the file at path through SHA256 and returns the
// lowercase hex digest.
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }() // read-only

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IsValidHexHash checks if s is a 64-character hex-encoded SHA256 hash.
func IsValidHexHash(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
