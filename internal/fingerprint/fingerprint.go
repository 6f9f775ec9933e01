package fingerprint

import (
	"crypto/md5" //nolint:gosec // MD5 detects accidental content change, not tampering
	"encoding/hex"
	"io"
	"os"
)

// HexLength is the width of a fingerprint in hex characters.
const HexLength = 32

// Reader streams all bytes from r through the digest and returns the
// fingerprint as lowercase hex. Identical bytes always produce the identical
// fingerprint regardless of path or timestamps.
func Reader(r io.Reader) (string, error) {
	h := md5.New() //nolint:gosec // see package doc
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// File opens the file at path and fingerprints its full content. A file that
// disappears or becomes unreadable mid-read surfaces as an error for the
// caller to record as a pipeline-stage failure.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Reader(f)
}
