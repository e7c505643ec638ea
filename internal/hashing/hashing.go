// Package hashing computes streaming content digests for change detection.
package hashing

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"optipress/internal/services"
)

// FileHash computes the BLAKE3 digest of a file's content, streamed so large
// images never sit in memory whole. The hex digest is stable across runs and
// platforms; it drives the skip decision, not any security property.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", services.Wrap(services.ErrUnreadable, "hashing", "open", path, err)
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", services.Wrap(services.ErrUnreadable, "hashing", "read", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
