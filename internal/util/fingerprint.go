package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// CalculateFileFingerprint returns a CRC32 of the file content joined with its size.
// Record sets are small, so the whole file is hashed.
func CalculateFileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := crc32.NewIEEE()
	n, err := io.Copy(h, file)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x-%d", h.Sum32(), n), nil
}

// CalculateFingerprint fingerprints an in-memory payload the same way as files
func CalculateFingerprint(data []byte) string {
	return fmt.Sprintf("%08x-%d", crc32.ChecksumIEEE(data), len(data))
}
