package fetch

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
)

// Download saves url to path unless path already exists. It reports
// whether a request was made. The file appears atomically: a failed,
// interrupted or oversized download leaves nothing behind.
func (c *Client) Download(ctx context.Context, url, path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("creating cache directory: %w", err)
	}

	resp, err := c.do(ctx, url)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return true, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		tmp.Close()
		return true, fmt.Errorf("%w: downloading %s: %v", ErrNetworkError, url, err)
	}
	if n > c.maxBody {
		tmp.Close()
		return true, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, url, c.maxBody)
	}
	if err := tmp.Close(); err != nil {
		return true, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return true, fmt.Errorf("moving download into place: %w", err)
	}
	return true, nil
}

// Fingerprint returns the hex BLAKE2b-256 digest of data.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FingerprintFile returns the hex BLAKE2b-256 digest of the file at path.
func FingerprintFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
