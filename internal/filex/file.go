// Package filex has small filesystem helpers for the client.
package filex

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxPosterSize bounds poster uploads read from disk.
const MaxPosterSize = 10 << 20

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// ReadImage loads an image file and sniffs its content type. Non-image files
// and files larger than MaxPosterSize are rejected.
func ReadImage(path string) ([]byte, string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if fi.IsDir() {
		return nil, "", fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxPosterSize {
		return nil, "", fmt.Errorf("%s is too large (%d bytes)", path, fi.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return nil, "", fmt.Errorf("%s is not an image (%s)", path, ct)
	}
	return data, ct, nil
}
