package knownhosts

import (
	"fmt"
	"io"
	"os"
	"time"
)

// CopyFile copies src to dst, truncating dst. A missing src is returned as is
// so callers can test it with errors.Is(err, fs.ErrNotExist).
func CopyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return err
	}

	destination, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	return destination.Close()
}

// Backup copies path to <path>.backup.<unix seconds> and returns the new path.
func Backup(path string, now time.Time) (string, error) {
	backupPath := fmt.Sprintf("%s.backup.%d", path, now.Unix())

	if err := CopyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	return backupPath, nil
}
