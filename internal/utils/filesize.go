package utils

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/nebari-dev/dirindex/internal/humansize"
)

// GetDirectorySize calculates the total size of the regular files below path in bytes
func GetDirectorySize(path string) (int64, error) {
	var size int64

	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})

	return size, err
}

// FormatBytes converts bytes to the "value unit" form used in listings, e.g. "3 KiB".
// Negative counts are rendered as raw numbers.
func FormatBytes(bytes int64) string {
	s, err := humansize.FormatFileSize(bytes)
	if err != nil {
		return fmt.Sprintf("%d B", bytes)
	}
	return s
}
