//go:build !windows

package file

import (
	"fmt"
	"os"
)

// syncDir syncs directory metadata so a completed rename survives a crash
func syncDir(dirPath string) error {
	dir, err := os.Open(dirPath)
	if err != nil {
		return fmt.Errorf("failed to open directory %s: %w", dirPath, err)
	}
	defer dir.Close()

	if err := dir.Sync(); err != nil {
		return fmt.Errorf("failed to sync directory %s: %w", dirPath, err)
	}
	return nil
}
