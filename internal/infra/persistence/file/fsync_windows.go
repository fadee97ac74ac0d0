//go:build windows

package file

// syncDir is a no-op: Windows cannot open a directory for syncing
func syncDir(string) error {
	return nil
}
