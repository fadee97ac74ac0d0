//go:build windows

package cli

import "os"

// ShutdownSignals returns the signals that cancel a running command.
// The last entry is forwarded to child processes.
func ShutdownSignals() []os.Signal {
	return []os.Signal{
		os.Interrupt, // Ctrl+C
		os.Kill,
	}
}
