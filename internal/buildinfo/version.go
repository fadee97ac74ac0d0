// Package buildinfo holds values stamped at build time, e.g.
// go build -ldflags "-X github.com/YoshitsuguKoike/pulse/internal/buildinfo.Version=v1.0.0 -X github.com/YoshitsuguKoike/pulse/internal/buildinfo.Commit=abc123"
package buildinfo

var (
	Version = "dev"
	Commit  = ""
)

// GetVersion returns the version with the commit appended when known
func GetVersion() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit != "" {
		v += " (" + Commit + ")"
	}
	return v
}
