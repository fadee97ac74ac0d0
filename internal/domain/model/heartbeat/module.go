package heartbeat

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Role tells which process owns a record file.
type Role string

const (
	// RoleHeartbeat records are written only by the module's emitter.
	RoleHeartbeat Role = "heartbeat"
	// RoleObservation records are written only by the healthcheck aggregator.
	RoleObservation Role = "observation"
)

const recordExt = ".json"

// suffix returns the file-name suffix used for the role, e.g. ".heartbeat.json".
func (r Role) suffix() string {
	return "." + string(r) + recordExt
}

// ModuleName is a value object identifying an independently tracked unit of work
type ModuleName struct {
	value string
}

// NewModuleName creates a module name. The value is NFC-normalized so that
// canonically equivalent spellings map to the same records.
func NewModuleName(value string) (ModuleName, error) {
	if strings.TrimSpace(value) == "" {
		return ModuleName{}, fmt.Errorf("%w: module name cannot be empty", ErrInvalidModuleName)
	}
	return ModuleName{value: norm.NFC.String(value)}, nil
}

// DefaultModuleName derives a module name from the running executable.
func DefaultModuleName() ModuleName {
	name := filepath.Base(os.Args[0])
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "default"
	}
	return ModuleName{value: norm.NFC.String(name)}
}

// String returns the module name
func (n ModuleName) String() string {
	return n.value
}

// Key returns the filesystem-safe key derived from the name
func (n ModuleName) Key() ModuleKey {
	sum := sha256.Sum256([]byte(n.value))
	return ModuleKey(hex.EncodeToString(sum[:]))
}

// ModuleKey is the one-way hash of a module name used in record file names.
type ModuleKey string

// HeartbeatKey returns the record key of the module's heartbeat file
func (k ModuleKey) HeartbeatKey() string {
	return string(k) + RoleHeartbeat.suffix()
}

// ObservationKey returns the record key of the module's observation file
func (k ModuleKey) ObservationKey() string {
	return string(k) + RoleObservation.suffix()
}

// ParseKey splits a record key into its module key and role.
// Keys that do not carry a known role suffix are reported as not ok.
func ParseKey(key string) (ModuleKey, Role, bool) {
	for _, role := range []Role{RoleHeartbeat, RoleObservation} {
		if base, found := strings.CutSuffix(key, role.suffix()); found && base != "" {
			return ModuleKey(base), role, true
		}
	}
	return "", "", false
}
