package file_test

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/pulse/internal/infra/persistence/file"
)

func assertNoTempFiles(t *testing.T, fs afero.Fs, dir string) {
	t.Helper()
	entries, _ := afero.ReadDir(fs, dir)
	for _, entry := range entries {
		if file.IsTemp(entry.Name()) {
			t.Errorf("Temp file not cleaned up: %s", entry.Name())
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		data    []byte
		setupFS func(fs afero.Fs) error
		dir     string
	}{
		{
			name: "Create record and parent directory",
			path: "data/healthcheck/abc.heartbeat.json",
			data: []byte(`{"token":"01J0"}`),
			dir:  "data/healthcheck",
		},
		{
			name: "Replace existing record",
			path: "healthcheck/abc.heartbeat.json",
			data: []byte(`{"token":"new"}`),
			setupFS: func(fs afero.Fs) error {
				return afero.WriteFile(fs, "healthcheck/abc.heartbeat.json", []byte(`{"token":"old"}`), 0o644)
			},
			dir: "healthcheck",
		},
		{
			name: "Empty payload",
			path: "empty.json",
			data: []byte{},
			dir:  ".",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if tt.setupFS != nil {
				if err := tt.setupFS(fs); err != nil {
					t.Fatalf("Failed to setup filesystem: %v", err)
				}
			}

			if err := file.WriteFileAtomic(fs, tt.path, tt.data); err != nil {
				t.Fatalf("WriteFileAtomic() error = %v", err)
			}

			content, err := afero.ReadFile(fs, tt.path)
			if err != nil {
				t.Fatalf("Failed to read file: %v", err)
			}
			if string(content) != string(tt.data) {
				t.Errorf("File content mismatch: got %q, want %q", content, tt.data)
			}
			assertNoTempFiles(t, fs, tt.dir)
		})
	}
}

// failingFs fails on selected operations
type failingFs struct {
	afero.Fs
	failOnRename bool
}

func (m *failingFs) Rename(oldname, newname string) error {
	if m.failOnRename {
		return errors.New("rename failed")
	}
	return m.Fs.Rename(oldname, newname)
}

func TestWriteFileAtomic_RenameFailureKeepsPrevious(t *testing.T) {
	base := afero.NewMemMapFs()
	if err := afero.WriteFile(base, "rec.json", []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := &failingFs{Fs: base, failOnRename: true}

	if err := file.WriteFileAtomic(fs, "rec.json", []byte("next")); err == nil {
		t.Fatal("Expected error when rename fails")
	}

	content, _ := afero.ReadFile(fs, "rec.json")
	if string(content) != "previous" {
		t.Errorf("previous content must survive a failed write, got %q", content)
	}
	assertNoTempFiles(t, fs, ".")
}

func TestIsTemp(t *testing.T) {
	if !file.IsTemp("dir/.tmp-12345") {
		t.Error("expected temp file to be detected")
	}
	if file.IsTemp("abc.heartbeat.json") {
		t.Error("record file reported as temp")
	}
}

func TestWriteFileAtomic_OsFs(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()
	path := dir + "/healthcheck/abc.heartbeat.json"

	if err := file.WriteFileAtomic(fs, path, []byte(`{"token":"x"}`)); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != `{"token":"x"}` {
		t.Errorf("File content mismatch: got %q", content)
	}
	assertNoTempFiles(t, fs, dir+"/healthcheck")
}
