package staging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pwrite-go/internal/config"
	"pwrite-go/internal/pw"
)

func newAreas(t *testing.T) map[string]StagingArea {
	t.Helper()
	fsArea, err := NewFileSystemStagingArea(t.TempDir(), DefaultMaxSize, pw.NewNopLogger())
	if err != nil {
		t.Fatalf("NewFileSystemStagingArea() error = %v", err)
	}
	return map[string]StagingArea{
		"memory":     NewMemoryStagingArea(DefaultMaxSize, pw.NewNopLogger()),
		"filesystem": fsArea,
	}
}

func TestStagingArea_WithStagedContent(t *testing.T) {
	for name, sa := range newAreas(t) {
		t.Run(name+"/content is readable inside fn", func(t *testing.T) {
			var seen string
			err := sa.WithStagedContent([]byte("127.0.0.1 localhost\n"), func(path string) error {
				data, err := sa.Read(path)
				if err != nil {
					return err
				}
				seen = string(data)
				if sa.Pending() != 1 {
					t.Errorf("Pending() inside fn = %d, want 1", sa.Pending())
				}
				return nil
			})
			if err != nil {
				t.Fatalf("WithStagedContent() error = %v", err)
			}
			if seen != "127.0.0.1 localhost\n" {
				t.Errorf("staged content = %q", seen)
			}
			if sa.Pending() != 0 {
				t.Errorf("Pending() after return = %d, want 0", sa.Pending())
			}
		})

		t.Run(name+"/removes content when fn fails", func(t *testing.T) {
			fnErr := errors.New("copy failed")
			var stagedPath string
			err := sa.WithStagedContent([]byte("x"), func(path string) error {
				stagedPath = path
				return fnErr
			})
			if !errors.Is(err, fnErr) {
				t.Fatalf("WithStagedContent() error = %v, want %v", err, fnErr)
			}
			if sa.Pending() != 0 {
				t.Errorf("Pending() = %d, want 0", sa.Pending())
			}
			if _, err := sa.Read(stagedPath); err == nil {
				t.Error("staged content still readable after failure")
			}
		})

		t.Run(name+"/removes content when fn panics", func(t *testing.T) {
			func() {
				defer func() {
					if recover() == nil {
						t.Error("expected panic to propagate")
					}
				}()
				sa.WithStagedContent([]byte("x"), func(string) error {
					panic("boom")
				})
			}()
			if sa.Pending() != 0 {
				t.Errorf("Pending() after panic = %d, want 0", sa.Pending())
			}
		})

		t.Run(name+"/uses a fresh path per call", func(t *testing.T) {
			var first, second string
			sa.WithStagedContent([]byte("a"), func(p string) error { first = p; return nil })
			sa.WithStagedContent([]byte("b"), func(p string) error { second = p; return nil })
			if first == "" || first == second {
				t.Errorf("paths = %q, %q, want distinct non-empty paths", first, second)
			}
		})
	}
}

func TestStagingArea_MaxSize(t *testing.T) {
	sa := NewMemoryStagingArea(4, pw.NewNopLogger())

	called := false
	err := sa.WithStagedContent([]byte("too large"), func(string) error {
		called = true
		return nil
	})
	if !errors.Is(err, pw.ErrStagingIO) {
		t.Fatalf("WithStagedContent() error = %v, want ErrStagingIO", err)
	}
	if called {
		t.Error("fn called despite staging failure")
	}
}

func TestFileSystemStagingArea(t *testing.T) {
	t.Run("staged file is world readable", func(t *testing.T) {
		dir := t.TempDir()
		sa, err := NewFileSystemStagingArea(dir, DefaultMaxSize, pw.NewNopLogger())
		if err != nil {
			t.Fatalf("NewFileSystemStagingArea() error = %v", err)
		}

		err = sa.WithStagedContent([]byte("data"), func(path string) error {
			if filepath.Dir(path) != dir {
				t.Errorf("staged in %s, want %s", filepath.Dir(path), dir)
			}
			if !strings.HasPrefix(filepath.Base(path), filePrefix) {
				t.Errorf("staged name %s lacks prefix %s", filepath.Base(path), filePrefix)
			}
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.Mode().Perm() != 0644 {
				t.Errorf("mode = %o, want 644", info.Mode().Perm())
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithStagedContent() error = %v", err)
		}

		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("staging dir has %d entries after return, want 0", len(entries))
		}
	})

	t.Run("failed removal does not fail a successful fn", func(t *testing.T) {
		dir := t.TempDir()
		sa, err := NewFileSystemStagingArea(dir, DefaultMaxSize, pw.NewNopLogger())
		if err != nil {
			t.Fatalf("NewFileSystemStagingArea() error = %v", err)
		}

		err = sa.WithStagedContent([]byte("data"), func(path string) error {
			if err := os.Remove(path); err != nil {
				return err
			}
			if err := os.Mkdir(path, 0755); err != nil {
				return err
			}
			return os.WriteFile(filepath.Join(path, "held"), []byte("x"), 0644)
		})
		if err != nil {
			t.Errorf("WithStagedContent() error = %v, want nil", err)
		}
	})

	t.Run("write failure never calls fn", func(t *testing.T) {
		dir := t.TempDir()
		sa, err := NewFileSystemStagingArea(dir, DefaultMaxSize, pw.NewNopLogger())
		if err != nil {
			t.Fatalf("NewFileSystemStagingArea() error = %v", err)
		}
		if err := os.RemoveAll(dir); err != nil {
			t.Fatal(err)
		}

		called := false
		err = sa.WithStagedContent([]byte("data"), func(string) error {
			called = true
			return nil
		})
		if !errors.Is(err, pw.ErrStagingIO) {
			t.Errorf("WithStagedContent() error = %v, want ErrStagingIO", err)
		}
		if called {
			t.Error("fn called despite write failure")
		}
	})
}

func TestNewStagingAreaFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StagingConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.StagingConfig{Type: "memory"}},
		{name: "filesystem", cfg: config.StagingConfig{Type: "filesystem", Dir: t.TempDir()}},
		{name: "empty type defaults to filesystem", cfg: config.StagingConfig{Dir: t.TempDir()}},
		{name: "unknown", cfg: config.StagingConfig{Type: "tape"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStagingAreaFromConfig(tt.cfg, pw.NewNopLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStagingAreaFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got == nil {
				t.Error("NewStagingAreaFromConfig() returned nil")
			}
		})
	}
}
