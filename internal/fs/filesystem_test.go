package fs

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFilesystemManager_Resolve(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(dir, "hosts")
	if err := os.WriteFile(file, []byte("127.0.0.1 localhost\n"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "hosts-link")
	if err := os.Symlink(file, link); err != nil {
		t.Fatal(err)
	}

	m := NewOSFilesystemManager()

	t.Run("regular file", func(t *testing.T) {
		p, err := m.Resolve(file)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if p.String() != file {
			t.Errorf("Resolve() = %q, want %q", p.String(), file)
		}
		if p.Info().Size() != 20 {
			t.Errorf("Info().Size() = %d, want 20", p.Info().Size())
		}
	})

	t.Run("symlink is followed", func(t *testing.T) {
		p, err := m.Resolve(link)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if p.String() != file {
			t.Errorf("Resolve() = %q, want %q", p.String(), file)
		}
	})

	t.Run("relative path is made absolute", func(t *testing.T) {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })
		p, err := m.Resolve("hosts")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if p.String() != file {
			t.Errorf("Resolve() = %q, want %q", p.String(), file)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := m.Resolve(filepath.Join(dir, "missing")); err == nil {
			t.Error("Resolve() expected error")
		}
	})

	t.Run("directory", func(t *testing.T) {
		if _, err := m.Resolve(dir); err == nil {
			t.Error("Resolve() expected error for directory")
		}
	})

	t.Run("socket", func(t *testing.T) {
		sock := filepath.Join(dir, "s.sock")
		l, err := net.Listen("unix", sock)
		if err != nil {
			t.Skipf("unix sockets unavailable: %v", err)
		}
		defer l.Close()
		if _, err := m.Resolve(sock); err == nil {
			t.Error("Resolve() expected error for socket")
		}
	})
}

func TestOSFilesystemManager_ReadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hosts")
	if err := os.WriteFile(file, []byte("::1 localhost\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewOSFilesystemManager()
	p, err := m.Resolve(file)
	if err != nil {
		t.Fatal(err)
	}

	got, err := m.ReadFile(p)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "::1 localhost\n" {
		t.Errorf("ReadFile() = %q", got)
	}

	if err := os.Remove(file); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ReadFile(p); err == nil {
		t.Error("ReadFile() expected error after removal")
	}
}
