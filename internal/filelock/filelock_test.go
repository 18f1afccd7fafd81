package filelock

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileLock(t *testing.T) {
	tmpDir := t.TempDir()
	lockPath := filepath.Join(tmpDir, "test.lock")

	lock := NewFileLock(lockPath)
	if lock == nil {
		t.Fatal("NewFileLock should not return nil")
	}

	if lock.Path() != lockPath {
		t.Errorf("Expected lock path %s, got %s", lockPath, lock.Path())
	}
}

func TestTryLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	first := NewFileLock(lockPath)
	acquired, err := first.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if !acquired {
		t.Fatal("Expected to acquire free lock")
	}
	defer first.Unlock()

	second := NewFileLock(lockPath)
	acquired, err = second.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if acquired {
		second.Unlock()
		t.Fatal("Expected lock to be held by first locker")
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}
	acquired, err = second.TryLock()
	if err != nil || !acquired {
		t.Fatalf("Expected lock to be free after unlock, acquired=%v err=%v", acquired, err)
	}
	second.Unlock()
}

func TestRunLockPath(t *testing.T) {
	tmpDir := t.TempDir()

	a, err := RunLockPath(filepath.Join(tmpDir, "dst"))
	if err != nil {
		t.Fatalf("RunLockPath failed: %v", err)
	}
	b, err := RunLockPath(filepath.Join(tmpDir, "dst", "..", "dst"))
	if err != nil {
		t.Fatalf("RunLockPath failed: %v", err)
	}
	c, err := RunLockPath(filepath.Join(tmpDir, "other"))
	if err != nil {
		t.Fatalf("RunLockPath failed: %v", err)
	}

	if a != b {
		t.Errorf("Equivalent destinations should share a lock: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("Different destinations should not share a lock: %s", a)
	}
	if filepath.Dir(a) != filepath.Clean(os.TempDir()) {
		t.Errorf("Lock file should live in the temp dir, got %s", a)
	}
	if strings.HasPrefix(a, tmpDir) {
		t.Errorf("Lock file must not be inside the destination tree: %s", a)
	}
}

func TestAcquireRunLock(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "dst")

	lock, err := AcquireRunLock(dest)
	if err != nil {
		t.Fatalf("AcquireRunLock failed: %v", err)
	}

	_, err = AcquireRunLock(dest)
	if !errors.Is(err, ErrLocked) {
		t.Errorf("Expected ErrLocked while the lock is held, got %v", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	again, err := AcquireRunLock(dest)
	if err != nil {
		t.Fatalf("Expected lock to be free after unlock: %v", err)
	}
	again.Unlock()

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("Acquiring the run lock must not create the destination")
	}
}

func TestAtomicWrite(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "test.csv")
	content := []byte("Id,Name\n1,铁剑\n")

	if err := AtomicWrite(targetPath, content, 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	readContent, err := os.ReadFile(targetPath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(readContent) != string(content) {
		t.Errorf("Expected content %q, got %q", string(content), string(readContent))
	}
}

func TestAtomicWriteOverwrite(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "test.csv")

	if err := os.WriteFile(targetPath, []byte("Initial content"), 0644); err != nil {
		t.Fatalf("Failed to write initial file: %v", err)
	}

	newContent := []byte("New content")
	if err := AtomicWrite(targetPath, newContent, 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	readContent, err := os.ReadFile(targetPath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(readContent) != string(newContent) {
		t.Errorf("Expected content %q, got %q", string(newContent), string(readContent))
	}
}

func TestAtomicWritePermissions(t *testing.T) {
	tests := []struct {
		name string
		perm os.FileMode
		want os.FileMode
	}{
		{"zero defaults to 0644", 0, 0644},
		{"explicit 0600", 0600, 0600},
		{"explicit 0755", 0755, 0755},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targetPath := filepath.Join(t.TempDir(), "test.csv")
			if err := AtomicWrite(targetPath, []byte("x"), tt.perm); err != nil {
				t.Fatalf("AtomicWrite failed: %v", err)
			}

			info, err := os.Stat(targetPath)
			if err != nil {
				t.Fatalf("Failed to stat file: %v", err)
			}
			if info.Mode().Perm() != tt.want {
				t.Errorf("Expected permissions %v, got %v", tt.want, info.Mode().Perm())
			}
		})
	}
}

func TestAtomicWriteNoTempFileLeftBehind(t *testing.T) {
	tmpDir := t.TempDir()
	targetPath := filepath.Join(tmpDir, "test.csv")

	if err := AtomicWrite(targetPath, []byte("Test content"), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read directory: %v", err)
	}

	if len(entries) != 1 {
		var files []string
		for _, entry := range entries {
			files = append(files, entry.Name())
		}
		t.Errorf("Expected 1 file, found %d: %v", len(entries), files)
	}
}

func TestAtomicWriteCreateDirectory(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "sub", "deep", "test.csv")

	if err := AtomicWrite(targetPath, []byte("nested"), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	if _, err := os.Stat(targetPath); err != nil {
		t.Errorf("Expected nested file to exist: %v", err)
	}
}

func TestAtomicWriteFailsWhenParentIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "sub")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0644); err != nil {
		t.Fatalf("Failed to write blocker: %v", err)
	}

	err := AtomicWrite(filepath.Join(blocker, "test.csv"), []byte("x"), 0644)
	if err == nil {
		t.Fatal("Expected error when parent path is a regular file")
	}
	if !strings.Contains(err.Error(), "failed to create directory") {
		t.Errorf("Unexpected error: %v", err)
	}
}
