package lock

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ning0612/pcclean/internal/domain"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	lock, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	expectedPath := filepath.Join(dir, LockFileName)
	if lock.Path() != expectedPath {
		t.Errorf("expected lock path %s, got %s", expectedPath, lock.Path())
	}
	if lock.Held() {
		t.Error("new lock should not be held")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")

	if _, err := New(dir); err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("lock directory was not created: %v", err)
	}
}

func TestAcquireRelease(t *testing.T) {
	dir := t.TempDir()

	lock, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := lock.TryAcquire("once"); err != nil {
		t.Fatalf("TryAcquire failed: %v", err)
	}

	if !lock.Held() {
		t.Error("lock should be held")
	}

	if _, err := os.Stat(filepath.Join(dir, InfoFileName)); err != nil {
		t.Errorf("lock info file missing after acquire: %v", err)
	}

	holder, err := lock.Holder()
	if err != nil {
		t.Fatalf("Holder failed: %v", err)
	}
	if holder.PID != os.Getpid() || holder.Mode != "once" {
		t.Errorf("unexpected holder: %+v", holder)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	if lock.Held() {
		t.Error("lock should not be held after release")
	}
	if _, err := os.Stat(filepath.Join(dir, InfoFileName)); !os.IsNotExist(err) {
		t.Error("lock info file should be removed after release")
	}
}

func TestTryAcquire_Idempotent(t *testing.T) {
	lock, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer lock.Release()

	if err := lock.TryAcquire("once"); err != nil {
		t.Fatalf("first TryAcquire failed: %v", err)
	}
	if err := lock.TryAcquire("once"); err != nil {
		t.Errorf("second TryAcquire on the same instance failed: %v", err)
	}
}

func TestTryAcquire_HeldByOther(t *testing.T) {
	dir := t.TempDir()

	first, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	second, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := first.TryAcquire("schedule"); err != nil {
		t.Fatalf("first TryAcquire failed: %v", err)
	}
	defer first.Release()

	err = second.TryAcquire("once")
	if err == nil {
		second.Release()
		t.Fatal("expected second TryAcquire to fail")
	}

	if !IsLockError(err) {
		t.Errorf("expected LockError, got %T: %v", err, err)
	}
	if !errors.Is(err, domain.ErrRunInProgress) {
		t.Errorf("expected error to match ErrRunInProgress, got %v", err)
	}

	var lockErr *LockError
	if errors.As(err, &lockErr) {
		if lockErr.Holder == nil {
			t.Fatal("expected holder info in LockError")
		}
		if lockErr.Holder.Mode != "schedule" {
			t.Errorf("expected holder mode schedule, got %q", lockErr.Holder.Mode)
		}
	}

	if second.Held() {
		t.Error("second lock should not be held")
	}
}

func TestTryAcquire_AfterRelease(t *testing.T) {
	dir := t.TempDir()

	first, _ := New(dir)
	second, _ := New(dir)

	if err := first.TryAcquire("once"); err != nil {
		t.Fatalf("first TryAcquire failed: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	if err := second.TryAcquire("once"); err != nil {
		t.Fatalf("TryAcquire after release failed: %v", err)
	}
	second.Release()
}

func TestRelease_NotHeld(t *testing.T) {
	lock, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Errorf("Release of unheld lock should be a no-op, got %v", err)
	}
}

func TestHolder_NoLock(t *testing.T) {
	lock, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := lock.Holder(); err == nil {
		t.Error("expected error reading holder when nobody holds the lock")
	}
}

func TestLockError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *LockError
		want []string
	}{
		{
			name: "with holder",
			err:  &LockError{Holder: &LockInfo{PID: 42, Hostname: "box", Mode: "schedule"}, Reason: "busy"},
			want: []string{"busy", "PID 42", "box", "schedule"},
		},
		{
			name: "without holder",
			err:  &LockError{Reason: "busy"},
			want: []string{"cannot acquire lock: busy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("message %q missing %q", msg, w)
				}
			}
		})
	}
}
