package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/Ning0612/pcclean/internal/domain"
)

const (
	// LockFileName is the name of the lock file
	LockFileName = "pcclean.lock"
	// InfoFileName holds the JSON description of the current holder
	InfoFileName = "pcclean.lock.json"
)

// LockInfo contains metadata about the lock holder
type LockInfo struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartTime time.Time `json:"start_time"`
	Mode      string    `json:"mode,omitempty"`
}

// RunLock keeps two pcclean runs from touching the filesystem at once.
// The OS releases the lock if the holder dies, so there is no stale-lock
// detection.
type RunLock struct {
	lockPath string
	infoPath string
	fl       *flock.Flock
	info     *LockInfo
}

// New creates a run lock inside lockDir, creating the directory if needed
func New(lockDir string) (*RunLock, error) {
	if lockDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config dir: %w", err)
		}
		lockDir = filepath.Join(configDir, "pcclean")
	}

	if err := os.MkdirAll(lockDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lockPath := filepath.Join(lockDir, LockFileName)
	return &RunLock{
		lockPath: lockPath,
		infoPath: filepath.Join(lockDir, InfoFileName),
		fl:       flock.New(lockPath),
	}, nil
}

// Path returns the lock file path
func (l *RunLock) Path() string {
	return l.lockPath
}

// TryAcquire takes the lock without blocking.
// Returns *LockError if another process (or another RunLock) holds it.
func (l *RunLock) TryAcquire(mode string) error {
	if l.info != nil {
		return nil
	}

	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		holder, _ := l.readInfo()
		return &LockError{Holder: holder, Reason: "another pcclean run is active"}
	}

	hostname, _ := os.Hostname()
	info := &LockInfo{
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartTime: time.Now(),
		Mode:      mode,
	}

	if err := l.writeInfo(info); err != nil {
		_ = l.fl.Unlock()
		return fmt.Errorf("failed to write lock info: %w", err)
	}

	l.info = info
	return nil
}

// Release releases the lock. Releasing a lock that is not held is a no-op.
func (l *RunLock) Release() error {
	if l.info == nil {
		return nil
	}

	if err := os.Remove(l.infoPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock info: %w", err)
	}

	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}

	l.info = nil
	return nil
}

// Held reports whether this instance holds the lock
func (l *RunLock) Held() bool {
	return l.info != nil
}

// Holder returns information about the current lock holder
func (l *RunLock) Holder() (*LockInfo, error) {
	if l.info != nil {
		info := *l.info
		return &info, nil
	}
	return l.readInfo()
}

func (l *RunLock) readInfo() (*LockInfo, error) {
	data, err := os.ReadFile(l.infoPath)
	if err != nil {
		return nil, err
	}

	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("invalid lock info format: %w", err)
	}

	return &info, nil
}

func (l *RunLock) writeInfo(info *LockInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.infoPath, data, 0644)
}

// LockError represents an error when lock cannot be acquired
type LockError struct {
	Holder *LockInfo
	Reason string
}

func (e *LockError) Error() string {
	if e.Holder != nil {
		return fmt.Sprintf("cannot acquire lock: %s (held by PID %d on %s since %s, mode: %s)",
			e.Reason,
			e.Holder.PID,
			e.Holder.Hostname,
			e.Holder.StartTime.Format(time.RFC3339),
			e.Holder.Mode,
		)
	}
	return fmt.Sprintf("cannot acquire lock: %s", e.Reason)
}

// Unwrap lets callers match the lock error with errors.Is(err, domain.ErrRunInProgress)
func (e *LockError) Unwrap() error {
	return domain.ErrRunInProgress
}

// IsLockError checks if an error is a LockError
func IsLockError(err error) bool {
	_, ok := err.(*LockError)
	return ok
}
