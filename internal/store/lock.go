package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "contacts-manager/internal/errors"
	"contacts-manager/internal/utils"
)

const (
	lockSuffix      = ".lock"
	minLockBackoff  = time.Millisecond
	maxLockBackoff  = 50 * time.Millisecond
	DefaultLockWait = 10 * time.Second
)

var (
	registryMu sync.Mutex
	registry   = make(map[string]*sync.RWMutex)
)

// pathMutex returns the process-wide mutex guarding path.
func pathMutex(path string) *sync.RWMutex {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	mu, ok := registry[path]
	if !ok {
		mu = &sync.RWMutex{}
		registry[path] = mu
	}
	return mu
}

// acquire takes the in-process lock and then the flock on the sidecar lock
// file of path, shared or exclusive. Both waits together are bounded by
// timeout. The returned func releases everything in reverse order.
func acquire(path string, exclusive bool, timeout time.Duration) (func(), error) {
	if timeout <= 0 {
		timeout = DefaultLockWait
	}
	deadline := time.Now().Add(timeout)

	mu := pathMutex(path)
	tryMu, unlockMu := mu.TryRLock, mu.RUnlock
	if exclusive {
		tryMu, unlockMu = mu.TryLock, mu.Unlock
	}
	if !poll(deadline, func() (bool, error) { return tryMu(), nil }) {
		return nil, apperrors.NewLockTimeoutError(path)
	}

	lockPath := path + lockSuffix
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		if exclusive {
			unlockMu()
			return nil, fmt.Errorf("error opening lock file %s: %w", lockPath, err)
		}
		// Readers on a read-only directory still get the in-process lock.
		utils.LogWarning("Lock file %s unavailable, reading without cross-process lock: %v", lockPath, err)
		return unlockMu, nil
	}

	var flockErr error
	ok := poll(deadline, func() (bool, error) {
		got, err := tryFlock(f, exclusive)
		if err != nil {
			flockErr = err
			return false, err
		}
		return got, nil
	})
	if !ok {
		f.Close()
		unlockMu()
		if flockErr != nil {
			return nil, fmt.Errorf("error locking %s: %w", lockPath, flockErr)
		}
		return nil, apperrors.NewLockTimeoutError(path)
	}

	return func() {
		if err := unflock(f); err != nil {
			utils.LogWarning("Error releasing lock %s: %v", lockPath, err)
		}
		f.Close()
		unlockMu()
	}, nil
}

// poll calls try with growing pauses until it succeeds, fails, or deadline
// passes.
func poll(deadline time.Time, try func() (bool, error)) bool {
	backoff := minLockBackoff
	for {
		ok, err := try()
		if err != nil {
			return false
		}
		if ok {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(backoff)
		if backoff *= 2; backoff > maxLockBackoff {
			backoff = maxLockBackoff
		}
	}
}
