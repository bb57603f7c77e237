package filestore

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

func newLockID() string {
	return uuid.NewString()
}

// lockOwner describes the current process for lock diagnostics.
func lockOwner() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("pid %d on %s", os.Getpid(), host)
}

// writeLockInfo records info in the held lock file. Failures only cost
// diagnostics, so they are ignored.
func writeLockInfo(f *os.File, info *LockInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := f.Truncate(0); err != nil {
		return
	}
	f.WriteAt(data, 0)
}

// readLockInfo returns the holder recorded in the lock file at path, or nil.
func readLockInfo(path string) *LockInfo {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil
	}
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil
	}
	return &info
}
