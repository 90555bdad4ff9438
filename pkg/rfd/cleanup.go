package rfd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults for removing working copies at the end of a run.
const (
	DefaultCleanupAttempts = 5
	DefaultCleanupPause    = time.Second
)

// Cleanup removes the given working copies, retrying each up to attempts
// times with pause between tries. A path that is already gone counts as
// removed. It returns the paths that could not be removed.
func Cleanup(log logrus.FieldLogger, paths []string, attempts int, pause time.Duration) []string {
	if attempts < 1 {
		attempts = 1
	}

	var left []string
	for _, path := range paths {
		if !removeWithRetry(log, path, attempts, pause) {
			log.WithField("file", path).Error("could not delete working copy")
			left = append(left, path)
		}
	}
	if len(paths) > 0 {
		log.WithField("removed", len(paths)-len(left)).Debug("cleanup finished")
	}
	return left
}

func removeWithRetry(log logrus.FieldLogger, path string, attempts int, pause time.Duration) bool {
	for attempt := 1; attempt <= attempts; attempt++ {
		err := os.Remove(path)
		if err == nil || os.IsNotExist(err) {
			log.WithField("file", path).Debug("deleted working copy")
			return true
		}
		log.WithError(err).WithFields(logrus.Fields{"file": path, "attempt": attempt}).Warn("delete failed")
		if attempt < attempts && pause > 0 {
			time.Sleep(pause)
		}
	}
	return false
}
