package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// WritePidFile writes the pid of the current process to the given path.
// The write is atomic so a crashed daemon never leaves a half-written file.
func WritePidFile(path string) error {
	pid := fmt.Sprintf("%d\n", os.Getpid())
	return atomic.WriteFile(path, strings.NewReader(pid))
}

func RemovePidFile(path string) error {
	return os.Remove(path)
}
