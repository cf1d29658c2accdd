// Package runlog points the standard logger at the run log file and stderr.
package runlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Flags are the standard logger flags used for every run.
const Flags = log.LstdFlags | log.Lmicroseconds

// Open appends to the log file at path and sends the standard logger to it
// and to stderr, tagging every line with runID. The returned func restores
// the previous logger and closes the file.
func Open(path, runID string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("runlog: open %s: %w", path, err)
	}
	prevOut, prevFlags, prevPrefix := log.Writer(), log.Flags(), log.Prefix()
	Configure(io.MultiWriter(f, os.Stderr), runID)
	return func() error {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		log.SetPrefix(prevPrefix)
		return f.Close()
	}, nil
}

// Configure sends the standard logger to w with the run flags and prefix.
func Configure(w io.Writer, runID string) {
	log.SetOutput(w)
	log.SetFlags(Flags | log.Lmsgprefix)
	if runID != "" {
		log.SetPrefix("run=" + runID + " ")
	} else {
		log.SetPrefix("")
	}
}
