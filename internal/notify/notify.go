// Package notify carries transient user-facing notifications out of the
// state layer. The CLI logs them; tests record them.
package notify

import (
	"log"
	"sync"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Log writes notifications through the standard logger.
type Log struct{}

func (Log) Success(msg string) { log.Printf("%s", msg) }
func (Log) Error(msg string)   { log.Printf("ERROR %s", msg) }

// Nop discards notifications.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}

// Recorder keeps every notification for inspection.
type Recorder struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	r.Successes = append(r.Successes, msg)
	r.mu.Unlock()
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	r.Errors = append(r.Errors, msg)
	r.mu.Unlock()
}
