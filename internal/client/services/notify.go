package services

import (
	"fmt"
	"io"
	"sync"
)

// Notifier surfaces user-visible success/failure notifications for mutating
// operations (the toast equivalent). Read failures are reported by callers,
// not here.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// WriterNotifier prints notifications to a writer, one per line.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, "OK:", msg)
}

func (n *WriterNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, "FAILED:", msg)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
