// Package notify turns parse outcomes into user-facing toast messages.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/pesapeak/pesapeak/internal/statement"
)

// Level is the severity of a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Toast is one message shown to the user.
type Toast struct {
	Level   Level
	Message string
}

// Notifier delivers toasts to the user.
type Notifier interface {
	Notify(t Toast)
}

// Summarize returns one error toast per parse error followed by a summary
// toast "N transactions parsed, M errors".
func Summarize(res statement.Result) []Toast {
	toasts := make([]Toast, 0, len(res.Errors)+1)
	for _, e := range res.Errors {
		toasts = append(toasts, Toast{Level: LevelError, Message: e})
	}

	n, m := len(res.Transactions), len(res.Errors)
	level := LevelSuccess
	switch {
	case n == 0:
		level = LevelError
	case m > 0:
		level = LevelWarning
	}
	toasts = append(toasts, Toast{
		Level:   level,
		Message: fmt.Sprintf("%d %s parsed, %d %s", n, plural(n, "transaction"), m, plural(m, "error")),
	})
	return toasts
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// NotifyAll sends every toast to n.
func NotifyAll(n Notifier, toasts []Toast) {
	for _, t := range toasts {
		n.Notify(t)
	}
}

// Console writes one line per toast.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Notify writes t as "[level] message".
func (c *Console) Notify(t Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[%s] %s\n", t.Level, t.Message)
}

// Recorder keeps toasts in memory.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify records t.
func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// Toasts returns a copy of the recorded toasts.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}
