// Package werr is the fatal error sink of the library. Every error the
// evaluator can hit is terminal: the diagnostic is written to standard error
// and the registered handler decides what happens next. The default handler
// exits the process; tests swap it out to observe the code instead.
package werr

import (
	"fmt"
	"os"
	"sync/atomic"
)

// Code identifies one of the finite error kinds.
type Code int

const (
	OutOfMemory Code = iota
	FactorialTooLarge
	NotInitialized
	BadSymbolKind
)

// String returns the string representation of the error Code.
func (c Code) String() string {
	switch c {
	case OutOfMemory:
		return "OutOfMemory"
	case FactorialTooLarge:
		return "FactorialTooLarge"
	case NotInitialized:
		return "NotInitialized"
	case BadSymbolKind:
		return "BadSymbolKind"
	default:
		return "Unknown"
	}
}

// Handler consumes a fatal error code after the diagnostic line has been
// written. A handler that returns lets the failing call return a zero value,
// which only makes sense under test.
type Handler func(Code)

var handler atomic.Value

func init() {
	handler.Store(Handler(func(Code) {
		os.Exit(1)
	}))
}

// SetHandler replaces the process-wide fatal handler. A nil handler restores
// the default, which terminates the process.
func SetHandler(h Handler) {
	if h == nil {
		h = func(Code) { os.Exit(1) }
	}
	handler.Store(h)
}

// Fatal reports a terminal condition: it writes one diagnostic line naming
// the error kind and the call-site context to standard error, then invokes
// the registered handler.
func Fatal(code Code, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "wigxj: %v: %s\n", code, fmt.Sprintf(format, args...))
	handler.Load().(Handler)(code)
}
