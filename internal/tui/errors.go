package tui

import "fmt"

// failMsg wraps an operation error into the message the Update loop routes
// to the status line.
func failMsg(op string, err error) errorMsg {
	return errorMsg{err: fmt.Errorf("%s: %w", op, err)}
}
