package router

import (
	"errors"
	"fmt"
)

// Sentinel errors for navigation failures. All of them indicate a programming error
// at the call site except ErrCannotGoBack, which only reports that nothing happened.
var (
	// ErrNotAttached indicates a navigation accessor was used outside a bound
	// controller or storage scope.
	ErrNotAttached = errors.New("not attached to a navigation controller")

	// ErrIllegalDestination indicates the destination is not in the controller's
	// allowed set.
	ErrIllegalDestination = errors.New("destination not allowed")

	// ErrMissingArgs indicates typed navigation arguments were requested where none
	// (or none of the requested type) were stored.
	ErrMissingArgs = errors.New("navigation arguments missing")

	// ErrCannotGoBack is returned by Back when neither the controller nor any parent
	// can pop an entry.
	ErrCannotGoBack = errors.New("cannot go back")

	// ErrEntryClosed indicates a new model was requested for an entry that already
	// left the stack and is only animating out.
	ErrEntryClosed = errors.New("entry closed")
)

// NavigationError describes a failed controller operation.
type NavigationError struct {
	Op          string      // Operation that failed (e.g., "navigate", "restore")
	Destination Destination // Destination involved, if any
	Err         error       // Underlying error
}

func (e *NavigationError) Error() string {
	if e.Destination != "" {
		return fmt.Sprintf("router: %s %q: %v", e.Op, e.Destination, e.Err)
	}
	return fmt.Sprintf("router: %s: %v", e.Op, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

func newError(op string, dest Destination, err error) *NavigationError {
	return &NavigationError{Op: op, Destination: dest, Err: err}
}

// IsNotAttached checks if err reports a missing controller scope.
func IsNotAttached(err error) bool {
	return errors.Is(err, ErrNotAttached)
}

// IsIllegalDestination checks if err reports a destination outside the allowed set.
func IsIllegalDestination(err error) bool {
	return errors.Is(err, ErrIllegalDestination)
}

// IsEntryClosed checks if err reports a model requested on a closed entry.
func IsEntryClosed(err error) bool {
	return errors.Is(err, ErrEntryClosed)
}

// IsMissingArgs checks if err reports absent navigation arguments.
func IsMissingArgs(err error) bool {
	return errors.Is(err, ErrMissingArgs)
}
