package waypoint

import (
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// Sentinel errors, re-exported from router.
var (
	ErrNotAttached        = router.ErrNotAttached
	ErrIllegalDestination = router.ErrIllegalDestination
	ErrMissingArgs        = router.ErrMissingArgs
	ErrCannotGoBack       = router.ErrCannotGoBack
	ErrEntryClosed        = router.ErrEntryClosed
)

// IsNotAttached checks if an error reports an accessor used outside a rendered entry.
func IsNotAttached(err error) bool {
	return router.IsNotAttached(err)
}

// IsIllegalDestination checks if an error reports a destination the controller does
// not accept.
func IsIllegalDestination(err error) bool {
	return router.IsIllegalDestination(err)
}

// IsEntryClosed checks if an error reports a model requested while an entry animates out.
func IsEntryClosed(err error) bool {
	return router.IsEntryClosed(err)
}

// IsMissingArgs checks if an error reports absent or mistyped arguments.
func IsMissingArgs(err error) bool {
	return router.IsMissingArgs(err)
}
