package knownhosts

import "errors"

// ErrFileMissing is returned by Load when the known_hosts file does not exist.
var ErrFileMissing = errors.New("known_hosts file does not exist")

// warning marks errors that leave the store untouched and should be shown to
// the user as a hint rather than a failure.
type warning string

func (w warning) Error() string { return string(w) }

const (
	ErrNoSelection     warning = "no entry selected"
	ErrIndexOutOfRange warning = "entry index out of range"
	ErrEmptyHost       warning = "host must not be empty"
	ErrInvalidHost     warning = "host must not contain whitespace"
	ErrNotDeleted      warning = "entry is not in the deleted set"
)

// IsWarning reports whether err is a warning-class result: the operation was a
// no-op and nothing was written.
func IsWarning(err error) bool {
	var w warning
	return errors.As(err, &w)
}
