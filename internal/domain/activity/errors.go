package activity

import "errors"

// ErrEmptyLog is returned when an export is requested and the
// activity log has no entries.
var ErrEmptyLog = errors.New("activity log is empty")
