package export

import "errors"

// ErrNoRecords is returned when a report is requested over an empty
// collection or an empty filtered set.
var ErrNoRecords = errors.New("no records to export")
