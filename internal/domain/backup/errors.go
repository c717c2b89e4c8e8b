package backup

import "errors"

// ErrMalformedBackup is returned when an imported file is not valid
// backup JSON. The live collections are left untouched.
var ErrMalformedBackup = errors.New("malformed backup file")
