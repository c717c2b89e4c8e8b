package activity

// Entry is one row of the activity log. Timestamp is an ISO-8601
// string so the persisted layout stays byte-compatible with existing
// activityLog blobs.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
}

// MaxEntries caps the persisted log; the oldest entries are dropped
// first once the cap is reached.
const MaxEntries = 5000
