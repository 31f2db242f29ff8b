package ipc

// StartRequest triggers a watch session.
type StartRequest struct{}

// StartResponse indicates whether the session was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the watch session.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon and session information.
type StatusResponse struct {
	Running       bool   `json:"running"`
	State         string `json:"state"`
	IncomingDir   string `json:"incoming_dir"`
	SortedDir     string `json:"sorted_dir"`
	Sorted        int    `json:"sorted"`
	Skipped       int    `json:"skipped"`
	Failed        int    `json:"failed"`
	LastError     string `json:"last_error"`
	LastFile      string `json:"last_file"`
	StartedAt     string `json:"started_at"`
	JournalDBPath string `json:"journal_db_path"`
	LockPath      string `json:"lock_path"`
	PID           int    `json:"pid"`
}

// RescanRequest queues events for files already in the incoming directory.
type RescanRequest struct{}

// RescanResponse reports how many files were queued.
type RescanResponse struct {
	Queued int `json:"queued"`
}

// SortFileRequest sorts one file outside the watch session.
type SortFileRequest struct {
	Path string `json:"path"`
}

// SortFileResponse reports where the file ended up.
type SortFileResponse struct {
	Entry HistoryEntry `json:"entry"`
}

// HistoryEntry is the wire representation of a journal row.
type HistoryEntry struct {
	ID           int64  `json:"id"`
	Filename     string `json:"filename"`
	Extension    string `json:"extension"`
	Category     string `json:"category"`
	FinalPath    string `json:"final_path"`
	ArchivePath  string `json:"archive_path"`
	Status       string `json:"status"`
	Collision    bool   `json:"collision"`
	ErrorMessage string `json:"error_message"`
	RecordedAt   string `json:"recorded_at"`
}

// HistoryListRequest filters journal listing by status.
type HistoryListRequest struct {
	Limit    int      `json:"limit"`
	Statuses []string `json:"statuses"`
}

// HistoryListResponse contains journal entries.
type HistoryListResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// HistoryClearRequest removes journal entries. FailedOnly limits the
// deletion to failed outcomes.
type HistoryClearRequest struct {
	FailedOnly bool `json:"failed_only"`
}

// HistoryClearResponse reports number of removed entries.
type HistoryClearResponse struct {
	Removed int64 `json:"removed"`
}

// HistoryStatsRequest fetches aggregate journal counts.
type HistoryStatsRequest struct{}

// HistoryStatsResponse reports journal totals by outcome.
type HistoryStatsResponse struct {
	Total      int `json:"total"`
	Sorted     int `json:"sorted"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
	Collisions int `json:"collisions"`
	Archived   int `json:"archived"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

// PingRequest checks daemon liveness.
type PingRequest struct{}

// PingResponse acknowledges a ping.
type PingResponse struct {
	PID int `json:"pid"`
}
