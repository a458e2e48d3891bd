package domain

import "time"

// CleanupResult records the outcome of a best-effort delete. It is logged by
// the caller and never returned as an operation error.
type CleanupResult struct {
	Reference string
	Container string
	Err       error
}

func (r CleanupResult) OK() bool {
	return r.Err == nil
}

type OrphanReason string

const (
	ReasonCommitFailed  OrphanReason = "commit_failed"
	ReasonReplacedImage OrphanReason = "replaced_image"
	ReasonRecordDeleted OrphanReason = "record_deleted"
)

// OrphanTask is a blob whose delete failed and must be retried out of band.
type OrphanTask struct {
	ID        string       `json:"id"`
	Reference string       `json:"reference"`
	Container string       `json:"container"`
	Reason    OrphanReason `json:"reason"`
	Error     string       `json:"error,omitempty"`
	Attempts  int          `json:"attempts"`
	CreatedAt time.Time    `json:"created_at"`
	// NotBefore is when the next delete may be attempted; zero means now.
	NotBefore time.Time `json:"not_before,omitempty"`
}

// Content is the CMS record that owns a thumbnail.
type Content struct {
	ID           int64
	Title        string
	ThumbnailURL string
	UpdatedAt    time.Time
}

const MaxOrphanAttempts = 5
