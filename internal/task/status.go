package task

// Status is a task's lifecycle state. Done, Failed and Cancelled are
// terminal: a task never leaves them.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusDone
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed || s == StatusCancelled
}

// Kind says what a task does; it selects the worker pool.
type Kind int

const (
	KindDownload Kind = iota
	KindTranscode
)

func (k Kind) String() string {
	switch k {
	case KindDownload:
		return "download"
	case KindTranscode:
		return "transcode"
	default:
		return "unknown"
	}
}
