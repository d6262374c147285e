package task

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Task is a snapshot of one unit of background work. Values handed out
// by the Manager are copies; mutating them has no effect on the live
// task.
type Task struct {
	ID     string
	Kind   Kind
	Title  string
	Detail string // source URL or input path

	Status  Status
	Percent float64 // 0..100
	Speed   string
	ETA     string

	DownloadedBytes int64
	TotalBytes      int64

	OutputPath string
	Err        string

	StartedAt  time.Time
	FinishedAt time.Time
}

// Finished reports whether the task reached a terminal state.
func (t Task) Finished() bool { return t.Status.Terminal() }

// Elapsed is the wall time the task has been running.
func (t Task) Elapsed() time.Duration {
	if t.StartedAt.IsZero() {
		return 0
	}
	if !t.FinishedAt.IsZero() {
		return t.FinishedAt.Sub(t.StartedAt)
	}
	return time.Since(t.StartedAt)
}

var idSeq uint64

// NewID returns a process-unique task id such as dl_1700000000_42.
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().Unix(), atomic.AddUint64(&idSeq, 1))
}

func idPrefix(k Kind) string {
	if k == KindTranscode {
		return "tc"
	}
	return "dl"
}
