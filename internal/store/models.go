package store

import "time"

// Event types recorded in the audit log.
const (
	EventCreated   = "created"
	EventMoved     = "moved"
	EventResized   = "resized"
	EventProgress  = "progress"
	EventBaseline  = "baseline"
	EventCollapsed = "collapsed"
	EventExpanded  = "expanded"
	EventLinked    = "linked"
	EventUnlinked  = "unlinked"
	EventImported  = "imported"
)

// Event represents something that happened to a task.
type Event struct {
	ID        int64     `json:"id"`
	TaskID    string    `json:"task_id"`
	Source    string    `json:"source,omitempty"` // cli, tui, import
	Type      string    `json:"event_type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
