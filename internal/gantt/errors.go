package gantt

import (
	"fmt"
	"strings"
)

// TaskNotFoundError indicates a task id that matches nothing.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// DuplicateTaskError indicates two tasks sharing one id.
type DuplicateTaskError struct {
	ID string
}

func (e DuplicateTaskError) Error() string {
	return fmt.Sprintf("duplicate task id: %s", e.ID)
}

// InvalidTaskError indicates a task whose fields cannot be charted.
type InvalidTaskError struct {
	ID     string
	Reason string
}

func (e InvalidTaskError) Error() string {
	if e.ID == "" {
		return "invalid task: " + e.Reason
	}
	return fmt.Sprintf("invalid task %s: %s", e.ID, e.Reason)
}

// CycleError indicates a chain of parent references that loops back.
type CycleError struct {
	Path []string
}

func (e CycleError) Error() string {
	return "parent cycle: " + strings.Join(e.Path, " -> ")
}

// DanglingLinkError indicates a link endpoint that names no task.
type DanglingLinkError struct {
	LinkID string
	TaskID string
}

func (e DanglingLinkError) Error() string {
	return fmt.Sprintf("link %s references unknown task %s", e.LinkID, e.TaskID)
}

// UnknownLinkTypeError indicates a link type outside FS, SS, FF, SF.
type UnknownLinkTypeError struct {
	LinkID string
	Type   LinkType
}

func (e UnknownLinkTypeError) Error() string {
	return fmt.Sprintf("link %s has unknown type %q (valid: FS, SS, FF, SF)", e.LinkID, e.Type)
}
