// Package hierarchy flattens a parent-referencing task list into display
// order and tracks which groups the user has collapsed.
package hierarchy

import "github.com/imkarma/gantt/internal/gantt"

// Entry is one task in flattened display order.
type Entry struct {
	Task        gantt.Task
	Level       int
	Visible     bool
	Collapsed   bool
	HasChildren bool
}

// index maps each task id to the positions of its children in the input.
type index struct {
	tasks    []gantt.Task
	children map[string][]int
	roots    []int
}

func buildIndex(tasks []gantt.Task) index {
	ids := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = true
	}

	idx := index{tasks: tasks, children: make(map[string][]int)}
	for i, t := range tasks {
		// Orphans whose parent is absent become roots, as do tasks that
		// name themselves as parent.
		if t.ParentID == "" || t.ParentID == t.ID || !ids[t.ParentID] {
			idx.roots = append(idx.roots, i)
			continue
		}
		idx.children[t.ParentID] = append(idx.children[t.ParentID], i)
	}
	return idx
}

// Flatten walks tasks depth-first from the roots, keeping input order among
// siblings. A task is visible only when every ancestor is visible and not
// collapsed. Each task appears exactly once; tasks trapped in a parent cycle
// are reached by promoting the first unvisited one, in input order, to root.
func Flatten(tasks []gantt.Task, collapsed *Collapsed) []Entry {
	idx := buildIndex(tasks)
	out := make([]Entry, 0, len(tasks))
	visited := make([]bool, len(tasks))

	var walk func(i, level int, visible bool)
	walk = func(i, level int, visible bool) {
		if visited[i] {
			return
		}
		visited[i] = true

		t := tasks[i]
		kids := idx.children[t.ID]
		isCollapsed := collapsed.Has(t.ID)
		out = append(out, Entry{
			Task:        t,
			Level:       level,
			Visible:     visible,
			Collapsed:   isCollapsed,
			HasChildren: len(kids) > 0,
		})

		for _, k := range kids {
			walk(k, level+1, visible && !isCollapsed)
		}
	}

	for _, r := range idx.roots {
		walk(r, 0, true)
	}
	for i := range tasks {
		if !visited[i] {
			walk(i, 0, true)
		}
	}
	return out
}
