package gantt

// ValidateTask checks a single task in isolation.
func ValidateTask(t Task) error {
	switch {
	case t.ID == "":
		return InvalidTaskError{Reason: "id is required"}
	case !t.Kind.Valid():
		return InvalidTaskError{ID: t.ID, Reason: "unknown kind " + string(t.Kind)}
	case t.Start.IsZero() || t.End.IsZero():
		return InvalidTaskError{ID: t.ID, Reason: "start and end are required"}
	case t.Start.After(t.End):
		return InvalidTaskError{ID: t.ID, Reason: "start is after end"}
	case t.Progress < 0 || t.Progress > 100:
		return InvalidTaskError{ID: t.ID, Reason: "progress must be within 0-100"}
	case t.BaselineStart.IsZero() != t.BaselineEnd.IsZero():
		return InvalidTaskError{ID: t.ID, Reason: "baseline needs both start and end"}
	case t.HasBaseline() && t.BaselineStart.After(t.BaselineEnd):
		return InvalidTaskError{ID: t.ID, Reason: "baseline start is after baseline end"}
	}
	return nil
}

// Validate checks a whole collection at the host boundary. The chart engine
// itself never calls it and tolerates everything rejected here.
func Validate(tasks []Task, links []Link) error {
	byID := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		if err := ValidateTask(t); err != nil {
			return err
		}
		if _, dup := byID[t.ID]; dup {
			return DuplicateTaskError{ID: t.ID}
		}
		byID[t.ID] = t
	}

	if err := checkParentCycles(tasks, byID); err != nil {
		return err
	}

	for _, l := range links {
		if !l.Type.Valid() {
			return UnknownLinkTypeError{LinkID: l.ID, Type: l.Type}
		}
		if _, ok := byID[l.From]; !ok {
			return DanglingLinkError{LinkID: l.ID, TaskID: l.From}
		}
		if _, ok := byID[l.To]; !ok {
			return DanglingLinkError{LinkID: l.ID, TaskID: l.To}
		}
	}
	return nil
}

// checkParentCycles walks every parent chain once, colouring nodes
// done as soon as their chain is known to reach a root.
func checkParentCycles(tasks []Task, byID map[string]Task) error {
	done := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		onPath := map[string]bool{}
		var path []string
		for id := t.ID; id != "" && !done[id]; {
			if onPath[id] {
				return CycleError{Path: append(path, id)}
			}
			onPath[id] = true
			path = append(path, id)
			next, ok := byID[id]
			if !ok {
				break
			}
			id = next.ParentID
		}
		for _, id := range path {
			done[id] = true
		}
	}
	return nil
}
