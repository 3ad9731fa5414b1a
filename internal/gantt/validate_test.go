package gantt

import (
	"errors"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestValidate_Accepts(t *testing.T) {
	tasks := []Task{
		{ID: "g", Name: "Group", Kind: KindGroup, Start: day(1), End: day(20)},
		{ID: "a", Name: "A", Start: day(1), End: day(5), ParentID: "g", Progress: 50},
		{ID: "m", Name: "M", Kind: KindMilestone, Start: day(6), End: day(6)},
	}
	links := []Link{{ID: "l1", From: "a", To: "m", Type: FinishToStart}}

	if err := Validate(tasks, links); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidate_Duplicate(t *testing.T) {
	tasks := []Task{
		{ID: "a", Start: day(1), End: day(2)},
		{ID: "a", Start: day(1), End: day(2)},
	}
	var dup DuplicateTaskError
	if err := Validate(tasks, nil); !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateTaskError, got %v", err)
	}
}

func TestValidate_InvertedDates(t *testing.T) {
	err := Validate([]Task{{ID: "a", Start: day(5), End: day(2)}}, nil)
	var inv InvalidTaskError
	if !errors.As(err, &inv) || inv.ID != "a" {
		t.Fatalf("expected InvalidTaskError for a, got %v", err)
	}
}

func TestValidate_HalfBaseline(t *testing.T) {
	err := ValidateTask(Task{ID: "a", Start: day(1), End: day(2), BaselineStart: day(1)})
	if err == nil {
		t.Fatal("expected error for baseline missing its end")
	}
}

func TestValidate_ParentCycle(t *testing.T) {
	tasks := []Task{
		{ID: "a", Start: day(1), End: day(2), ParentID: "c"},
		{ID: "b", Start: day(1), End: day(2), ParentID: "a"},
		{ID: "c", Start: day(1), End: day(2), ParentID: "b"},
	}
	var cyc CycleError
	if err := Validate(tasks, nil); !errors.As(err, &cyc) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(cyc.Path) != 4 || cyc.Path[0] != cyc.Path[3] {
		t.Errorf("expected closed path of 4, got %v", cyc.Path)
	}
}

func TestValidate_OrphanIsNotCycle(t *testing.T) {
	tasks := []Task{{ID: "a", Start: day(1), End: day(2), ParentID: "missing"}}
	if err := Validate(tasks, nil); err != nil {
		t.Fatalf("orphans are promoted to roots, got %v", err)
	}
}

func TestValidate_Links(t *testing.T) {
	tasks := []Task{{ID: "a", Start: day(1), End: day(2)}}

	var dangling DanglingLinkError
	err := Validate(tasks, []Link{{ID: "l", From: "a", To: "zz", Type: FinishToStart}})
	if !errors.As(err, &dangling) || dangling.TaskID != "zz" {
		t.Fatalf("expected DanglingLinkError for zz, got %v", err)
	}

	var unknown UnknownLinkTypeError
	err = Validate(tasks, []Link{{ID: "l", From: "a", To: "a", Type: "XX"}})
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownLinkTypeError, got %v", err)
	}
}
