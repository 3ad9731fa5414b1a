// Package project reads and writes portable project files: a task list and
// its dependency links, as YAML or JSON.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/imkarma/gantt/internal/gantt"
)

// Project is a named task collection.
type Project struct {
	Name  string
	Tasks []gantt.Task
	Links []gantt.Link
}

// file is the on-disk shape. Dates are written as YYYY-MM-DD when they fall
// on midnight and RFC 3339 otherwise.
type file struct {
	Name  string       `yaml:"name" json:"name"`
	Tasks []fileTask   `yaml:"tasks" json:"tasks"`
	Links []gantt.Link `yaml:"links,omitempty" json:"links,omitempty"`
}

type fileTask struct {
	ID            string  `yaml:"id" json:"id"`
	Name          string  `yaml:"name" json:"name"`
	Kind          string  `yaml:"kind,omitempty" json:"kind,omitempty"`
	Start         string  `yaml:"start" json:"start"`
	End           string  `yaml:"end" json:"end"`
	Progress      float64 `yaml:"progress" json:"progress"`
	BaselineStart string  `yaml:"baseline_start,omitempty" json:"baseline_start,omitempty"`
	BaselineEnd   string  `yaml:"baseline_end,omitempty" json:"baseline_end,omitempty"`
	ParentID      string  `yaml:"parent_id,omitempty" json:"parent_id,omitempty"`
	Critical      bool    `yaml:"critical,omitempty" json:"critical,omitempty"`
	Disabled      bool    `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Color         string  `yaml:"color,omitempty" json:"color,omitempty"`
}

const dateLayout = "2006-01-02"

// Load reads a project file, choosing the decoder by extension and falling
// back to content sniffing. The result is validated.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	var p *Project
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".json", ext != ".yaml" && ext != ".yml" && gjson.ValidBytes(data):
		p, err = DecodeJSON(data)
	default:
		p, err = DecodeYAML(data)
	}
	if err != nil {
		return nil, err
	}

	if err := gantt.Validate(p.Tasks, p.Links); err != nil {
		return nil, fmt.Errorf("validate project: %w", err)
	}
	return p, nil
}

// Save writes p as JSON when path ends in .json and as YAML otherwise.
func Save(path string, p *Project) error {
	f := toFile(p)

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(f, "", "  ")
	} else {
		data, err = yaml.Marshal(f)
	}
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DecodeYAML parses the YAML project format.
func DecodeYAML(data []byte) (*Project, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}

	p := &Project{Name: f.Name, Links: f.Links}
	for i := range p.Links {
		p.Links[i].Type = ParseLinkType(string(p.Links[i].Type))
	}
	for i, ft := range f.Tasks {
		t, err := ft.task()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		p.Tasks = append(p.Tasks, t)
	}
	fillIDs(p)
	return p, nil
}

// DecodeJSON parses JSON project files. Besides the native snake_case keys
// it accepts the camelCase keys and "dependencies" list written by web gantt
// components, and dates given as epoch milliseconds.
func DecodeJSON(data []byte) (*Project, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse project: invalid JSON")
	}
	root := gjson.ParseBytes(data)

	p := &Project{Name: root.Get("name").String()}

	var err error
	root.Get("tasks").ForEach(func(_, item gjson.Result) bool {
		var t gantt.Task
		if t, err = jsonTask(item); err != nil {
			err = fmt.Errorf("task %d: %w", len(p.Tasks), err)
			return false
		}
		p.Tasks = append(p.Tasks, t)
		return true
	})
	if err != nil {
		return nil, err
	}

	links := root.Get("links")
	if !links.Exists() {
		links = root.Get("dependencies")
	}
	links.ForEach(func(_, item gjson.Result) bool {
		p.Links = append(p.Links, gantt.Link{
			ID:      first(item, "id").String(),
			From:    first(item, "from", "source", "predecessor").String(),
			To:      first(item, "to", "target", "successor").String(),
			Type:    ParseLinkType(first(item, "type").String()),
			LagDays: int(first(item, "lag_days", "lagDays", "lag").Int()),
		})
		return true
	})

	fillIDs(p)
	return p, nil
}

func jsonTask(item gjson.Result) (gantt.Task, error) {
	t := gantt.Task{
		ID:       first(item, "id").String(),
		Name:     first(item, "name", "title").String(),
		Kind:     gantt.Kind(first(item, "kind", "type").String()),
		Progress: first(item, "progress").Float(),
		ParentID: first(item, "parent_id", "parentId", "parent").String(),
		Critical: first(item, "critical", "isCritical").Bool(),
		Disabled: first(item, "disabled", "isDisabled").Bool(),
		Color:    first(item, "color").String(),
	}
	if t.Kind == "project" {
		t.Kind = gantt.KindGroup
	}

	dates := []struct {
		dst  *time.Time
		keys []string
	}{
		{&t.Start, []string{"start"}},
		{&t.End, []string{"end"}},
		{&t.BaselineStart, []string{"baseline_start", "baselineStart"}},
		{&t.BaselineEnd, []string{"baseline_end", "baselineEnd"}},
	}
	for _, d := range dates {
		v := first(item, d.keys...)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if v.Type == gjson.Number {
			*d.dst = time.UnixMilli(v.Int())
			continue
		}
		parsed, err := ParseDate(v.String())
		if err != nil {
			return gantt.Task{}, fmt.Errorf("%s: %w", d.keys[0], err)
		}
		*d.dst = parsed
	}
	return t, nil
}

// first returns the first of keys present on item.
func first(item gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// ParseLinkType accepts the short codes and their spelled-out forms.
func ParseLinkType(s string) gantt.LinkType {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch key {
	case "fs", "finishtostart", "":
		return gantt.FinishToStart
	case "ss", "starttostart":
		return gantt.StartToStart
	case "ff", "finishtofinish":
		return gantt.FinishToFinish
	case "sf", "starttofinish":
		return gantt.StartToFinish
	}
	return gantt.LinkType(s)
}

// ParseDate accepts YYYY-MM-DD (local midnight) and RFC 3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// FormatDate is the inverse of ParseDate. The zero time formats empty.
func FormatDate(t time.Time) string {
	switch {
	case t.IsZero():
		return ""
	case t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0:
		return t.Format(dateLayout)
	default:
		return t.Format(time.RFC3339)
	}
}

func (ft fileTask) task() (gantt.Task, error) {
	t := gantt.Task{
		ID:       ft.ID,
		Name:     ft.Name,
		Kind:     gantt.Kind(ft.Kind),
		Progress: ft.Progress,
		ParentID: ft.ParentID,
		Critical: ft.Critical,
		Disabled: ft.Disabled,
		Color:    ft.Color,
	}
	fields := []struct {
		dst  *time.Time
		src  string
		name string
	}{
		{&t.Start, ft.Start, "start"},
		{&t.End, ft.End, "end"},
		{&t.BaselineStart, ft.BaselineStart, "baseline_start"},
		{&t.BaselineEnd, ft.BaselineEnd, "baseline_end"},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		v, err := ParseDate(f.src)
		if err != nil {
			return gantt.Task{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	return t, nil
}

func toFile(p *Project) file {
	f := file{Name: p.Name, Links: p.Links}
	for _, t := range p.Tasks {
		f.Tasks = append(f.Tasks, fileTask{
			ID:            t.ID,
			Name:          t.Name,
			Kind:          string(t.Kind),
			Start:         FormatDate(t.Start),
			End:           FormatDate(t.End),
			Progress:      t.Progress,
			BaselineStart: FormatDate(t.BaselineStart),
			BaselineEnd:   FormatDate(t.BaselineEnd),
			ParentID:      t.ParentID,
			Critical:      t.Critical,
			Disabled:      t.Disabled,
			Color:         t.Color,
		})
	}
	return f
}

// fillIDs gives every task and link without an id a fresh one.
func fillIDs(p *Project) {
	for i := range p.Tasks {
		if p.Tasks[i].ID == "" {
			p.Tasks[i].ID = NewID()
		}
	}
	for i := range p.Links {
		if p.Links[i].ID == "" {
			p.Links[i].ID = NewID()
		}
	}
}

// NewID returns a short random id for tasks and links.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
