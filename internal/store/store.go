package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/imkarma/gantt/internal/gantt"
)

// Store persists a project's tasks, links, collapsed groups and event log.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode so the TUI and CLI can share the file.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		position          INTEGER NOT NULL,
		name              TEXT NOT NULL DEFAULT '',
		kind              TEXT NOT NULL DEFAULT 'task',
		start_ms          INTEGER NOT NULL,
		end_ms            INTEGER NOT NULL,
		progress          REAL NOT NULL DEFAULT 0,
		baseline_start_ms INTEGER,
		baseline_end_ms   INTEGER,
		parent_id         TEXT DEFAULT '',
		critical          INTEGER NOT NULL DEFAULT 0,
		disabled          INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS links (
		id        TEXT PRIMARY KEY,
		from_id   TEXT NOT NULL,
		to_id     TEXT NOT NULL,
		type      TEXT NOT NULL DEFAULT 'FS',
		lag_days  INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS collapsed (
		task_id TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id     TEXT NOT NULL,
		source      TEXT DEFAULT '',
		event_type  TEXT NOT NULL,
		content     TEXT DEFAULT '',
		timestamp   DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Migrate existing databases: add new columns if missing.
	s.addColumnIfMissing("tasks", "color", "TEXT DEFAULT ''")

	return nil
}

// addColumnIfMissing adds a column to a table if it doesn't exist yet.
// Used for schema migrations on existing databases.
func (s *Store) addColumnIfMissing(table, column, colDef string) {
	rows, err := s.db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return
	}

	found := false
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dfltValue *string
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			rows.Close()
			return
		}
		if name == column {
			found = true
		}
	}
	rows.Close()

	if !found {
		s.db.Exec("ALTER TABLE " + table + " ADD COLUMN " + column + " " + colDef)
	}
}

// --- Tasks ---

// taskColumns is the standard column list for task queries.
const taskColumns = `id, name, kind, start_ms, end_ms, progress, baseline_start_ms, baseline_end_ms, parent_id, critical, disabled, color`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// CreateTask validates t and appends it after the existing tasks.
func (s *Store) CreateTask(t gantt.Task, source string) (*gantt.Task, error) {
	if err := gantt.ValidateTask(t); err != nil {
		return nil, err
	}
	if _, err := s.GetTask(t.ID); err == nil {
		return nil, gantt.DuplicateTaskError{ID: t.ID}
	}

	var pos int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM tasks`).Scan(&pos); err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}
	if err := insertTask(s.db, t, pos); err != nil {
		return nil, err
	}

	s.AddEvent(t.ID, source, EventCreated, fmt.Sprintf("Task created: %s (%s to %s)", t.Name, day(t.Start), day(t.End)))
	return &t, nil
}

func insertTask(db execer, t gantt.Task, pos int) error {
	kind := t.Kind
	if kind == "" {
		kind = gantt.KindTask
	}
	_, err := db.Exec(
		`INSERT INTO tasks (`+taskColumns+`, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, string(kind), millis(t.Start), millis(t.End), t.Progress,
		nullMillis(t.BaselineStart), nullMillis(t.BaselineEnd),
		t.ParentID, t.Critical, t.Disabled, t.Color, pos,
	)
	if err != nil {
		return fmt.Errorf("insert task %s: %w", t.ID, err)
	}
	return nil
}

// GetTask returns a single task by ID.
func (s *Store) GetTask(id string) (*gantt.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gantt.TaskNotFoundError{ID: id}
	}
	return t, err
}

// ListTasks returns all tasks in insertion order.
func (s *Store) ListTasks() ([]gantt.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []gantt.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateDates reschedules a task. Resize distinguishes the event type.
func (s *Store) UpdateDates(id string, start, end time.Time, resize bool, source string) error {
	old, err := s.GetTask(id)
	if err != nil {
		return err
	}
	if start.After(end) {
		return gantt.InvalidTaskError{ID: id, Reason: "start is after end"}
	}

	_, err = s.db.Exec(
		`UPDATE tasks SET start_ms = ?, end_ms = ? WHERE id = ?`,
		millis(start), millis(end), id,
	)
	if err != nil {
		return fmt.Errorf("update dates: %w", err)
	}

	eventType := EventMoved
	if resize {
		eventType = EventResized
	}
	s.AddEvent(id, source, eventType, fmt.Sprintf("%s to %s (was %s to %s)",
		day(start), day(end), day(old.Start), day(old.End)))
	return nil
}

// SetProgress updates completion, clamped to [0,100].
func (s *Store) SetProgress(id string, progress float64, source string) error {
	if _, err := s.GetTask(id); err != nil {
		return err
	}
	progress = max(0, min(100, progress))

	if _, err := s.db.Exec(`UPDATE tasks SET progress = ? WHERE id = ?`, progress, id); err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	s.AddEvent(id, source, EventProgress, fmt.Sprintf("Progress set to %.0f%%", progress))
	return nil
}

// DeleteTask removes a task with its links. Children move up to the
// deleted task's parent.
func (s *Store) DeleteTask(id string) error {
	t, err := s.GetTask(id)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmts := []struct {
		query string
		args  []any
	}{
		{`UPDATE tasks SET parent_id = ? WHERE parent_id = ?`, []any{t.ParentID, id}},
		{`DELETE FROM links WHERE from_id = ? OR to_id = ?`, []any{id, id}},
		{`DELETE FROM collapsed WHERE task_id = ?`, []any{id}},
		{`DELETE FROM tasks WHERE id = ?`, []any{id}},
	}
	for _, st := range stmts {
		if _, err := tx.Exec(st.query, st.args...); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
	}
	return tx.Commit()
}

// CaptureBaseline copies current dates into the baseline of the given
// tasks, or of every task when ids is empty. It returns the number updated.
func (s *Store) CaptureBaseline(source string, ids ...string) (int, error) {
	if len(ids) == 0 {
		tasks, err := s.ListTasks()
		if err != nil {
			return 0, err
		}
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}
	}

	n := 0
	for _, id := range ids {
		res, err := s.db.Exec(
			`UPDATE tasks SET baseline_start_ms = start_ms, baseline_end_ms = end_ms WHERE id = ?`, id,
		)
		if err != nil {
			return n, fmt.Errorf("capture baseline: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return n, gantt.TaskNotFoundError{ID: id}
		}
		n++
		s.AddEvent(id, source, EventBaseline, "Baseline captured")
	}
	return n, nil
}

// --- Links ---

// AddLink stores a dependency between two existing tasks.
func (s *Store) AddLink(l gantt.Link, source string) error {
	if !l.Type.Valid() {
		return gantt.UnknownLinkTypeError{LinkID: l.ID, Type: l.Type}
	}
	for _, id := range []string{l.From, l.To} {
		if _, err := s.GetTask(id); err != nil {
			return gantt.DanglingLinkError{LinkID: l.ID, TaskID: id}
		}
	}
	if err := insertLink(s.db, l); err != nil {
		return err
	}
	s.AddEvent(l.From, source, EventLinked, fmt.Sprintf("%s %s -> %s", l.Type, l.From, l.To))
	return nil
}

func insertLink(db execer, l gantt.Link) error {
	_, err := db.Exec(
		`INSERT INTO links (id, from_id, to_id, type, lag_days) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.From, l.To, string(l.Type), l.LagDays,
	)
	if err != nil {
		return fmt.Errorf("insert link %s: %w", l.ID, err)
	}
	return nil
}

// ListLinks returns all links in id order.
func (s *Store) ListLinks() ([]gantt.Link, error) {
	rows, err := s.db.Query(`SELECT id, from_id, to_id, type, lag_days FROM links ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var links []gantt.Link
	for rows.Next() {
		var l gantt.Link
		var lt string
		if err := rows.Scan(&l.ID, &l.From, &l.To, &lt, &l.LagDays); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		l.Type = gantt.LinkType(lt)
		links = append(links, l)
	}
	return links, rows.Err()
}

// DeleteLink removes a link by id.
func (s *Store) DeleteLink(id, source string) error {
	var from string
	err := s.db.QueryRow(`SELECT from_id FROM links WHERE id = ?`, id).Scan(&from)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("link %q not found", id)
	}
	if err != nil {
		return fmt.Errorf("get link: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM links WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	s.AddEvent(from, source, EventUnlinked, "Link "+id+" removed")
	return nil
}

// --- Collapsed groups ---

// SetCollapsed records whether a group is collapsed.
func (s *Store) SetCollapsed(taskID string, collapsed bool, source string) error {
	query := `DELETE FROM collapsed WHERE task_id = ?`
	eventType := EventExpanded
	if collapsed {
		query = `INSERT OR IGNORE INTO collapsed (task_id) VALUES (?)`
		eventType = EventCollapsed
	}
	if _, err := s.db.Exec(query, taskID); err != nil {
		return fmt.Errorf("set collapsed: %w", err)
	}
	s.AddEvent(taskID, source, eventType, "")
	return nil
}

// ListCollapsed returns the collapsed group ids.
func (s *Store) ListCollapsed() ([]string, error) {
	rows, err := s.db.Query(`SELECT task_id FROM collapsed ORDER BY task_id`)
	if err != nil {
		return nil, fmt.Errorf("query collapsed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan collapsed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --- Project ---

// Replace swaps the whole task and link set in one transaction, as import
// does. Collapsed state is cleared; the event log is kept.
func (s *Store) Replace(name string, tasks []gantt.Task, links []gantt.Link, source string) error {
	if err := gantt.Validate(tasks, links); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{`DELETE FROM links`, `DELETE FROM tasks`, `DELETE FROM collapsed`} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}
	for i, t := range tasks {
		if err := insertTask(tx, t, i); err != nil {
			return err
		}
	}
	for _, l := range links {
		if err := insertLink(tx, l); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('name', ?)`, name); err != nil {
		return fmt.Errorf("set name: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.AddEvent("", source, EventImported, fmt.Sprintf("Imported %d tasks and %d links", len(tasks), len(links)))
	return nil
}

// ProjectName returns the name stored by the last import.
func (s *Store) ProjectName() string {
	var name string
	s.db.QueryRow(`SELECT value FROM meta WHERE key = 'name'`).Scan(&name)
	return name
}

// SetProjectName renames the project.
func (s *Store) SetProjectName(name string) error {
	if _, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('name', ?)`, name); err != nil {
		return fmt.Errorf("set name: %w", err)
	}
	return nil
}

// --- Events ---

// AddEvent records an event for a task. An empty task id is project-wide.
func (s *Store) AddEvent(taskID, source, eventType, content string) {
	now := time.Now().UTC()
	s.db.Exec(
		`INSERT INTO events (task_id, source, event_type, content, timestamp) VALUES (?, ?, ?, ?, ?)`,
		taskID, source, eventType, content, now,
	)
}

// GetEvents returns all events for a task, oldest first.
func (s *Store) GetEvents(taskID string) ([]Event, error) {
	return s.queryEvents(
		`SELECT id, task_id, source, event_type, content, timestamp FROM events WHERE task_id = ? ORDER BY id`,
		taskID,
	)
}

// RecentEvents returns the latest events across the project, newest first.
func (s *Store) RecentEvents(limit int) ([]Event, error) {
	return s.queryEvents(
		`SELECT id, task_id, source, event_type, content, timestamp FROM events ORDER BY id DESC LIMIT ?`,
		limit,
	)
}

func (s *Store) queryEvents(query string, args ...any) ([]Event, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Source, &e.Type, &e.Content, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// --- Scanning ---

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*gantt.Task, error) {
	var t gantt.Task
	var kind string
	var startMs, endMs int64
	var baseStart, baseEnd sql.NullInt64
	var parentID, color sql.NullString
	err := row.Scan(
		&t.ID, &t.Name, &kind, &startMs, &endMs, &t.Progress,
		&baseStart, &baseEnd, &parentID, &t.Critical, &t.Disabled, &color,
	)
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Kind = gantt.Kind(kind)
	t.Start = time.UnixMilli(startMs)
	t.End = time.UnixMilli(endMs)
	if baseStart.Valid && baseEnd.Valid {
		t.BaselineStart = time.UnixMilli(baseStart.Int64)
		t.BaselineEnd = time.UnixMilli(baseEnd.Int64)
	}
	t.ParentID = parentID.String
	t.Color = color.String
	return &t, nil
}

func millis(t time.Time) int64 { return t.UnixMilli() }

func nullMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func day(t time.Time) string { return t.Format("2006-01-02") }
