package worker

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func textJob(name, path, body string) Job {
	return Job{Name: name, Path: path, Render: func(w io.Writer) error {
		_, err := io.WriteString(w, body)
		return err
	}}
}

func TestPool_Run_EmptyJobs(t *testing.T) {
	results := NewPool(3).Run(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty jobs, got %d", len(results))
	}
}

func TestPool_RunSequential_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	jobs := []Job{
		textJob("a", filepath.Join(dir, "a.svg"), "<svg/>"),
		textJob("b", filepath.Join(dir, "nested", "b.svg"), "<svg></svg>"),
	}

	results := NewPool(1).Run(context.Background(), jobs)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Status != "done" || r.Error != nil {
			t.Fatalf("job %d: status %s, err %v", i, r.Status, r.Error)
		}
	}
	if results[1].Bytes != int64(len("<svg></svg>")) {
		t.Errorf("expected byte count %d, got %d", len("<svg></svg>"), results[1].Bytes)
	}
	data, err := os.ReadFile(filepath.Join(dir, "nested", "b.svg"))
	if err != nil || string(data) != "<svg></svg>" {
		t.Errorf("unexpected file content %q (%v)", data, err)
	}
}

func TestPool_RunParallel_BoundsConcurrency(t *testing.T) {
	dir := t.TempDir()
	var running, peak atomic.Int32

	var jobs []Job
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		jobs = append(jobs, Job{Name: name, Path: filepath.Join(dir, name), Render: func(w io.Writer) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
			_, err := io.WriteString(w, name)
			return err
		}})
	}

	results := NewPool(2).Run(context.Background(), jobs)

	if p := peak.Load(); p > 2 {
		t.Errorf("expected at most 2 concurrent jobs, saw %d", p)
	}
	for i, r := range results {
		if r.Name != jobs[i].Name {
			t.Errorf("result %d out of order: %s", i, r.Name)
		}
		if r.Status != "done" {
			t.Errorf("job %s: %s (%v)", r.Name, r.Status, r.Error)
		}
	}
}

func TestPool_FailedRenderKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.svg")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	results := NewPool(1).Run(context.Background(), []Job{{Name: "chart", Path: path, Render: func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	}}})

	if results[0].Status != "failed" || !errors.Is(results[0].Error, boom) {
		t.Fatalf("expected failed with boom, got %s %v", results[0].Status, results[0].Error)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "old" {
		t.Errorf("existing file overwritten: %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}

func TestPool_OutputIsWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "chart.svg")
	results := NewPool(1).Run(context.Background(), []Job{textJob("chart", path, "<svg/>")})
	if results[0].Error != nil {
		t.Fatal(results[0].Error)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0644 {
		t.Errorf("expected mode 0644, got %o", got)
	}
}

func TestPool_CancelledContextSkips(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewPool(2).Run(ctx, []Job{
		textJob("a", filepath.Join(t.TempDir(), "a"), "x"),
		textJob("b", filepath.Join(t.TempDir(), "b"), "y"),
	})
	for _, r := range results {
		if r.Status != "skipped" || !errors.Is(r.Error, context.Canceled) {
			t.Errorf("job %s: expected skipped, got %s %v", r.Name, r.Status, r.Error)
		}
	}
}

func TestPool_NilRenderFails(t *testing.T) {
	results := NewPool(1).Run(context.Background(), []Job{{Name: "empty", Path: filepath.Join(t.TempDir(), "x")}})
	if results[0].Status != "failed" {
		t.Errorf("expected failed, got %s", results[0].Status)
	}
}
