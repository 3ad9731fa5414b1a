package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"

	"github.com/imkarma/gantt/internal/config"
	"github.com/imkarma/gantt/internal/store"
)

const ganttDirName = ".gantt"

// source tags command-line changes in the event log.
const source = "cli"

// ganttPath returns the path to a file inside .gantt/.
func ganttPath(parts ...string) string {
	elems := append([]string{ganttDirName}, parts...)
	return filepath.Join(elems...)
}

// mustStore opens the store, returning an error if gantt is not initialized.
func mustStore() (*store.Store, error) {
	dbPath := ganttPath("gantt.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("gantt not initialized. Run: gantt init")
	}
	return openStore(dbPath)
}

// openStore opens or creates the SQLite store at the given path.
func openStore(dbPath string) (*store.Store, error) {
	return store.New(dbPath)
}

// loadConfig reads .gantt/config.yaml, falling back to the defaults when
// the file is missing.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(ganttPath("config.yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// Sprint color functions for building styled strings.
var (
	bold       = color.New(color.Bold).SprintFunc()
	dim        = color.New(color.Faint).SprintFunc()
	cyan       = color.New(color.FgCyan).SprintFunc()
	green      = color.New(color.FgGreen).SprintFunc()
	red        = color.New(color.FgRed).SprintFunc()
	yellow     = color.New(color.FgYellow).SprintFunc()
	boldCyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	boldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
	boldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// slip colors a day delta against the baseline: late is red, early green.
func slip(days int) string {
	s := strconv.Itoa(days) + "d"
	switch {
	case days > 0:
		return red("+" + s)
	case days < 0:
		return green(s)
	default:
		return dim("on plan")
	}
}
