// Package journal records completed dispatch cycles.
//
// Every cycle the dispatcher runs, successful or not, can be appended to a
// Store: which controller and action were targeted, the phase the result
// went to, how long it took and why it failed. The journal is diagnostic;
// a failing write never fails the request.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Store persists dispatch cycle entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Record appends an entry. Recording the same CycleID twice replaces it.
	// A zero Timestamp is set to the time of recording; timestamps are
	// stored in UTC.
	Record(ctx context.Context, entry Entry) error

	// Get returns the entry of a cycle.
	// Returns ErrNotFound if the cycle was never recorded.
	Get(ctx context.Context, cycleID string) (Entry, error)

	// List returns entries matching filter, most recent first.
	// Returns empty slice (not error) if nothing matches.
	List(ctx context.Context, filter Filter) ([]Entry, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Entry describes one dispatch cycle.
type Entry struct {
	CycleID    string
	Name       string // "<controller>@<action>", empty if resolution failed early
	Controller string
	Action     string
	Phase      string // result phase, empty on failure
	Error      string // empty on success
	Duration   time.Duration
	Timestamp  time.Time
}

// Failed reports whether the cycle ended with an error.
func (e Entry) Failed() bool {
	return e.Error != ""
}

// normalized fills a zero Timestamp with the current time and converts it to UTC.
func (e Entry) normalized() Entry {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	e.Timestamp = e.Timestamp.UTC()
	return e
}

// Filter narrows List results.
type Filter struct {
	// Controller keeps only entries of one controller. Empty keeps all.
	Controller string

	// FailedOnly keeps only failed cycles.
	FailedOnly bool

	// Limit caps the number of entries. Zero or negative means no limit.
	Limit int
}

func (f Filter) match(e Entry) bool {
	if f.Controller != "" && e.Controller != f.Controller {
		return false
	}
	if f.FailedOnly && !e.Failed() {
		return false
	}
	return true
}

// Sentinel errors for journal operations.
var (
	// ErrNotFound indicates a cycle has no entry.
	ErrNotFound = errors.New("journal entry not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")

	// ErrMissingCycleID indicates an entry without a cycle ID was recorded.
	ErrMissingCycleID = errors.New("journal entry requires a cycle ID")
)

// Drivers accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open creates a store by driver name. path is only used by DriverSQLite.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown journal driver %q", driver)
	}
}
