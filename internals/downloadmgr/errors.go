package downloadmgr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateTarget is set for items that share a target with an earlier item in the same run
	ErrDuplicateTarget = errors.New("another item already downloads to this target")
	// ErrInvalidItem is returned if an item has no URL or no target
	ErrInvalidItem = errors.New("download item needs a url and a target")
)

// TransientFetchError is a network or status code error. These are retried
type TransientFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransientFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error while fetching %s: %s", e.URL, e.Err)
	}
	return fmt.Sprintf("invalid status code %d from %s", e.StatusCode, e.URL)
}

func (e *TransientFetchError) Unwrap() error { return e.Err }

// IntegrityMismatch is returned when a file's sha1 or size does not match the expected value
type IntegrityMismatch struct {
	FileName string
	Expected string
	Actual   string
}

func (e *IntegrityMismatch) Error() string {
	return fmt.Sprintf(
		"file corrupted: %s is invalid. expected %q but actually is %q",
		e.FileName,
		e.Expected,
		e.Actual,
	)
}

// UnsupportedFormatError is returned when an item should be extracted
// but the archive type is unknown. It is never retried
type UnsupportedFormatError struct {
	FileName string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("can not extract %s: unsupported archive format", e.FileName)
}

// FailedItem is a item that could not be downloaded
type FailedItem struct {
	Item Item
	Err  error
}

// Result sums up one run
type Result struct {
	Downloaded int
	Skipped    int
	Failed     []FailedItem
}

// OK is true if no item failed
func (r *Result) OK() bool {
	return len(r.Failed) == 0
}

// Err returns an error listing all failed items or nil
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	return &FailedItemsError{r.Failed}
}

// FailedItemsError wraps all failed items of a run
type FailedItemsError struct {
	Items []FailedItem
}

func (e *FailedItemsError) Error() string {
	lines := make([]string, 0, len(e.Items))
	for _, f := range e.Items {
		lines = append(lines, fmt.Sprintf("  %s: %s", f.Item.Target, f.Err))
	}
	return fmt.Sprintf("%d downloads failed:\n%s", len(e.Items), strings.Join(lines, "\n"))
}
