package reconcile

import (
	"context"
	"fmt"

	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/spf13/afero"
)

// Downloader runs download items. It is implemented by *downloadmgr.DownloadManager
type Downloader interface {
	Run(ctx context.Context, items []downloadmgr.Item) (*downloadmgr.Result, error)
}

// ReconciliationIOError is returned when a file could not be deleted
type ReconciliationIOError struct {
	Path string
	Err  error
}

func (e *ReconciliationIOError) Error() string {
	return fmt.Sprintf("could not remove %s: %s", e.Path, e.Err)
}

func (e *ReconciliationIOError) Unwrap() error {
	return e.Err
}

// ApplyResult is the outcome of Apply
type ApplyResult struct {
	Downloads *downloadmgr.Result
	Deleted   []string
	// Errors are deletions that failed. They do not stop the other deletions
	Errors []error
	// Postponed are deletions that were not done because downloads of the same folder failed
	Postponed []string
}

// Apply runs all downloads of plans first and only then deletes.
// Deletions of a folder are postponed if one of its downloads failed,
// so replaced content never disappears before its replacement is there
func (r *Reconciler) Apply(ctx context.Context, fs afero.Fs, plans []*Plan, downloader Downloader) (*ApplyResult, error) {
	items := make([]downloadmgr.Item, 0)
	for _, p := range plans {
		items = append(items, p.ToDownload...)
	}

	res := &ApplyResult{Downloads: &downloadmgr.Result{}}
	if len(items) != 0 {
		downloads, err := downloader.Run(ctx, items)
		if err != nil {
			return nil, err
		}
		res.Downloads = downloads
	}

	failedFolders := make(map[string]bool)
	for _, failed := range res.Downloads.Failed {
		failedFolders[failed.Item.Group] = true
	}

	for _, p := range plans {
		if failedFolders[Folders[p.Type]] {
			res.Postponed = append(res.Postponed, p.ToDelete...)
			continue
		}
		for _, path := range p.ToDelete {
			if err := fs.RemoveAll(path); err != nil {
				ioErr := &ReconciliationIOError{Path: path, Err: err}
				r.Logger.Warn().Err(err).Str("path", path).Msg("skipping file that could not be removed")
				res.Errors = append(res.Errors, ioErr)
				continue
			}
			r.Logger.Debug().Str("path", path).Msg("removed")
			res.Deleted = append(res.Deleted, path)
		}
	}
	return res, nil
}
