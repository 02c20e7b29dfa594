package downloadmgr

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when Concurrency is not set
const DefaultConcurrency = 6

// DefaultAttempts is the number of times a network download is tried
const DefaultAttempts = 3

// DownloadManager downloads a queue of items group by group
type DownloadManager struct {
	// Concurrency is the number of parallel downloads inside one group
	Concurrency int
	// Attempts is the number of tries for network downloads
	Attempts int
	// Client is used for all http requests
	Client *http.Client
	// OnProgress is called after each item with the progress of its group (0-100)
	OnProgress func(percent int, group string)
	// OnOverallProgress is called after each item with the progress of the whole run (0-100)
	OnOverallProgress func(percent int)
	Logger            zerolog.Logger

	queue []Item
}

// New creates a new downloadmgr
func New() *DownloadManager {
	return &DownloadManager{
		Concurrency: DefaultConcurrency,
		Attempts:    DefaultAttempts,
		Client:      &defaultClient,
		Logger:      log.With().Str("component", "downloadmgr").Logger(),
	}
}

// Add adds new items to the queue
func (d *DownloadManager) Add(items ...Item) {
	d.queue = append(d.queue, items...)
}

// Len returns the number of queued items
func (d *DownloadManager) Len() int {
	return len(d.queue)
}

// Start downloads everything in the queue and clears it
func (d *DownloadManager) Start(ctx context.Context) (*Result, error) {
	queue := d.queue
	d.queue = nil
	return d.Run(ctx, queue)
}

// Run downloads all items. Groups are processed one after another, items
// inside a group in parallel. A failing item never stops the run, it is
// reported in the returned Result instead. The error is only set for invalid input.
func (d *DownloadManager) Run(ctx context.Context, items []Item) (*Result, error) {
	for _, item := range items {
		if item.URL == "" || item.Target == "" {
			return nil, ErrInvalidItem
		}
	}

	res := &Result{}
	groups, duplicates := partition(items)
	for _, dup := range duplicates {
		res.Failed = append(res.Failed, FailedItem{dup, ErrDuplicateTarget})
	}

	p := &progress{
		total:      len(items) - len(duplicates),
		onGroup:    d.OnProgress,
		onOverall:  d.OnOverallProgress,
		groupTotal: make(map[string]int, len(groups)),
	}
	for _, g := range groups {
		p.groupTotal[g.name] = len(g.items)
	}

	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var mu sync.Mutex
	for _, g := range groups {
		d.Logger.Debug().Str("group", g.name).Int("items", len(g.items)).Msg("starting group")

		var eg errgroup.Group
		eg.SetLimit(concurrency)
		for _, item := range g.items {
			item := item
			eg.Go(func() error {
				skipped, err := d.process(ctx, &item)

				mu.Lock()
				switch {
				case err != nil:
					d.Logger.Warn().Err(err).Str("url", item.URL).Msg("download failed")
					res.Failed = append(res.Failed, FailedItem{item, err})
				case skipped:
					res.Skipped++
				default:
					res.Downloaded++
				}
				mu.Unlock()

				p.done(item.Group)
				return nil
			})
		}
		// workers never return errors
		_ = eg.Wait()
	}

	return res, nil
}

// process handles one item and reports if it was skipped
func (d *DownloadManager) process(ctx context.Context, item *Item) (bool, error) {
	// cancellation is only checked before an item starts
	if err := ctx.Err(); err != nil {
		return false, err
	}

	unlock := inflight.Lock(item.Target)
	defer unlock()

	if satisfied(item) {
		return true, nil
	}

	var err error
	if item.isLocal() {
		err = copyLocal(item)
	} else {
		err = d.fetchWithRetry(ctx, item)
	}
	if err != nil {
		return false, err
	}

	if item.Extract != nil {
		if err := extract(item); err != nil {
			return false, err
		}
	}
	return false, nil
}

type group struct {
	name  string
	items []Item
}

// partition splits items into groups in order of discovery. Items with an
// already seen target are returned separately
func partition(items []Item) ([]*group, []Item) {
	groups := make([]*group, 0)
	byName := make(map[string]*group)
	seen := make(map[string]struct{}, len(items))
	duplicates := make([]Item, 0)

	for _, item := range items {
		if _, ok := seen[item.Target]; ok {
			duplicates = append(duplicates, item)
			continue
		}
		seen[item.Target] = struct{}{}

		g, ok := byName[item.Group]
		if !ok {
			g = &group{name: item.Group}
			byName[item.Group] = g
			groups = append(groups, g)
		}
		g.items = append(g.items, item)
	}
	return groups, duplicates
}

// progress counts finished items. Callbacks are called with the lock held,
// so the reported numbers never go down
type progress struct {
	mu         sync.Mutex
	total      int
	finished   int
	groupTotal map[string]int
	groupDone  map[string]int
	onGroup    func(int, string)
	onOverall  func(int)
}

func (p *progress) done(group string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.groupDone == nil {
		p.groupDone = make(map[string]int)
	}
	p.groupDone[group]++
	p.finished++

	if p.onGroup != nil {
		p.onGroup(percent(p.groupDone[group], p.groupTotal[group]), group)
	}
	if p.onOverall != nil {
		p.onOverall(percent(p.finished, p.total))
	}
}

func percent(done int, total int) int {
	if total <= 0 {
		return 100
	}
	return done * 100 / total
}
