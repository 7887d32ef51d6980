// Package listing drives paged loading of the catalog on the client: an
// initial page, more pages as the reader nears the end of what is shown,
// and a fresh start whenever the search term changes.
package listing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cinecollection/internal/client/models"
	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/dmitrijs2005/cinecollection/internal/logging"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// ProximityThreshold is how close, in pixels or rows, the end sentinel must
// come to the bottom of the viewport before the next page is requested.
const ProximityThreshold = 200

type State int

const (
	Idle State = iota
	Loading
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// Fetcher loads one page of the signed-in user's entries.
type Fetcher interface {
	ListEntries(ctx context.Context, page, limit int, search string) (*models.EntryPage, error)
}

// Viewport describes where the end-of-list sentinel sits relative to the
// visible area. Both values use the same unit.
type Viewport struct {
	SentinelTop float64
	Height      float64
}

// Near reports whether the sentinel is within ProximityThreshold of the
// bottom edge.
func (v Viewport) Near() bool {
	return v.SentinelTop < v.Height+ProximityThreshold
}

type Options struct {
	PageSize       int
	ScrollThrottle time.Duration
	SearchDebounce time.Duration
	Clock          clockwork.Clock
	Logger         logging.Logger
	// OnChange is called, outside the lock, after every state transition.
	OnChange func(Snapshot)
	// OnError receives fetch failures.
	OnError func(error)
}

// Snapshot is a copy of the controller state for rendering.
type Snapshot struct {
	Entries      []models.Entry
	State        State
	Page         int
	Search       string
	TotalEntries int
	LastErr      error
}

type Controller struct {
	fetcher  Fetcher
	pageSize int
	clock    clockwork.Clock
	log      logging.Logger
	limiter  *rate.Limiter
	debounce *Debouncer
	onChange func(Snapshot)
	onError  func(error)

	mu      sync.Mutex
	state   State
	entries []models.Entry
	page    int
	search  string
	shown   string // search term the entries were loaded for
	total   int
	lastErr error
	gen     uint64
	cancel  context.CancelFunc

	wg sync.WaitGroup
}

func NewController(f Fetcher, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = common.ClientPageSize
	}
	if opts.ScrollThrottle <= 0 {
		opts.ScrollThrottle = 500 * time.Millisecond
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = 300 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}

	return &Controller{
		fetcher:  f,
		pageSize: opts.PageSize,
		clock:    opts.Clock,
		log:      opts.Logger.With("module", "listing"),
		limiter:  rate.NewLimiter(rate.Every(opts.ScrollThrottle), 1),
		debounce: NewDebouncer(opts.Clock, opts.SearchDebounce),
		onChange: opts.OnChange,
		onError:  opts.OnError,
		entries:  []models.Entry{},
	}
}

// Start discards progress and loads the first page for the current search
// term. Any fetch still in flight is cancelled and its result ignored.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	term := c.search
	c.mu.Unlock()
	c.reset(ctx, term)
}

// Search is SetSearch without waiting out the debounce delay. The reset has
// started by the time it returns.
func (c *Controller) Search(ctx context.Context, term string) {
	c.SetSearch(ctx, term)
	c.debounce.Flush()
}

// SetSearch restarts the listing with term once no further SetSearch call
// has arrived for the debounce period.
func (c *Controller) SetSearch(ctx context.Context, term string) {
	term = strings.TrimSpace(term)
	c.debounce.Trigger(func() { c.reset(ctx, term) })
}

// OnScroll requests the next page when the sentinel is near the viewport
// bottom. It reports whether a fetch was started.
func (c *Controller) OnScroll(ctx context.Context, v Viewport) bool {
	if !v.Near() {
		return false
	}
	return c.LoadMore(ctx)
}

// LoadMore requests the next page unless a fetch is running, the list is
// exhausted or the previous trigger was less than the throttle interval ago.
func (c *Controller) LoadMore(ctx context.Context) bool {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return false
	}
	if !c.limiter.AllowN(c.clock.Now(), 1) {
		c.mu.Unlock()
		return false
	}
	page := c.page + 1
	c.begin(ctx, page)
	c.mu.Unlock()

	c.notify()
	return true
}

// Remove drops a deleted entry from the accumulated list.
func (c *Controller) Remove(id int64) bool {
	c.mu.Lock()
	removed := false
	for i, e := range c.entries {
		if e.ID == id {
			c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
			if c.total > 0 {
				c.total--
			}
			removed = true
			break
		}
	}
	c.mu.Unlock()

	if removed {
		c.notify()
	}
	return removed
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) LastErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Wait blocks until every started fetch has finished. Pending debounced
// searches are not waited for.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close drops a pending search and cancels the in-flight fetch.
func (c *Controller) Close() {
	c.debounce.Stop()
	c.mu.Lock()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.state == Loading {
		c.state = Idle
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Controller) reset(ctx context.Context, term string) {
	c.mu.Lock()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.search = term
	c.page = 0
	c.lastErr = nil
	c.begin(ctx, 1)
	c.mu.Unlock()

	c.notify()
}

// begin marks the controller Loading and starts fetching page. c.mu held.
func (c *Controller) begin(ctx context.Context, page int) {
	c.state = Loading
	fctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.fetch(fctx, cancel, c.gen, page, c.search)
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, page int, term string) {
	defer c.wg.Done()
	defer cancel()

	res, err := c.fetcher.ListEntries(ctx, page, c.pageSize, term)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.log.Debug(ctx, "dropping stale page", "page", page, "search", term)
		return
	}
	c.cancel = nil

	if err != nil {
		c.state = Idle
		c.lastErr = err
		if page == 1 && c.shown != term {
			c.entries = nil
			c.total = 0
			c.shown = term
		}
		c.mu.Unlock()

		c.log.Warn(ctx, "load entries failed", "page", page, "error", err)
		if c.onError != nil {
			c.onError(err)
		}
		c.notify()
		return
	}

	if page == 1 {
		c.entries = append(make([]models.Entry, 0, len(res.Entries)), res.Entries...)
		c.shown = term
	} else {
		c.entries = appendNew(c.entries, res.Entries)
	}
	c.page = page
	c.total = res.TotalEntries
	c.lastErr = nil
	if res.HasMore {
		c.state = Idle
	} else {
		c.state = Exhausted
	}
	c.mu.Unlock()

	c.notify()
}

// appendNew appends the entries of next not already present in cur. Offset
// paging shifts when entries are added or removed between page loads.
func appendNew(cur, next []models.Entry) []models.Entry {
	seen := make(map[int64]struct{}, len(cur))
	for _, e := range cur {
		seen[e.ID] = struct{}{}
	}
	for _, e := range next {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		cur = append(cur, e)
	}
	return cur
}

func (c *Controller) snapshotLocked() Snapshot {
	entries := make([]models.Entry, len(c.entries))
	copy(entries, c.entries)
	return Snapshot{
		Entries:      entries,
		State:        c.state,
		Page:         c.page,
		Search:       c.search,
		TotalEntries: c.total,
		LastErr:      c.lastErr,
	}
}

func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.Snapshot())
}
