package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/howto"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// BrowserManager owns the headless Chrome process behind a Fetcher and
// replaces it after maxPages pages. Chrome memory grows with every page
// and never returns to baseline, so long crawls restart it periodically.
// A replaced browser keeps running until the last page opened on it is
// released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *generation
	retired  map[*generation]struct{}
	maxPages int
	closed   bool
}

// generation is one launched browser and the pages opened on it.
type generation struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	inFlight int
}

func (g *generation) close() error {
	err := g.browser.Close()
	g.launcher.Kill()
	return err
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages after which the browser is
// recycled. Zero disables recycling. Defaults to DefaultMaxPages.
func WithMaxPages(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless Chrome browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		retired:  make(map[*generation]struct{}),
	}
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	bm.current = &generation{browser: browser, launcher: l}
	return bm, nil
}

// Acquire returns the current browser and counts one page against it. The
// caller must call release once the page is closed. Once the page budget
// is spent a fresh browser is launched first; if that launch fails the old
// browser keeps serving.
func (bm *BrowserManager) Acquire() (*rod.Browser, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, howto.Errorf(howto.EINVALID, "browser closed")
	}

	if bm.maxPages > 0 && bm.current.pages >= bm.maxPages {
		if next, l, lerr := launch(); lerr == nil {
			old := bm.current
			bm.current = &generation{browser: next, launcher: l}
			if old.inFlight == 0 {
				_ = old.close()
			} else {
				bm.retired[old] = struct{}{}
			}
		}
	}

	g := bm.current
	g.pages++
	g.inFlight++

	var once sync.Once
	return g.browser, func() { once.Do(func() { bm.release(g) }) }, nil
}

// release ends one page on g and shuts g down if it was replaced and this
// was its last page.
func (bm *BrowserManager) release(g *generation) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	g.inFlight--
	if _, ok := bm.retired[g]; ok && g.inFlight == 0 {
		delete(bm.retired, g)
		_ = g.close()
	}
}

// LauncherPID returns the process ID of the current browser launcher.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

// Close shuts down the current browser and any replaced browser that still
// has pages open. It is safe to call more than once.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	err := bm.current.close()
	for g := range bm.retired {
		_ = g.close()
		delete(bm.retired, g)
	}
	return err
}

// launch starts Chrome with flags that keep background pages from being
// throttled during long crawls.
func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}
