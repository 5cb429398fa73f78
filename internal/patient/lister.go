package patient

import (
	"context"
	"strings"
	"sync"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// Lister pages through the remote patient registry. Paging is entirely
// server-driven: the lister only remembers which page the user asked for and
// trusts the currentPage and totalPages the server reports back.
type Lister struct {
	client   PatientAPI
	logger   *logger.Logger
	pageSize int

	mu     sync.Mutex
	page   int
	search string
	latest *types.PatientPage
}

// NewLister creates a patient lister with the given page size
func NewLister(client PatientAPI, pageSize int, log *logger.Logger) *Lister {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Lister{
		client:   client,
		logger:   log,
		pageSize: pageSize,
		page:     1,
	}
}

// Load fetches the page the lister is currently pointing at
func (l *Lister) Load(ctx context.Context) (*types.PatientPage, error) {
	l.mu.Lock()
	page := l.page
	search := l.search
	l.mu.Unlock()

	result, err := l.client.ListPatients(ctx, page, l.pageSize, search)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if result.CurrentPage > 0 {
		l.page = result.CurrentPage
	}
	l.latest = result
	return result, nil
}

// SetSearch updates the filter term. Any change snaps back to page one so a
// narrowed result set is never viewed from a stale offset.
func (l *Lister) SetSearch(term string) {
	term = strings.TrimSpace(term)
	l.mu.Lock()
	defer l.mu.Unlock()
	if term != l.search {
		l.search = term
		l.page = 1
	}
}

// Focus marks the list as freshly visible again. Re-entry always restarts at
// page one with the current filter, matching what the user expects when
// returning to the screen.
func (l *Lister) Focus() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = 1
}

// Next advances to the following page if the server reported one
func (l *Lister) Next() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.latest == nil || l.page >= l.latest.TotalPages {
		return false
	}
	l.page++
	return true
}

// Prev steps back one page
func (l *Lister) Prev() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.page <= 1 {
		return false
	}
	l.page--
	return true
}

// Page returns the page the lister will request next
func (l *Lister) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Search returns the active filter term
func (l *Lister) Search() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.search
}
