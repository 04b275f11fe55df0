// Package state holds the per-visit application state.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/cbdpascher/storefront/internal/catalog"
	"github.com/cbdpascher/storefront/internal/navigation"
	"github.com/cbdpascher/storefront/internal/session"
)

// ErrCancelled is the cause attached to pending operations that were dropped
// because the visit moved on (navigation, logout, eviction).
var ErrCancelled = errors.New("pending operation cancelled")

// AdminPanel is the admin view's own state. EditingID is 0 when no product
// is being edited.
type AdminPanel struct {
	Tab       navigation.AdminTab
	EditingID int
}

// View is a consistent copy of an AppState, safe to read without locking.
type View struct {
	Session *session.Session
	Catalog catalog.Catalog
	Page    navigation.Page
	Panel   AdminPanel
}

// Editing returns the product being edited, if any.
func (v View) Editing() (catalog.Product, bool) {
	if v.Panel.EditingID == 0 {
		return catalog.Product{}, false
	}
	return v.Catalog.Get(v.Panel.EditingID)
}

type AppState struct {
	mu      sync.Mutex
	session *session.Session
	catalog catalog.Catalog
	page    navigation.Page
	panel   AdminPanel

	nextOp  uint64
	pending map[uint64]context.CancelCauseFunc
}

// New returns a signed-out state on the home page showing cat.
func New(cat catalog.Catalog) *AppState {
	return &AppState{
		catalog: cat,
		page:    navigation.Home,
		panel:   AdminPanel{Tab: navigation.TabAdd},
		pending: make(map[uint64]context.CancelCauseFunc),
	}
}

func (s *AppState) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{Catalog: s.catalog, Page: s.page, Panel: s.panel}
	if s.session != nil {
		cp := *s.session
		v.Session = &cp
	}
	return v
}

// Navigate moves to p and drops every pending operation.
func (s *AppState) Navigate(p navigation.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelPendingLocked()
	s.page = p
}

// LogOut clears the session, drops pending operations and returns home.
func (s *AppState) LogOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelPendingLocked()
	s.session = session.LogOut()
	s.page = navigation.Home
	s.panel = AdminPanel{Tab: navigation.TabAdd}
}

// SelectTab switches the admin tab. Going back to the add tab abandons any
// edit in progress.
func (s *AppState) SelectTab(tab navigation.AdminTab) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.panel.Tab = tab
	if tab == navigation.TabAdd {
		s.panel.EditingID = 0
	}
}

// StartEdit opens the product form prefilled with product id. It reports
// false when the product does not exist.
func (s *AppState) StartEdit(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.Get(id); !ok {
		return false
	}
	s.panel = AdminPanel{Tab: navigation.TabAdd, EditingID: id}
	return true
}

func (s *AppState) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.panel = AdminPanel{Tab: navigation.TabAdd}
}

// CommitSession stores sess and returns home, unless ctx was cancelled first.
func (s *AppState) CommitSession(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := alive(ctx); err != nil {
		return err
	}
	s.session = sess
	s.page = navigation.Home
	return nil
}

// CommitCatalog replaces the catalog and admin panel with fn's result, unless
// ctx was cancelled first.
func (s *AppState) CommitCatalog(ctx context.Context, fn func(catalog.Catalog, AdminPanel) (catalog.Catalog, AdminPanel)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := alive(ctx); err != nil {
		return err
	}
	s.catalog, s.panel = fn(s.catalog, s.panel)
	return nil
}

func alive(ctx context.Context) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return nil
}

// Visit pairs a visit id with its state.
type Visit struct {
	ID    uuid.UUID
	State *AppState
}
