package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cbdpascher/storefront/internal/catalog"
	"github.com/cbdpascher/storefront/internal/events"
	"github.com/cbdpascher/storefront/internal/logging"
	"github.com/cbdpascher/storefront/internal/navigation"
	"github.com/cbdpascher/storefront/internal/session"
	"github.com/cbdpascher/storefront/internal/state"
)

var (
	ErrNotFound  = errors.New("product not found")
	ErrForbidden = errors.New("admin access required")
)

// Delays simulate backend latency before a submitted form takes effect.
type Delays struct {
	SignIn time.Duration
	SignUp time.Duration
	Submit time.Duration
}

type StorefrontService struct {
	Accounts  *session.Accounts
	Publisher events.Publisher
	Delays    Delays
}

// Navigate moves the visit to the page named by token and drops whatever
// was still pending.
func (s *StorefrontService) Navigate(v state.Visit, token string) navigation.Page {
	p := navigation.Parse(token)
	v.State.Navigate(p)
	return p
}

func (s *StorefrontService) SignIn(ctx context.Context, v state.Visit, email, password string) (*session.Session, error) {
	if err := session.ValidateSignIn(email, password); err != nil {
		return nil, err
	}

	ctx, done := v.State.Begin(ctx)
	defer done()

	if err := state.Wait(ctx, s.Delays.SignIn); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	sess, err := s.Accounts.SignIn(email, password)
	if err != nil {
		return nil, err
	}
	if err := v.State.CommitSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	e := events.New(events.UserSignedIn, v.ID)
	e.Email = sess.Email
	s.publish(ctx, e)
	return sess, nil
}

func (s *StorefrontService) SignUp(ctx context.Context, v state.Visit, f session.SignUpForm) (*session.Session, error) {
	if err := session.ValidateSignUp(f); err != nil {
		return nil, err
	}

	ctx, done := v.State.Begin(ctx)
	defer done()

	if err := state.Wait(ctx, s.Delays.SignUp); err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	sess, err := s.Accounts.SignUp(f)
	if err != nil {
		return nil, err
	}
	if err := v.State.CommitSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	e := events.New(events.UserSignedUp, v.ID)
	e.Email = sess.Email
	s.publish(ctx, e)
	return sess, nil
}

func (s *StorefrontService) LogOut(ctx context.Context, v state.Visit) {
	was := v.State.Snapshot().Session
	v.State.LogOut()

	if was != nil {
		e := events.New(events.UserLoggedOut, v.ID)
		e.Email = was.Email
		s.publish(ctx, e)
	}
}

// SubmitProduct saves the admin form: it updates the product being edited, or
// adds a new one. Either way the panel switches to the product list.
func (s *StorefrontService) SubmitProduct(ctx context.Context, v state.Visit, f catalog.ProductForm) (catalog.Product, error) {
	editing := v.State.Snapshot().Panel.EditingID
	if editing == 0 {
		return s.CreateProduct(ctx, v, f)
	}

	p, err := s.UpdateProduct(ctx, v, editing, f)
	if errors.Is(err, ErrNotFound) {
		// The edited product was deleted meanwhile; nothing to save.
		logging.FromContext(ctx).Warn("product_submit_skipped", "reason", "edited product no longer exists", "product_id", editing)
		v.State.CancelEdit()
		v.State.SelectTab(navigation.TabManage)
		return catalog.Product{}, nil
	}
	return p, err
}

func (s *StorefrontService) CreateProduct(ctx context.Context, v state.Visit, f catalog.ProductForm) (catalog.Product, error) {
	if !v.State.Snapshot().Session.IsAdmin() {
		return catalog.Product{}, ErrForbidden
	}
	in, err := catalog.ParseProductForm(f)
	if err != nil {
		return catalog.Product{}, err
	}

	ctx, done := v.State.Begin(ctx)
	defer done()

	if err := state.Wait(ctx, s.Delays.Submit); err != nil {
		return catalog.Product{}, fmt.Errorf("create product: %w", err)
	}

	var created catalog.Product
	err = v.State.CommitCatalog(ctx, func(c catalog.Catalog, _ state.AdminPanel) (catalog.Catalog, state.AdminPanel) {
		var next catalog.Catalog
		next, created = c.Add(in)
		return next, state.AdminPanel{Tab: navigation.TabManage}
	})
	if err != nil {
		return catalog.Product{}, fmt.Errorf("create product: %w", err)
	}

	e := events.New(events.ProductCreated, v.ID)
	e.ProductID = created.ID
	e.Name = created.Name
	s.publish(ctx, e)
	return created, nil
}

func (s *StorefrontService) UpdateProduct(ctx context.Context, v state.Visit, id int, f catalog.ProductForm) (catalog.Product, error) {
	if !v.State.Snapshot().Session.IsAdmin() {
		return catalog.Product{}, ErrForbidden
	}
	in, err := catalog.ParseProductForm(f)
	if err != nil {
		return catalog.Product{}, err
	}

	ctx, done := v.State.Begin(ctx)
	defer done()

	if err := state.Wait(ctx, s.Delays.Submit); err != nil {
		return catalog.Product{}, fmt.Errorf("update product: %w", err)
	}

	var (
		updated catalog.Product
		found   bool
	)
	err = v.State.CommitCatalog(ctx, func(c catalog.Catalog, p state.AdminPanel) (catalog.Catalog, state.AdminPanel) {
		var next catalog.Catalog
		next, updated, found = c.Update(id, in)
		if !found {
			return c, p
		}
		return next, state.AdminPanel{Tab: navigation.TabManage}
	})
	if err != nil {
		return catalog.Product{}, fmt.Errorf("update product: %w", err)
	}
	if !found {
		return catalog.Product{}, fmt.Errorf("update product %d: %w", id, ErrNotFound)
	}

	e := events.New(events.ProductUpdated, v.ID)
	e.ProductID = updated.ID
	e.Name = updated.Name
	s.publish(ctx, e)
	return updated, nil
}

// DeleteProduct applies immediately. Deleting an absent id changes nothing
// and reports ErrNotFound.
func (s *StorefrontService) DeleteProduct(ctx context.Context, v state.Visit, id int) error {
	if !v.State.Snapshot().Session.IsAdmin() {
		return ErrForbidden
	}

	var removed bool
	err := v.State.CommitCatalog(ctx, func(c catalog.Catalog, p state.AdminPanel) (catalog.Catalog, state.AdminPanel) {
		var next catalog.Catalog
		next, removed = c.Delete(id)
		if p.EditingID == id {
			p.EditingID = 0
		}
		return next, p
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !removed {
		return fmt.Errorf("delete product %d: %w", id, ErrNotFound)
	}

	e := events.New(events.ProductDeleted, v.ID)
	e.ProductID = id
	s.publish(ctx, e)
	return nil
}

func (s *StorefrontService) GetProduct(v state.Visit, id int) (catalog.Product, error) {
	p, ok := v.State.Snapshot().Catalog.Get(id)
	if !ok {
		return catalog.Product{}, fmt.Errorf("get product %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// GetProducts returns the total count and one page of the catalog in display order.
func (s *StorefrontService) GetProducts(v state.Visit, offset, limit int) (int, []catalog.Product) {
	all := v.State.Snapshot().Catalog.Products()
	total := len(all)
	if offset < 0 || offset >= total || limit <= 0 {
		return total, []catalog.Product{}
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return total, all[offset:end]
}

func (s *StorefrontService) publish(ctx context.Context, e events.Event) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", e.Type, "error", err)
	}
}
