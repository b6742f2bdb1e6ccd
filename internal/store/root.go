package store

import (
	"context"
	"errors"
	"fmt"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/logging"
	"burger-storefront/internal/storage"

	"github.com/sirupsen/logrus"
)

var (
	ErrLoginRequired = errors.New("login required to place an order")
	ErrBaseRequired  = errors.New("choose a bun before placing an order")
)

type RootDeps struct {
	Catalog CatalogAPI
	Auth    AuthAPI
	Orders  OrderAPI

	Cookies storage.CookieJar
	Local   storage.LocalStorage
	Session SessionConfig

	QR     QRGenerator
	Sinks  []ActionSink
	Logger logrus.FieldLogger
}

// State is the merged tree, keyed the way the UI addresses it.
type State struct {
	Ingredients CatalogState  `json:"ingredients"`
	Constructor AssemblyState `json:"constructor"`
	User        SessionState  `json:"user"`
	Order       OrdersState   `json:"order"`
}

// Root composes the four containers over one action bus. It is the only
// place that sequences operations across containers.
type Root struct {
	Catalog  *Catalog
	Assembly *Assembly
	Session  *Session
	Orders   *Orders

	bus *Bus
	log logrus.FieldLogger
}

func NewRoot(deps RootDeps) *Root {
	if deps.Cookies == nil {
		deps.Cookies = storage.NewMemoryCookieJar()
	}
	if deps.Local == nil {
		deps.Local = storage.NewMemoryLocalStorage()
	}

	bus := NewBus(deps.Logger, deps.Sinks...)
	return &Root{
		Catalog:  NewCatalog(deps.Catalog, bus, deps.Logger),
		Assembly: NewAssembly(bus),
		Session:  NewSession(deps.Auth, deps.Cookies, deps.Local, deps.Session, bus, deps.Logger),
		Orders:   NewOrders(deps.Orders, deps.QR, bus, deps.Logger),
		bus:      bus,
		log:      logging.Component(deps.Logger, "root"),
	}
}

func (r *Root) Subscribe(listener Listener) func() {
	return r.bus.Subscribe(listener)
}

func (r *Root) Snapshot() State {
	return State{
		Ingredients: r.Catalog.State(),
		Constructor: r.Assembly.State(),
		User:        r.Session.State(),
		Order:       r.Orders.State(),
	}
}

// Start loads the catalog and restores the session concurrently, the way the
// application does on mount. Failures are already recorded in state.
func (r *Root) Start(ctx context.Context) error {
	catalog := Run(ctx, r.Catalog.Fetch)
	session := Run(ctx, r.Session.Restore)
	return errors.Join(catalog.Wait(), session.Wait())
}

// PlaceOrder submits the current assembly and clears the workspace once the
// order is accepted.
func (r *Root) PlaceOrder(ctx context.Context) (domain.SubmittedOrder, error) {
	if _, ok := r.Session.User(); !ok {
		return domain.SubmittedOrder{}, ErrLoginRequired
	}
	if _, ok := r.Assembly.Base(); !ok {
		return domain.SubmittedOrder{}, ErrBaseRequired
	}

	if err := r.Orders.Submit(ctx, r.Assembly.IngredientIDs()); err != nil {
		return domain.SubmittedOrder{}, fmt.Errorf("failed to place order: %w", err)
	}
	r.Assembly.Reset()

	submitted, _ := r.Orders.LastOrder()
	return submitted, nil
}

// LoadProfileOrders makes sure the catalog is there to resolve ingredient
// ids before loading the user's history.
func (r *Root) LoadProfileOrders(ctx context.Context) error {
	if r.Catalog.IsEmpty() {
		if err := r.Catalog.Fetch(ctx); err != nil {
			return fmt.Errorf("failed to load ingredients: %w", err)
		}
	}
	return r.Orders.FetchMyOrders(ctx)
}

// FollowFeed applies live feed pushes until ctx is done or the source gives up.
func (r *Root) FollowFeed(ctx context.Context, source FeedSource) error {
	r.log.Info("following live feed")
	return source.Run(ctx, r.Orders.ReceiveFeed)
}

// Close flushes queued actions to the sinks.
func (r *Root) Close() {
	r.bus.Close()
}
