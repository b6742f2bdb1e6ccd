package store

import (
	"context"
	"errors"
	"slices"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/logging"

	"github.com/sirupsen/logrus"
)

const (
	actionGetFeeds     = "order/getFeeds"
	actionReceiveFeed  = "order/receiveFeed"
	actionGetOrders    = "order/getOrders"
	actionGetOrderByID = "order/getOrderById"
	actionMakeOrder    = "order/makeOrder"
	actionResetOrder   = "order/resetOrder"
)

var ErrNoOrder = errors.New("no order has been submitted")

// Collection names one of the four order collections. Each has its own
// request status.
type Collection string

const (
	CollectionFeed       Collection = "feed"
	CollectionProfile    Collection = "profileOrders"
	CollectionModal      Collection = "orderModal"
	CollectionSubmission Collection = "order"
)

var collections = []Collection{CollectionFeed, CollectionProfile, CollectionModal, CollectionSubmission}

type OrderRequests struct {
	Feed       AsyncState `json:"feed"`
	Profile    AsyncState `json:"profileOrders"`
	Modal      AsyncState `json:"orderModal"`
	Submission AsyncState `json:"order"`
}

func (r OrderRequests) Of(c Collection) AsyncState {
	switch c {
	case CollectionFeed:
		return r.Feed
	case CollectionProfile:
		return r.Profile
	case CollectionModal:
		return r.Modal
	case CollectionSubmission:
		return r.Submission
	}
	return idleState()
}

func (r OrderRequests) with(c Collection, state AsyncState) OrderRequests {
	switch c {
	case CollectionFeed:
		r.Feed = state
	case CollectionProfile:
		r.Profile = state
	case CollectionModal:
		r.Modal = state
	case CollectionSubmission:
		r.Submission = state
	}
	return r
}

type OrdersState struct {
	Orders        []domain.Order `json:"orders"`
	Total         int            `json:"total"`
	TotalToday    int            `json:"totalToday"`
	ProfileOrders []domain.Order `json:"profileOrders"`
	OrderModal    []domain.Order `json:"orderModal"`
	Order         *domain.Order  `json:"order"`
	Name          string         `json:"name"`
	Requests      OrderRequests  `json:"requests"`
}

func InitialOrdersState() OrdersState {
	return OrdersState{
		Orders:        []domain.Order{},
		ProfileOrders: []domain.Order{},
		OrderModal:    []domain.Order{},
		Requests: OrderRequests{
			Feed:       idleState(),
			Profile:    idleState(),
			Modal:      idleState(),
			Submission: idleState(),
		},
	}
}

// Orders keeps the public feed, the user's history, the order opened by
// number and the last submission apart. Requests are neither deduplicated
// nor cancelled; the last response to land wins.
type Orders struct {
	state *container[OrdersState]
	api   OrderAPI
	qr    QRGenerator
	log   logrus.FieldLogger
}

func NewOrders(api OrderAPI, qr QRGenerator, bus *Bus, logger logrus.FieldLogger) *Orders {
	if qr == nil {
		qr = DefaultQRGenerator{}
	}
	return &Orders{
		state: newContainer(InitialOrdersState(), bus),
		api:   api,
		qr:    qr,
		log:   logging.Component(logger, "orders"),
	}
}

func (o *Orders) begin(op string, c Collection) {
	o.state.dispatch(op+"/"+domain.PhasePending, nil, func(s OrdersState) OrdersState {
		s.Requests = s.Requests.with(c, pendingState())
		return s
	})
}

func (o *Orders) fail(op string, c Collection, err error, reset func(OrdersState) OrdersState) *domain.Failure {
	failure := domain.AsFailure(err, op)
	o.log.WithError(failure).WithField("collection", c).Warn("order request failed")
	o.state.dispatch(op+"/"+domain.PhaseRejected, failure.String(), func(s OrdersState) OrdersState {
		if reset != nil {
			s = reset(s)
		}
		s.Requests = s.Requests.with(c, failedState(failure))
		return s
	})
	return failure
}

// FetchFeed loads the public feed. A failure empties the feed and zeroes its
// counters instead of leaving stale numbers behind.
func (o *Orders) FetchFeed(ctx context.Context) error {
	o.begin(actionGetFeeds, CollectionFeed)

	feed, err := o.api.Feed(ctx)
	if err != nil {
		return o.fail(actionGetFeeds, CollectionFeed, err, func(s OrdersState) OrdersState {
			s.Orders = []domain.Order{}
			s.Total = 0
			s.TotalToday = 0
			return s
		})
	}

	o.applyFeed(actionGetFeeds+"/"+domain.PhaseFulfilled, feed)
	return nil
}

// ReceiveFeed applies a feed pushed by the live stream.
func (o *Orders) ReceiveFeed(feed domain.Feed) {
	o.applyFeed(actionReceiveFeed, feed)
}

func (o *Orders) applyFeed(actionType string, feed domain.Feed) {
	orders := cloneOrders(feed.Orders)
	o.state.dispatch(actionType, feedSummary{Count: len(orders), Total: feed.Total, TotalToday: feed.TotalToday}, func(s OrdersState) OrdersState {
		s.Orders = orders
		s.Total = feed.Total
		s.TotalToday = feed.TotalToday
		s.Requests = s.Requests.with(CollectionFeed, succeededState())
		return s
	})
}

type feedSummary struct {
	Count      int `json:"count"`
	Total      int `json:"total"`
	TotalToday int `json:"totalToday"`
}

func (o *Orders) FetchMyOrders(ctx context.Context) error {
	o.begin(actionGetOrders, CollectionProfile)

	orders, err := o.api.MyOrders(ctx)
	if err != nil {
		return o.fail(actionGetOrders, CollectionProfile, err, nil)
	}

	orders = cloneOrders(orders)
	o.state.dispatch(actionGetOrders+"/"+domain.PhaseFulfilled, len(orders), func(s OrdersState) OrdersState {
		s.ProfileOrders = orders
		s.Requests = s.Requests.with(CollectionProfile, succeededState())
		return s
	})
	return nil
}

func (o *Orders) FetchByNumber(ctx context.Context, number int) error {
	o.begin(actionGetOrderByID, CollectionModal)

	orders, err := o.api.OrderByNumber(ctx, number)
	if err != nil {
		return o.fail(actionGetOrderByID, CollectionModal, err, nil)
	}

	orders = cloneOrders(orders)
	o.state.dispatch(actionGetOrderByID+"/"+domain.PhaseFulfilled, number, func(s OrdersState) OrdersState {
		s.OrderModal = orders
		s.Requests = s.Requests.with(CollectionModal, succeededState())
		return s
	})
	return nil
}

// Submit posts ingredient ids in the order given. A failure keeps the
// previous order and name.
func (o *Orders) Submit(ctx context.Context, ingredientIDs []string) error {
	o.begin(actionMakeOrder, CollectionSubmission)

	submitted, err := o.api.SubmitOrder(ctx, slices.Clone(ingredientIDs))
	if err != nil {
		return o.fail(actionMakeOrder, CollectionSubmission, err, nil)
	}

	order := submitted.Order
	order.Ingredients = slices.Clone(order.Ingredients)
	o.log.WithField("number", order.Number).Info("order submitted")
	o.state.dispatch(actionMakeOrder+"/"+domain.PhaseFulfilled, order.Number, func(s OrdersState) OrdersState {
		s.Order = &order
		s.Name = submitted.Name
		s.Requests = s.Requests.with(CollectionSubmission, succeededState())
		return s
	})
	return nil
}

// ClearLastOrder forgets the last submission only.
func (o *Orders) ClearLastOrder() {
	o.state.dispatch(actionResetOrder, nil, func(s OrdersState) OrdersState {
		s.Order = nil
		s.Name = ""
		return s
	})
}

func (o *Orders) State() OrdersState {
	s := o.state.get()
	s.Orders = slices.Clone(s.Orders)
	s.ProfileOrders = slices.Clone(s.ProfileOrders)
	s.OrderModal = slices.Clone(s.OrderModal)
	if s.Order != nil {
		order := *s.Order
		s.Order = &order
	}
	return s
}

func (o *Orders) Feed() domain.Feed {
	s := o.state.get()
	return domain.Feed{Orders: slices.Clone(s.Orders), Total: s.Total, TotalToday: s.TotalToday}
}

func (o *Orders) ProfileOrders() []domain.Order {
	return slices.Clone(o.state.get().ProfileOrders)
}

// OrderByNumber returns the first order of the by-number result.
func (o *Orders) OrderByNumber() (domain.Order, bool) {
	modal := o.state.get().OrderModal
	if len(modal) == 0 {
		return domain.Order{}, false
	}
	return modal[0], true
}

func (o *Orders) LastOrder() (domain.SubmittedOrder, bool) {
	s := o.state.get()
	if s.Order == nil {
		return domain.SubmittedOrder{Name: s.Name}, false
	}
	return domain.SubmittedOrder{Name: s.Name, Order: *s.Order}, true
}

// NumbersByStatus lists feed order numbers with the given status, at most
// limit of them when limit is positive.
func (o *Orders) NumbersByStatus(status domain.OrderStatus, limit int) []int {
	var numbers []int
	for _, order := range o.state.get().Orders {
		if limit > 0 && len(numbers) == limit {
			break
		}
		if order.Status == status {
			numbers = append(numbers, order.Number)
		}
	}
	return numbers
}

func (o *Orders) Request(c Collection) AsyncState {
	return o.state.get().Requests.Of(c)
}

func (o *Orders) Error(c Collection) string {
	return o.Request(c).Error.String()
}

// IsLoading reports whether any collection has a request in flight.
func (o *Orders) IsLoading() bool {
	requests := o.state.get().Requests
	for _, c := range collections {
		if requests.Of(c).IsLoading() {
			return true
		}
	}
	return false
}

func (o *Orders) LastOrderQRCode() ([]byte, error) {
	order := o.state.get().Order
	if order == nil {
		return nil, ErrNoOrder
	}
	return o.qr.Generate(order.Number)
}

func cloneOrders(orders []domain.Order) []domain.Order {
	if orders == nil {
		return []domain.Order{}
	}
	return slices.Clone(orders)
}
