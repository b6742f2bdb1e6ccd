package store_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/mocks"
	"burger-storefront/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testOrder(number int, status domain.OrderStatus) domain.Order {
	created := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	return domain.Order{
		ID:          "order-" + strconv.Itoa(number),
		Name:        "Space burger",
		Status:      status,
		CreatedAt:   created,
		UpdatedAt:   created,
		Number:      number,
		Ingredients: []string{"bun-1", "main-1", "bun-1"},
	}
}

func TestOrders_FetchFeed(t *testing.T) {
	ctx := context.Background()
	order := testOrder(1, domain.StatusDone)

	tests := []struct {
		name           string
		fetches        int
		prepareMocks   func(api *mocks.OrderAPI)
		wantOrders     []domain.Order
		wantTotal      int
		wantTotalToday int
		wantError      string
	}{
		{
			name:    "success",
			fetches: 1,
			prepareMocks: func(api *mocks.OrderAPI) {
				api.On("Feed", ctx).Return(domain.Feed{Orders: []domain.Order{order}, Total: 100, TotalToday: 100}, nil).Once()
			},
			wantOrders:     []domain.Order{order},
			wantTotal:      100,
			wantTotalToday: 100,
		},
		{
			name:    "failure resets feed",
			fetches: 2,
			prepareMocks: func(api *mocks.OrderAPI) {
				api.On("Feed", ctx).Return(domain.Feed{Orders: []domain.Order{order}, Total: 100, TotalToday: 7}, nil).Once()
				api.On("Feed", ctx).Return(domain.Feed{}, errors.New("feed unavailable")).Once()
			},
			wantOrders: []domain.Order{},
			wantError:  "feed unavailable",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			api := mocks.NewOrderAPI(t)
			testCase.prepareMocks(api)
			orders := store.NewOrders(api, nil, nil, nil)

			var err error
			for i := 0; i < testCase.fetches; i++ {
				err = orders.FetchFeed(ctx)
			}

			feed := orders.Feed()
			assert.Equal(t, testCase.wantOrders, feed.Orders)
			assert.Equal(t, testCase.wantTotal, feed.Total)
			assert.Equal(t, testCase.wantTotalToday, feed.TotalToday)
			assert.Equal(t, testCase.wantError, orders.Error(store.CollectionFeed))
			assert.False(t, orders.IsLoading())
			if testCase.wantError != "" {
				assert.EqualError(t, err, testCase.wantError)
				assert.Equal(t, store.StatusFailed, orders.Request(store.CollectionFeed).Status)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, store.StatusSucceeded, orders.Request(store.CollectionFeed).Status)
			}
		})
	}
}

func TestOrders_ReceiveFeed(t *testing.T) {
	orders := store.NewOrders(mocks.NewOrderAPI(t), nil, nil, nil)
	feed := domain.Feed{
		Orders:     []domain.Order{testOrder(3, domain.StatusPending), testOrder(2, domain.StatusDone), testOrder(1, domain.StatusDone)},
		Total:      3,
		TotalToday: 2,
	}

	orders.ReceiveFeed(feed)

	assert.Equal(t, feed, orders.Feed())
	assert.Equal(t, []int{2, 1}, orders.NumbersByStatus(domain.StatusDone, 0))
	assert.Equal(t, []int{2}, orders.NumbersByStatus(domain.StatusDone, 1))
	assert.Equal(t, []int{3}, orders.NumbersByStatus(domain.StatusPending, 20))
	assert.Empty(t, orders.NumbersByStatus(domain.StatusCreated, 0))
}

func TestOrders_FetchMyOrders(t *testing.T) {
	ctx := context.Background()
	history := []domain.Order{testOrder(5, domain.StatusDone), testOrder(6, domain.StatusPending)}

	api := mocks.NewOrderAPI(t)
	api.On("MyOrders", ctx).Return(history, nil).Once()
	api.On("MyOrders", ctx).Return(nil, errors.New("jwt expired")).Once()

	orders := store.NewOrders(api, nil, nil, nil)
	require.NoError(t, orders.FetchMyOrders(ctx))
	assert.Equal(t, history, orders.ProfileOrders())

	assert.Error(t, orders.FetchMyOrders(ctx))
	assert.Equal(t, history, orders.ProfileOrders())
	assert.Equal(t, "jwt expired", orders.Error(store.CollectionProfile))
	assert.Empty(t, orders.Error(store.CollectionFeed))
}

func TestOrders_FetchByNumber(t *testing.T) {
	ctx := context.Background()
	match := testOrder(42, domain.StatusDone)

	api := mocks.NewOrderAPI(t)
	api.On("OrderByNumber", ctx, 42).Return([]domain.Order{match}, nil).Once()
	api.On("OrderByNumber", ctx, 43).Return([]domain.Order{}, nil).Once()

	orders := store.NewOrders(api, nil, nil, nil)
	_, ok := orders.OrderByNumber()
	assert.False(t, ok)

	require.NoError(t, orders.FetchByNumber(ctx, 42))
	found, ok := orders.OrderByNumber()
	assert.True(t, ok)
	assert.Equal(t, match, found)

	require.NoError(t, orders.FetchByNumber(ctx, 43))
	_, ok = orders.OrderByNumber()
	assert.False(t, ok)
}

func TestOrders_SubmitAndClear(t *testing.T) {
	ctx := context.Background()
	ids := []string{"bun-1", "main-1", "bun-1"}
	order := testOrder(7, domain.StatusCreated)

	api := mocks.NewOrderAPI(t)
	api.On("SubmitOrder", ctx, ids).Return(domain.SubmittedOrder{Name: "X", Order: order}, nil).Once()
	api.On("SubmitOrder", ctx, ids).Return(domain.SubmittedOrder{}, errors.New("ingredient ids are invalid")).Once()

	orders := store.NewOrders(api, nil, nil, nil)
	orders.ReceiveFeed(domain.Feed{Orders: []domain.Order{order}, Total: 1, TotalToday: 1})

	require.NoError(t, orders.Submit(ctx, ids))
	state := orders.State()
	require.NotNil(t, state.Order)
	assert.Equal(t, order, *state.Order)
	assert.Equal(t, "X", state.Name)

	assert.EqualError(t, orders.Submit(ctx, ids), "ingredient ids are invalid")
	last, ok := orders.LastOrder()
	assert.True(t, ok)
	assert.Equal(t, "X", last.Name)
	assert.Equal(t, order, last.Order)
	assert.Equal(t, "ingredient ids are invalid", orders.Error(store.CollectionSubmission))

	orders.ClearLastOrder()
	state = orders.State()
	assert.Nil(t, state.Order)
	assert.Empty(t, state.Name)
	assert.Len(t, state.Orders, 1)
	assert.Equal(t, 1, state.Total)
}

func TestOrders_CollectionsTrackedIndependently(t *testing.T) {
	release := make(chan struct{})
	api := mocks.NewOrderAPI(t)
	api.On("MyOrders", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return([]domain.Order{testOrder(1, domain.StatusDone)}, nil).Once()
	api.On("Feed", mock.Anything).Return(domain.Feed{}, errors.New("feed unavailable")).Once()

	orders := store.NewOrders(api, nil, nil, nil)
	ctx := context.Background()

	profile := store.Run(ctx, orders.FetchMyOrders)
	require.Eventually(t, func() bool {
		return orders.Request(store.CollectionProfile).IsLoading()
	}, time.Second, time.Millisecond)

	assert.Error(t, orders.FetchFeed(ctx))
	assert.True(t, orders.IsLoading())
	assert.True(t, orders.Request(store.CollectionProfile).IsLoading())
	assert.Empty(t, orders.Error(store.CollectionProfile))

	close(release)
	require.NoError(t, profile.Wait())
	assert.False(t, orders.IsLoading())
	assert.Equal(t, "feed unavailable", orders.Error(store.CollectionFeed))
}

// Two requests against the same collection: the first to settle clears the
// loading flag while the second is still in flight, and the last to settle
// owns the data.
func TestOrders_SameCollectionInterleaving(t *testing.T) {
	first := testOrder(1, domain.StatusDone)
	second := testOrder(2, domain.StatusDone)
	releaseFirst := make(chan struct{})
	releaseSecond := make(chan struct{})
	entered := make(chan struct{}, 2)

	api := mocks.NewOrderAPI(t)
	api.On("OrderByNumber", mock.Anything, 1).
		Run(func(mock.Arguments) { entered <- struct{}{}; <-releaseFirst }).
		Return([]domain.Order{first}, nil).Once()
	api.On("OrderByNumber", mock.Anything, 2).
		Run(func(mock.Arguments) { entered <- struct{}{}; <-releaseSecond }).
		Return([]domain.Order{second}, nil).Once()

	orders := store.NewOrders(api, nil, nil, nil)
	ctx := context.Background()

	taskSecond := store.Run(ctx, func(ctx context.Context) error { return orders.FetchByNumber(ctx, 2) })
	taskFirst := store.Run(ctx, func(ctx context.Context) error { return orders.FetchByNumber(ctx, 1) })
	<-entered
	<-entered
	assert.True(t, orders.Request(store.CollectionModal).IsLoading())

	close(releaseSecond)
	require.NoError(t, taskSecond.Wait())
	assert.False(t, orders.Request(store.CollectionModal).IsLoading())
	found, _ := orders.OrderByNumber()
	assert.Equal(t, 2, found.Number)

	close(releaseFirst)
	require.NoError(t, taskFirst.Wait())
	found, _ = orders.OrderByNumber()
	assert.Equal(t, 1, found.Number)
}

func TestOrders_LastOrderQRCode(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewOrderAPI(t)
	qr := mocks.NewQRGenerator(t)
	orders := store.NewOrders(api, qr, nil, nil)

	_, err := orders.LastOrderQRCode()
	assert.ErrorIs(t, err, store.ErrNoOrder)

	api.On("SubmitOrder", ctx, []string{"bun-1"}).Return(domain.SubmittedOrder{Name: "X", Order: testOrder(9, domain.StatusCreated)}, nil).Once()
	qr.On("Generate", 9).Return([]byte("png"), nil).Once()

	require.NoError(t, orders.Submit(ctx, []string{"bun-1"}))
	png, err := orders.LastOrderQRCode()
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
}

func TestDefaultQRGenerator(t *testing.T) {
	generator := store.DefaultQRGenerator{BaseURL: "http://localhost:8080"}
	assert.Equal(t, "http://localhost:8080/feed/42", generator.Link(42))

	png, err := generator.Generate(42)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
