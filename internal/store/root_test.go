package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/mocks"
	"burger-storefront/internal/storage"
	"burger-storefront/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type rootFixture struct {
	catalogAPI *mocks.CatalogAPI
	authAPI    *mocks.AuthAPI
	orderAPI   *mocks.OrderAPI
	sink       *mocks.ActionSink
	cookies    *storage.MemoryCookieJar
	root       *store.Root
}

func newRootFixture(t *testing.T) *rootFixture {
	t.Helper()
	f := &rootFixture{
		catalogAPI: mocks.NewCatalogAPI(t),
		authAPI:    mocks.NewAuthAPI(t),
		orderAPI:   mocks.NewOrderAPI(t),
		sink:       mocks.NewActionSink(t),
		cookies:    storage.NewMemoryCookieJar(),
	}
	f.sink.On("PublishAction", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.root = store.NewRoot(store.RootDeps{
		Catalog: f.catalogAPI,
		Auth:    f.authAPI,
		Orders:  f.orderAPI,
		Cookies: f.cookies,
		Sinks:   []store.ActionSink{f.sink},
	})
	t.Cleanup(f.root.Close)
	return f
}

func (f *rootFixture) login(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	f.authAPI.On("Login", ctx, mock.Anything).Return(domain.AuthSession{AccessToken: "Bearer a", RefreshToken: "r", User: alice}, nil).Once()
	require.NoError(t, f.root.Session.Login(ctx, domain.LoginData{Email: alice.Email, Password: "secret"}))
}

func TestRoot_Start(t *testing.T) {
	f := newRootFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cookies.SetCookie(ctx, "accessToken", "Bearer stored", time.Hour))

	f.catalogAPI.On("Ingredients", ctx).Return([]domain.Ingredient{craterBun, meteorite}, nil).Once()
	f.authAPI.On("CurrentUser", ctx).Return(alice, nil).Once()

	require.NoError(t, f.root.Start(ctx))

	snapshot := f.root.Snapshot()
	assert.Len(t, snapshot.Ingredients.Ingredients, 2)
	require.NotNil(t, snapshot.User.User)
	assert.Equal(t, alice, *snapshot.User.User)
	require.NotNil(t, snapshot.User.Authorized)
	assert.True(t, *snapshot.User.Authorized)
	assert.Equal(t, store.InitialAssemblyState(), snapshot.Constructor)
	assert.Equal(t, store.Allow, f.root.Session.Access(store.RouteProtected))
}

func TestRoot_StartReportsFailures(t *testing.T) {
	f := newRootFixture(t)
	ctx := context.Background()
	f.catalogAPI.On("Ingredients", ctx).Return(nil, errors.New("ingredients unavailable")).Once()

	err := f.root.Start(ctx)
	assert.ErrorContains(t, err, "ingredients unavailable")

	authorized, resolved := f.root.Session.IsAuthorized()
	assert.True(t, resolved)
	assert.False(t, authorized)
	assert.Equal(t, "ingredients unavailable", f.root.Catalog.Error())
}

func TestRoot_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	submitted := domain.SubmittedOrder{Name: "Crater burger", Order: testOrder(77, domain.StatusCreated)}

	tests := []struct {
		name          string
		prepare       func(t *testing.T, f *rootFixture)
		expectedError error
		wantReset     bool
	}{
		{
			name: "login required",
			prepare: func(t *testing.T, f *rootFixture) {
				f.root.Assembly.Add(craterBun)
			},
			expectedError: store.ErrLoginRequired,
		},
		{
			name: "base required",
			prepare: func(t *testing.T, f *rootFixture) {
				f.login(t)
				f.root.Assembly.Add(meteorite)
			},
			expectedError: store.ErrBaseRequired,
		},
		{
			name: "submitted and workspace reset",
			prepare: func(t *testing.T, f *rootFixture) {
				f.login(t)
				f.root.Assembly.Add(craterBun)
				f.root.Assembly.Add(meteorite)
				f.orderAPI.On("SubmitOrder", ctx, []string{"bun-1", "main-1", "bun-1"}).Return(submitted, nil).Once()
			},
			wantReset: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newRootFixture(t)
			testCase.prepare(t, f)

			result, err := f.root.PlaceOrder(ctx)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				assert.NotEqual(t, store.InitialAssemblyState(), f.root.Assembly.State())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, submitted, result)
			assert.Equal(t, store.InitialAssemblyState(), f.root.Assembly.State())
		})
	}
}

func TestRoot_PlaceOrderFailureKeepsWorkspace(t *testing.T) {
	ctx := context.Background()
	f := newRootFixture(t)
	f.login(t)
	f.root.Assembly.Add(craterBun)
	f.orderAPI.On("SubmitOrder", ctx, []string{"bun-1", "bun-1"}).Return(domain.SubmittedOrder{}, errors.New("service unavailable")).Once()

	_, err := f.root.PlaceOrder(ctx)
	assert.ErrorContains(t, err, "service unavailable")

	_, ok := f.root.Assembly.Base()
	assert.True(t, ok)
	assert.Equal(t, "service unavailable", f.root.Orders.Error(store.CollectionSubmission))
}

func TestRoot_LoadProfileOrders(t *testing.T) {
	ctx := context.Background()
	history := []domain.Order{testOrder(1, domain.StatusDone)}

	f := newRootFixture(t)
	f.catalogAPI.On("Ingredients", ctx).Return([]domain.Ingredient{craterBun}, nil).Once()
	f.orderAPI.On("MyOrders", ctx).Return(history, nil).Twice()

	require.NoError(t, f.root.LoadProfileOrders(ctx))
	require.NoError(t, f.root.LoadProfileOrders(ctx))
	assert.Equal(t, history, f.root.Orders.ProfileOrders())
}

func TestRoot_LoadProfileOrdersCatalogFailure(t *testing.T) {
	ctx := context.Background()
	f := newRootFixture(t)
	f.catalogAPI.On("Ingredients", ctx).Return(nil, errors.New("ingredients unavailable")).Once()

	err := f.root.LoadProfileOrders(ctx)
	assert.ErrorContains(t, err, "ingredients unavailable")
	f.orderAPI.AssertNotCalled(t, "MyOrders", mock.Anything)
}

type staticFeedSource struct {
	feeds []domain.Feed
}

func (s staticFeedSource) Run(_ context.Context, handle func(domain.Feed)) error {
	for _, feed := range s.feeds {
		handle(feed)
	}
	return errors.New("stream closed")
}

func TestRoot_FollowFeed(t *testing.T) {
	f := newRootFixture(t)

	var received []int
	unsubscribe := f.root.Subscribe(func(action domain.Action) {
		if action.Type == "order/receiveFeed" {
			received = append(received, f.root.Orders.Feed().Total)
		}
	})
	defer unsubscribe()

	source := staticFeedSource{feeds: []domain.Feed{
		{Orders: []domain.Order{testOrder(1, domain.StatusDone)}, Total: 1, TotalToday: 1},
		{Orders: []domain.Order{testOrder(2, domain.StatusPending), testOrder(1, domain.StatusDone)}, Total: 2, TotalToday: 2},
	}}

	err := f.root.FollowFeed(context.Background(), source)
	assert.EqualError(t, err, "stream closed")
	assert.Equal(t, []int{1, 2}, received)
	assert.Equal(t, []int{2}, f.root.Orders.NumbersByStatus(domain.StatusPending, 0))
}
