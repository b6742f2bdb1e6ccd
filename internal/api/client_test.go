package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"burger-storefront/internal/api"
	httpapi "burger-storefront/internal/api/http"
	"burger-storefront/internal/domain"
	"burger-storefront/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()
	backend := httpapi.NewBackend("test-secret", time.Minute, nil)
	server := httptest.NewServer(httpapi.NewRouter(httpapi.NewHandler(backend, nil, nil, nil), nil))
	t.Cleanup(server.Close)
	return server
}

func TestClient_AgainstStubAPI(t *testing.T) {
	server := newStubServer(t)
	client := api.NewClient(api.Config{BaseURL: server.URL + "/"}, server.Client(), nil)
	ctx := context.Background()

	var accessToken string
	client.UseTokenSource(func(context.Context) (string, error) { return accessToken, nil })

	ingredients, err := client.Ingredients(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ingredients)

	session, err := client.Register(ctx, domain.RegisterData{Email: "alice@example.com", Name: "Alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", session.User.Name)

	_, err = client.CurrentUser(ctx)
	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, http.StatusUnauthorized, failure.Status)

	session, err = client.Login(ctx, domain.LoginData{Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)
	accessToken = session.AccessToken

	require.NoError(t, client.UpdateUser(ctx, domain.ProfilePatch{Name: "Alice B."}))
	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.User{Email: "alice@example.com", Name: "Alice B."}, user)

	ids := []string{ingredients[0].ID, ingredients[2].ID, ingredients[0].ID}
	submitted, err := client.SubmitOrder(ctx, ids)
	require.NoError(t, err)
	assert.NotEmpty(t, submitted.Name)
	assert.Equal(t, ids, submitted.Order.Ingredients)

	mine, err := client.MyOrders(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, submitted.Order.Number, mine[0].Number)

	feed, err := client.Feed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.Total)

	byNumber, err := client.OrderByNumber(ctx, submitted.Order.Number)
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, submitted.Order.ID, byNumber[0].ID)

	require.NoError(t, client.Logout(ctx, session.RefreshToken))
	err = client.Logout(ctx, session.RefreshToken)
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "token required", failure.Error())
}

func TestClient_Failures(t *testing.T) {
	response := func(status int, body string) *http.Response {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}
	}

	tests := []struct {
		name         string
		prepareMocks func(httpClient *mocks.HTTPClient)
		wantKind     domain.FailureKind
		wantStatus   int
		wantMessage  string
	}{
		{
			name: "transport error",
			prepareMocks: func(httpClient *mocks.HTTPClient) {
				httpClient.On("Do", mock.Anything).Return(nil, errors.New("connection refused")).Once()
			},
			wantKind:    domain.FailureTransport,
			wantMessage: "connection refused",
		},
		{
			name: "server error with message",
			prepareMocks: func(httpClient *mocks.HTTPClient) {
				httpClient.On("Do", mock.Anything).Return(response(http.StatusInternalServerError, `{"success":false,"message":"database is down"}`), nil).Once()
			},
			wantKind:    domain.FailureServer,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "database is down",
		},
		{
			name: "server error without message",
			prepareMocks: func(httpClient *mocks.HTTPClient) {
				httpClient.On("Do", mock.Anything).Return(response(http.StatusBadGateway, `<html>bad gateway</html>`), nil).Once()
			},
			wantKind:    domain.FailureServer,
			wantStatus:  http.StatusBadGateway,
			wantMessage: domain.UnknownErrorMessage,
		},
		{
			name: "success flag false",
			prepareMocks: func(httpClient *mocks.HTTPClient) {
				httpClient.On("Do", mock.Anything).Return(response(http.StatusOK, `{"success":false,"message":"not ready"}`), nil).Once()
			},
			wantKind:    domain.FailureServer,
			wantStatus:  http.StatusOK,
			wantMessage: "not ready",
		},
		{
			name: "undecodable body",
			prepareMocks: func(httpClient *mocks.HTTPClient) {
				httpClient.On("Do", mock.Anything).Return(response(http.StatusOK, `{"success":true,"data":"oops"}`), nil).Once()
			},
			wantKind:    domain.FailureServer,
			wantStatus:  http.StatusOK,
			wantMessage: "failed to decode response",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			httpClient := mocks.NewHTTPClient(t)
			testCase.prepareMocks(httpClient)
			client := api.NewClient(api.Config{BaseURL: "http://stub"}, httpClient, nil)

			_, err := client.Ingredients(context.Background())

			var failure *domain.Failure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, testCase.wantKind, failure.Kind)
			assert.Equal(t, testCase.wantStatus, failure.Status)
			assert.Contains(t, failure.Error(), testCase.wantMessage)
			assert.Equal(t, "ingredients", failure.Op)
		})
	}
}

func TestClient_SendsAuthorizationHeader(t *testing.T) {
	httpClient := mocks.NewHTTPClient(t)
	httpClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "http://stub/api/orders" &&
			req.Method == http.MethodGet &&
			req.Header.Get("Authorization") == "Bearer token"
	})).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"success":true,"orders":[{"number":5}]}`)),
	}, nil).Once()

	client := api.NewClient(api.Config{BaseURL: "http://stub"}, httpClient, nil)
	client.UseTokenSource(func(context.Context) (string, error) { return "Bearer token", nil })

	orders, err := client.MyOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 5, orders[0].Number)
}

func TestClient_TokenSourceFailure(t *testing.T) {
	client := api.NewClient(api.Config{BaseURL: "http://stub"}, mocks.NewHTTPClient(t), nil)
	client.UseTokenSource(func(context.Context) (string, error) { return "", errors.New("redis down") })

	_, err := client.CurrentUser(context.Background())
	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, domain.FailureStorage, failure.Kind)
}

func TestClient_RateLimit(t *testing.T) {
	httpClient := mocks.NewHTTPClient(t)
	httpClient.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"success":true,"orders":[],"total":0,"totalToday":0}`)),
	}, nil).Once()

	client := api.NewClient(api.Config{BaseURL: "http://stub", RequestsPerSecond: 0.01, Burst: 1}, httpClient, nil)

	_, err := client.Feed(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Feed(ctx)

	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, domain.FailureTransport, failure.Kind)
}
