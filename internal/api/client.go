package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/logging"
	"burger-storefront/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource yields the "Bearer ..." access credential for authenticated
// calls.
type TokenSource func(ctx context.Context) (string, error)

type Config struct {
	BaseURL string
	// RequestsPerSecond throttles outgoing calls; zero disables the limiter.
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the storefront API. It reads credentials through a
// TokenSource and never stores them.
type Client struct {
	config  Config
	client  HTTPClient
	limiter *rate.Limiter
	tokens  TokenSource
	log     logrus.FieldLogger
}

func NewClient(config Config, client HTTPClient, logger logrus.FieldLogger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	c := &Client{
		config: config,
		client: client,
		log:    logging.Component(logger, "api"),
	}
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}
	return c
}

// UseTokenSource sets where authenticated calls take their credential from.
func (c *Client) UseTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

type ingredientsResponse struct {
	Data []domain.Ingredient `json:"data"`
}

func (c *Client) Ingredients(ctx context.Context) ([]domain.Ingredient, error) {
	var resp ingredientsResponse
	if err := c.do(ctx, "ingredients", http.MethodGet, "/api/ingredients", nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) Register(ctx context.Context, data domain.RegisterData) (domain.AuthSession, error) {
	var resp domain.AuthSession
	if err := c.do(ctx, "register", http.MethodPost, "/api/auth/register", data, false, &resp); err != nil {
		return domain.AuthSession{}, err
	}
	return resp, nil
}

func (c *Client) Login(ctx context.Context, data domain.LoginData) (domain.AuthSession, error) {
	var resp domain.AuthSession
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", data, false, &resp); err != nil {
		return domain.AuthSession{}, err
	}
	return resp, nil
}

type userResponse struct {
	User domain.User `json:"user"`
}

func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var resp userResponse
	if err := c.do(ctx, "user", http.MethodGet, "/api/auth/user", nil, true, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, patch domain.ProfilePatch) error {
	return c.do(ctx, "update user", http.MethodPatch, "/api/auth/user", patch, true, nil)
}

type logoutRequest struct {
	Token string `json:"token"`
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, "logout", http.MethodPost, "/api/auth/logout", logoutRequest{Token: refreshToken}, false, nil)
}

func (c *Client) Feed(ctx context.Context) (domain.Feed, error) {
	var resp domain.Feed
	if err := c.do(ctx, "feed", http.MethodGet, "/api/orders/all", nil, false, &resp); err != nil {
		return domain.Feed{}, err
	}
	return resp, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var resp domain.Feed
	if err := c.do(ctx, "orders", http.MethodGet, "/api/orders", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) OrderByNumber(ctx context.Context, number int) ([]domain.Order, error) {
	var resp domain.Feed
	path := fmt.Sprintf("/api/orders/%d", number)
	if err := c.do(ctx, "order by number", http.MethodGet, path, nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

type submitRequest struct {
	Ingredients []string `json:"ingredients"`
}

func (c *Client) SubmitOrder(ctx context.Context, ingredientIDs []string) (domain.SubmittedOrder, error) {
	var resp domain.SubmittedOrder
	if err := c.do(ctx, "submit order", http.MethodPost, "/api/orders", submitRequest{Ingredients: ingredientIDs}, true, &resp); err != nil {
		return domain.SubmittedOrder{}, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, auth bool, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.TransportFailure(op, err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.NewFailure(domain.FailureTransport, op, fmt.Sprintf("failed to encode request: %v", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return domain.TransportFailure(op, err)
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")

	if auth && c.tokens != nil {
		token, err := c.tokens(ctx)
		if err != nil {
			return domain.StorageFailure(op, err)
		}
		if token != "" {
			req.Header.Set("Authorization", token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Warn("request failed")
		return domain.TransportFailure(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.TransportFailure(op, err)
	}

	c.log.WithFields(logrus.Fields{"method": method, "path": path, "status": resp.StatusCode}).Debug("request done")

	if failure := responseFailure(op, resp.StatusCode, raw); failure != nil {
		return failure
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.ServerFailure(op, resp.StatusCode, fmt.Sprintf("failed to decode response: %v", err))
	}
	return nil
}

// responseFailure turns a non-2xx status or a "success": false body into a
// server failure carrying the API's message.
func responseFailure(op string, status int, raw []byte) *domain.Failure {
	success := gjson.GetBytes(raw, "success")
	if status >= 200 && status < 300 && (!success.Exists() || success.Bool()) {
		return nil
	}
	message := gjson.GetBytes(raw, "message").String()
	return domain.ServerFailure(op, status, message)
}

var (
	_ store.CatalogAPI = (*Client)(nil)
	_ store.AuthAPI    = (*Client)(nil)
	_ store.OrderAPI   = (*Client)(nil)
)
