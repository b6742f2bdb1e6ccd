package store

import (
	"context"

	"burger-storefront/internal/domain"
)

type CatalogAPI interface {
	Ingredients(ctx context.Context) ([]domain.Ingredient, error)
}

type AuthAPI interface {
	Register(ctx context.Context, data domain.RegisterData) (domain.AuthSession, error)
	Login(ctx context.Context, data domain.LoginData) (domain.AuthSession, error)
	CurrentUser(ctx context.Context) (domain.User, error)
	UpdateUser(ctx context.Context, patch domain.ProfilePatch) error
	Logout(ctx context.Context, refreshToken string) error
}

type OrderAPI interface {
	Feed(ctx context.Context) (domain.Feed, error)
	MyOrders(ctx context.Context) ([]domain.Order, error)
	OrderByNumber(ctx context.Context, number int) ([]domain.Order, error)
	SubmitOrder(ctx context.Context, ingredientIDs []string) (domain.SubmittedOrder, error)
}

// ActionSink receives every dispatched action off the dispatching goroutine.
type ActionSink interface {
	PublishAction(ctx context.Context, action domain.Action) error
}

type QRGenerator interface {
	Generate(orderNumber int) ([]byte, error)
}

// FeedSource pushes live feed updates until ctx is done.
type FeedSource interface {
	Run(ctx context.Context, handle func(domain.Feed)) error
}
