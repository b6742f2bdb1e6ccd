package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/store"
)

type options struct {
	Email    string
	Password string
	Name     string
	Rename   string
	Burger   string
	QRPath   string
	History  bool
	Lookup   int
	Follow   time.Duration
	Logout   bool
	Dump     bool

	FeedSource store.FeedSource
}

// run drives the root store through the steps the options ask for, in the
// order a user would click through them.
func run(ctx context.Context, root *store.Root, opts options, out io.Writer) error {
	if err := root.Start(ctx); err != nil {
		fmt.Fprintf(out, "startup: %v\n", err)
	}
	fmt.Fprintf(out, "catalog: %d ingredients\n", len(root.Catalog.Ingredients()))

	if opts.Email != "" {
		if err := authenticate(ctx, root, opts); err != nil {
			return err
		}
	}
	if name := root.Session.UserName(); name != "" {
		fmt.Fprintf(out, "signed in as %s\n", name)
	}

	if opts.Rename != "" {
		if err := root.Session.Update(ctx, domain.ProfilePatch{Name: opts.Rename}); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		fmt.Fprintf(out, "profile renamed to %s\n", root.Session.UserName())
	}

	if opts.Burger != "" {
		if err := placeOrder(ctx, root, opts, out); err != nil {
			return err
		}
	}

	if opts.History {
		if root.Session.Access(store.RouteProtected) != store.Allow {
			return store.ErrLoginRequired
		}
		if err := root.LoadProfileOrders(ctx); err != nil {
			return fmt.Errorf("failed to load order history: %w", err)
		}
		for _, order := range root.Orders.ProfileOrders() {
			printOrder(out, order)
		}
	}

	if opts.Lookup > 0 {
		if err := root.Orders.FetchByNumber(ctx, opts.Lookup); err != nil {
			return fmt.Errorf("failed to look up order %d: %w", opts.Lookup, err)
		}
		order, ok := root.Orders.OrderByNumber()
		if !ok {
			fmt.Fprintf(out, "order #%d not found\n", opts.Lookup)
		} else {
			printOrder(out, order)
		}
	}

	if opts.Follow > 0 && opts.FeedSource != nil {
		if err := follow(ctx, root, opts, out); err != nil {
			return err
		}
	}

	if opts.Logout {
		if err := root.Session.Logout(ctx); err != nil {
			return fmt.Errorf("failed to log out: %w", err)
		}
		fmt.Fprintln(out, "logged out")
	}

	if opts.Dump {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(root.Snapshot())
	}
	return nil
}

func authenticate(ctx context.Context, root *store.Root, opts options) error {
	if opts.Name != "" {
		err := root.Session.Register(ctx, domain.RegisterData{Email: opts.Email, Name: opts.Name, Password: opts.Password})
		if err != nil {
			return fmt.Errorf("failed to register %s: %w", opts.Email, err)
		}
		return nil
	}
	if err := root.Session.Login(ctx, domain.LoginData{Email: opts.Email, Password: opts.Password}); err != nil {
		return fmt.Errorf("failed to log in as %s: %w", opts.Email, err)
	}
	return nil
}

func placeOrder(ctx context.Context, root *store.Root, opts options, out io.Writer) error {
	for _, ref := range splitList(opts.Burger) {
		ingredient, ok := lookupIngredient(root.Catalog, ref)
		if !ok {
			return fmt.Errorf("unknown ingredient %q", ref)
		}
		root.Assembly.Add(ingredient)
	}
	fmt.Fprintf(out, "burger total: %d\n", root.Assembly.Total())

	submitted, err := root.PlaceOrder(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "order #%d placed: %s\n", submitted.Order.Number, submitted.Name)

	if opts.QRPath == "" {
		return nil
	}
	png, err := root.Orders.LastOrderQRCode()
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	if err := os.WriteFile(opts.QRPath, png, 0o644); err != nil {
		return fmt.Errorf("failed to write QR code: %w", err)
	}
	fmt.Fprintf(out, "QR code written to %s\n", opts.QRPath)
	return nil
}

// lookupIngredient accepts either a catalog id or a case-insensitive name.
func lookupIngredient(catalog *store.Catalog, ref string) (domain.Ingredient, bool) {
	if ingredient, ok := catalog.Find(ref); ok {
		return ingredient, true
	}
	for _, ingredient := range catalog.Ingredients() {
		if strings.EqualFold(ingredient.Name, ref) {
			return ingredient, true
		}
	}
	return domain.Ingredient{}, false
}

func follow(ctx context.Context, root *store.Root, opts options, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, opts.Follow)
	defer cancel()

	unsubscribe := root.Subscribe(func(action domain.Action) {
		if strings.HasPrefix(action.Type, "order/receiveFeed") {
			feed := root.Orders.Feed()
			fmt.Fprintf(out, "feed: %d total, %d today\n", feed.Total, feed.TotalToday)
		}
	})
	defer unsubscribe()

	err := root.FollowFeed(ctx, opts.FeedSource)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("live feed stopped: %w", err)
	}
	fmt.Fprintf(out, "ready: %v\n", root.Orders.NumbersByStatus(domain.StatusDone, 10))
	fmt.Fprintf(out, "in progress: %v\n", root.Orders.NumbersByStatus(domain.StatusPending, 10))
	return nil
}

func printOrder(out io.Writer, order domain.Order) {
	fmt.Fprintf(out, "#%d %s [%s] %s\n", order.Number, order.Name, order.Status, order.CreatedAt.Format(time.RFC3339))
}
