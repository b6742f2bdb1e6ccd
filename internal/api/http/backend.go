package httpapi

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"burger-storefront/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("email or password are incorrect")
	ErrFieldsRequired     = errors.New("email, password and name are required fields")
	ErrUnauthorized       = errors.New("you should be authorised")
	ErrTokenRequired      = errors.New("token required")
	ErrIngredientsInvalid = errors.New("ingredient ids must be provided")
)

const imageBase = "https://code.s3.yandex.net/react/code/"

// DefaultIngredients is the catalog the stub serves when none is given.
func DefaultIngredients() []domain.Ingredient {
	item := func(id, name string, kind domain.IngredientKind, price, proteins, fat, carbs, calories int, image string) domain.Ingredient {
		return domain.Ingredient{
			ID: id, Name: name, Kind: kind, Price: price,
			Proteins: proteins, Fat: fat, Carbohydrates: carbs, Calories: calories,
			Image:       imageBase + image + ".png",
			ImageLarge:  imageBase + image + "-large.png",
			ImageMobile: imageBase + image + "-mobile.png",
		}
	}
	return []domain.Ingredient{
		item("643d69a5c3f7b9001cfa093c", "Crater bun N-200i", domain.KindBase, 1255, 80, 24, 53, 420, "bun-02"),
		item("643d69a5c3f7b9001cfa093d", "Fluorescent bun R2-D3", domain.KindBase, 988, 44, 26, 85, 643, "bun-01"),
		item("643d69a5c3f7b9001cfa0941", "Bio-patty of Martian Magnolia", domain.KindFillingSolid, 424, 420, 142, 242, 4242, "meat-01"),
		item("643d69a5c3f7b9001cfa093e", "Luminescent tetraodontimorph fillet", domain.KindFillingSolid, 988, 44, 26, 85, 643, "meat-03"),
		item("643d69a5c3f7b9001cfa0940", "Meteorite steak (hand-cut)", domain.KindFillingSolid, 3000, 800, 800, 300, 2674, "meat-04"),
		item("643d69a5c3f7b9001cfa0946", "Crispy mineral rings", domain.KindFillingSolid, 300, 808, 689, 609, 986, "mineral_rings"),
		item("643d69a5c3f7b9001cfa0942", "Spicy-X sauce", domain.KindFillingSauce, 90, 30, 20, 40, 30, "sauce-02"),
		item("643d69a5c3f7b9001cfa0943", "Space sauce", domain.KindFillingSauce, 80, 50, 22, 11, 14, "sauce-04"),
	}
}

type account struct {
	id       string
	user     domain.User
	password string
}

// Account identifies an authenticated caller. ID stays fixed when the user
// changes their email.
type Account struct {
	ID   string
	User domain.User
}

type storedOrder struct {
	order domain.Order
	owner string
}

// Backend is the in-memory state behind the stub API.
type Backend struct {
	mu          sync.RWMutex
	ingredients []domain.Ingredient
	accounts    map[string]*account
	emails      map[string]string
	refresh     map[string]string
	orders      []storedOrder
	nextNumber  int

	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
	newID     func() string
}

func NewBackend(secret string, accessTTL time.Duration, ingredients []domain.Ingredient) *Backend {
	if ingredients == nil {
		ingredients = DefaultIngredients()
	}
	if accessTTL <= 0 {
		accessTTL = 20 * time.Minute
	}
	return &Backend{
		ingredients: slices.Clone(ingredients),
		accounts:    make(map[string]*account),
		emails:      make(map[string]string),
		refresh:     make(map[string]string),
		nextNumber:  1,
		secret:      []byte(secret),
		accessTTL:   accessTTL,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (b *Backend) Ingredients() []domain.Ingredient {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.ingredients)
}

func (b *Backend) Register(data domain.RegisterData) (domain.AuthSession, error) {
	if data.Email == "" || data.Password == "" || data.Name == "" {
		return domain.AuthSession{}, ErrFieldsRequired
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	email := strings.ToLower(data.Email)
	if _, ok := b.emails[email]; ok {
		return domain.AuthSession{}, ErrUserExists
	}
	acc := &account{id: b.newID(), user: domain.User{Email: email, Name: data.Name}, password: data.Password}
	b.accounts[acc.id] = acc
	b.emails[email] = acc.id
	return b.issueLocked(acc)
}

func (b *Backend) Login(data domain.LoginData) (domain.AuthSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[b.emails[strings.ToLower(data.Email)]]
	if !ok || acc.password != data.Password {
		return domain.AuthSession{}, ErrInvalidCredentials
	}
	return b.issueLocked(acc)
}

func (b *Backend) issueLocked(acc *account) (domain.AuthSession, error) {
	now := b.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   acc.id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(b.accessTTL)),
	})
	signed, err := token.SignedString(b.secret)
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh := b.newID()
	b.refresh[refresh] = acc.id
	return domain.AuthSession{AccessToken: "Bearer " + signed, RefreshToken: refresh, User: acc.user}, nil
}

// Authenticate resolves an Authorization header value to its account.
func (b *Backend) Authenticate(header string) (Account, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return Account{}, ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(b.now))
	if err != nil {
		return Account{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	acc, ok := b.accounts[claims.Subject]
	if !ok {
		return Account{}, ErrUnauthorized
	}
	return Account{ID: acc.id, User: acc.user}, nil
}

// AccountID looks up the account registered under email.
func (b *Backend) AccountID(email string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	id, ok := b.emails[strings.ToLower(email)]
	return id, ok
}

// UpdateUser applies the patch only when all of it can be applied.
func (b *Backend) UpdateUser(accountID string, patch domain.ProfilePatch) (domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[accountID]
	if !ok {
		return domain.User{}, ErrUnauthorized
	}

	next := acc.user.Email
	if patch.Email != "" {
		next = strings.ToLower(patch.Email)
		if owner, taken := b.emails[next]; taken && owner != acc.id {
			return domain.User{}, ErrUserExists
		}
	}

	if next != acc.user.Email {
		delete(b.emails, acc.user.Email)
		b.emails[next] = acc.id
		acc.user.Email = next
	}
	if patch.Name != "" {
		acc.user.Name = patch.Name
	}
	if patch.Password != "" {
		acc.password = patch.Password
	}
	return acc.user, nil
}

func (b *Backend) Logout(refreshToken string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.refresh[refreshToken]; !ok {
		return ErrTokenRequired
	}
	delete(b.refresh, refreshToken)
	return nil
}

// Feed lists every order newest first with the overall and today's counts.
func (b *Backend) Feed() domain.Feed {
	b.mu.RLock()
	defer b.mu.RUnlock()

	feed := domain.Feed{Orders: make([]domain.Order, 0, len(b.orders)), Total: len(b.orders)}
	today := b.now().Truncate(24 * time.Hour)
	for i := len(b.orders) - 1; i >= 0; i-- {
		order := b.orders[i].order
		feed.Orders = append(feed.Orders, order)
		if !order.CreatedAt.Before(today) {
			feed.TotalToday++
		}
	}
	return feed
}

func (b *Backend) OrdersOf(accountID string) []domain.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	orders := []domain.Order{}
	for _, stored := range b.orders {
		if stored.owner == accountID {
			orders = append(orders, stored.order)
		}
	}
	return orders
}

// OrderByNumber answers with a list, empty when nothing matches.
func (b *Backend) OrderByNumber(number int) []domain.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, stored := range b.orders {
		if stored.order.Number == number {
			return []domain.Order{stored.order}
		}
	}
	return []domain.Order{}
}

func (b *Backend) CreateOrder(owner string, ingredientIDs []string) (domain.SubmittedOrder, error) {
	if len(ingredientIDs) == 0 {
		return domain.SubmittedOrder{}, ErrIngredientsInvalid
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	byID := make(map[string]domain.Ingredient, len(b.ingredients))
	for _, ingredient := range b.ingredients {
		byID[ingredient.ID] = ingredient
	}
	var words []string
	for _, id := range ingredientIDs {
		ingredient, ok := byID[id]
		if !ok {
			return domain.SubmittedOrder{}, fmt.Errorf("%w: unknown id %q", ErrIngredientsInvalid, id)
		}
		word, _, _ := strings.Cut(ingredient.Name, " ")
		if !slices.Contains(words, word) {
			words = append(words, word)
		}
	}

	now := b.now()
	name := strings.Join(words, " ") + " burger"
	order := domain.Order{
		ID:          b.newID(),
		Name:        name,
		Status:      domain.StatusDone,
		CreatedAt:   now,
		UpdatedAt:   now,
		Number:      b.nextNumber,
		Ingredients: slices.Clone(ingredientIDs),
	}
	b.nextNumber++
	b.orders = append(b.orders, storedOrder{order: order, owner: owner})
	return domain.SubmittedOrder{Name: name, Order: order}, nil
}
