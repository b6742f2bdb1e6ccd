package domain

import "time"

type IngredientKind string

const (
	KindBase         IngredientKind = "bun"
	KindFillingSolid IngredientKind = "main"
	KindFillingSauce IngredientKind = "sauce"
)

func (k IngredientKind) IsBase() bool {
	return k == KindBase
}

type Ingredient struct {
	ID            string         `json:"_id"`
	Name          string         `json:"name"`
	Kind          IngredientKind `json:"type"`
	Price         int            `json:"price"`
	Proteins      int            `json:"proteins"`
	Fat           int            `json:"fat"`
	Carbohydrates int            `json:"carbohydrates"`
	Calories      int            `json:"calories"`
	Image         string         `json:"image"`
	ImageLarge    string         `json:"image_large"`
	ImageMobile   string         `json:"image_mobile"`
}

// AssemblyItem is an ingredient placed into the workspace. InstanceID is local
// to the workspace; the same ingredient may appear under several instances.
type AssemblyItem struct {
	Ingredient
	InstanceID string `json:"id"`
}

type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterData struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ProfilePatch carries only the fields the user changed.
type ProfilePatch struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

type AuthSession struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type OrderStatus string

const (
	StatusCreated OrderStatus = "created"
	StatusPending OrderStatus = "pending"
	StatusDone    OrderStatus = "done"
)

type Order struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Number      int         `json:"number"`
	Ingredients []string    `json:"ingredients"`
}

type Feed struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	TotalToday int     `json:"totalToday"`
}

type SubmittedOrder struct {
	Name  string `json:"name"`
	Order Order  `json:"order"`
}
