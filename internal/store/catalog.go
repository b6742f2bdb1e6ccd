package store

import (
	"context"
	"slices"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/logging"

	"github.com/sirupsen/logrus"
)

const (
	actionFetchIngredients = "ingredients/fetchIngredients"
)

type CatalogState struct {
	Ingredients []domain.Ingredient `json:"ingredients"`
	IsLoading   bool                `json:"isLoading"`
	Error       *domain.Failure     `json:"error,omitempty"`
}

func InitialCatalogState() CatalogState {
	return CatalogState{Ingredients: []domain.Ingredient{}}
}

// Catalog holds the ingredient list. Concurrent fetches are not
// deduplicated: whichever response lands last owns the collection.
type Catalog struct {
	state *container[CatalogState]
	api   CatalogAPI
	log   logrus.FieldLogger
}

func NewCatalog(api CatalogAPI, bus *Bus, logger logrus.FieldLogger) *Catalog {
	return &Catalog{
		state: newContainer(InitialCatalogState(), bus),
		api:   api,
		log:   logging.Component(logger, "catalog"),
	}
}

func (c *Catalog) Fetch(ctx context.Context) error {
	c.state.dispatch(actionFetchIngredients+"/"+domain.PhasePending, nil, func(s CatalogState) CatalogState {
		s.IsLoading = true
		return s
	})

	ingredients, err := c.api.Ingredients(ctx)
	if err != nil {
		failure := domain.AsFailure(err, actionFetchIngredients)
		c.log.WithError(failure).Warn("failed to fetch ingredients")
		c.state.dispatch(actionFetchIngredients+"/"+domain.PhaseRejected, failure.String(), func(s CatalogState) CatalogState {
			s.IsLoading = false
			s.Error = failure
			return s
		})
		return failure
	}

	ingredients = slices.Clone(ingredients)
	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}
	c.log.WithField("count", len(ingredients)).Debug("ingredients loaded")
	c.state.dispatch(actionFetchIngredients+"/"+domain.PhaseFulfilled, len(ingredients), func(s CatalogState) CatalogState {
		s.IsLoading = false
		s.Ingredients = ingredients
		s.Error = nil
		return s
	})
	return nil
}

func (c *Catalog) State() CatalogState {
	s := c.state.get()
	s.Ingredients = slices.Clone(s.Ingredients)
	return s
}

func (c *Catalog) Ingredients() []domain.Ingredient {
	return slices.Clone(c.state.get().Ingredients)
}

func (c *Catalog) IsLoading() bool {
	return c.state.get().IsLoading
}

func (c *Catalog) Error() string {
	return c.state.get().Error.String()
}

func (c *Catalog) IsEmpty() bool {
	return len(c.state.get().Ingredients) == 0
}

func (c *Catalog) ByKind(kind domain.IngredientKind) []domain.Ingredient {
	var out []domain.Ingredient
	for _, ingredient := range c.state.get().Ingredients {
		if ingredient.Kind == kind {
			out = append(out, ingredient)
		}
	}
	return out
}

func (c *Catalog) Find(id string) (domain.Ingredient, bool) {
	for _, ingredient := range c.state.get().Ingredients {
		if ingredient.ID == id {
			return ingredient, true
		}
	}
	return domain.Ingredient{}, false
}
