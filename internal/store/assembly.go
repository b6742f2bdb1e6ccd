package store

import (
	"slices"

	"burger-storefront/internal/domain"

	"github.com/google/uuid"
)

const (
	actionAddIngredient     = "constructor/addIngredients"
	actionReplaceFillings   = "constructor/removeIngredients"
	actionMoveUp            = "constructor/moveIngredientsUp"
	actionMoveDown          = "constructor/moveIngredientsDown"
	actionDeleteIngredient  = "constructor/deleteIngredient"
	actionResetConstruction = "constructor/resetState"
)

// AssemblyState is the burger being put together. Fillings never holds a
// base-kind item.
type AssemblyState struct {
	Base     *domain.AssemblyItem  `json:"bun"`
	Fillings []domain.AssemblyItem `json:"ingredients"`
}

func InitialAssemblyState() AssemblyState {
	return AssemblyState{Fillings: []domain.AssemblyItem{}}
}

type Assembly struct {
	state *container[AssemblyState]
	newID func() string
}

func NewAssembly(bus *Bus) *Assembly {
	return &Assembly{
		state: newContainer(InitialAssemblyState(), bus),
		newID: uuid.NewString,
	}
}

// Add puts a base into the base slot, replacing any previous one, and
// appends anything else to the fillings.
func (a *Assembly) Add(ingredient domain.Ingredient) domain.AssemblyItem {
	item := domain.AssemblyItem{Ingredient: ingredient, InstanceID: a.newID()}
	a.state.dispatch(actionAddIngredient, item, func(s AssemblyState) AssemblyState {
		if ingredient.Kind.IsBase() {
			base := item
			s.Base = &base
			return s
		}
		s.Fillings = append(slices.Clone(s.Fillings), item)
		return s
	})
	return item
}

// ReplaceFillings swaps in a caller-computed fillings sequence. Base-kind
// items in it are dropped.
func (a *Assembly) ReplaceFillings(fillings []domain.AssemblyItem) {
	next := make([]domain.AssemblyItem, 0, len(fillings))
	for _, item := range fillings {
		if !item.Kind.IsBase() {
			next = append(next, item)
		}
	}
	a.state.dispatch(actionReplaceFillings, len(next), func(s AssemblyState) AssemblyState {
		s.Fillings = next
		return s
	})
}

func (a *Assembly) MoveUp(index int) {
	a.state.dispatch(actionMoveUp, index, func(s AssemblyState) AssemblyState {
		if index <= 0 || index >= len(s.Fillings) {
			return s
		}
		s.Fillings = swapped(s.Fillings, index, index-1)
		return s
	})
}

func (a *Assembly) MoveDown(index int) {
	a.state.dispatch(actionMoveDown, index, func(s AssemblyState) AssemblyState {
		if index < 0 || index >= len(s.Fillings)-1 {
			return s
		}
		s.Fillings = swapped(s.Fillings, index, index+1)
		return s
	})
}

func (a *Assembly) RemoveAt(index int) {
	a.state.dispatch(actionDeleteIngredient, index, func(s AssemblyState) AssemblyState {
		if index < 0 || index >= len(s.Fillings) {
			return s
		}
		s.Fillings = slices.Delete(slices.Clone(s.Fillings), index, index+1)
		return s
	})
}

func (a *Assembly) Reset() {
	a.state.dispatch(actionResetConstruction, nil, func(AssemblyState) AssemblyState {
		return InitialAssemblyState()
	})
}

func (a *Assembly) State() AssemblyState {
	s := a.state.get()
	if s.Base != nil {
		base := *s.Base
		s.Base = &base
	}
	s.Fillings = slices.Clone(s.Fillings)
	return s
}

func (a *Assembly) Base() (domain.AssemblyItem, bool) {
	base := a.state.get().Base
	if base == nil {
		return domain.AssemblyItem{}, false
	}
	return *base, true
}

func (a *Assembly) Fillings() []domain.AssemblyItem {
	return slices.Clone(a.state.get().Fillings)
}

// Total counts the base twice, once per half of the bun.
func (a *Assembly) Total() int {
	s := a.state.get()
	total := 0
	if s.Base != nil {
		total += s.Base.Price * 2
	}
	for _, item := range s.Fillings {
		total += item.Price
	}
	return total
}

// IngredientIDs is the submission sequence: base, fillings in order, base.
func (a *Assembly) IngredientIDs() []string {
	s := a.state.get()
	ids := make([]string, 0, len(s.Fillings)+2)
	if s.Base != nil {
		ids = append(ids, s.Base.ID)
	}
	for _, item := range s.Fillings {
		ids = append(ids, item.ID)
	}
	if s.Base != nil {
		ids = append(ids, s.Base.ID)
	}
	return ids
}

// Counts reports how many times each catalog id is in the assembly, with the
// base counted twice.
func (a *Assembly) Counts() map[string]int {
	counts := make(map[string]int)
	for _, id := range a.IngredientIDs() {
		counts[id]++
	}
	return counts
}

func swapped(items []domain.AssemblyItem, i, j int) []domain.AssemblyItem {
	out := slices.Clone(items)
	out[i], out[j] = out[j], out[i]
	return out
}
