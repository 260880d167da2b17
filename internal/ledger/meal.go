package ledger

import (
	"context"
	"time"
)

// Macros are macronutrient grams for one serving of a catalog food.
type Macros struct {
	ProteinG float64
	CarbsG   float64
	FatG     float64
}

// Calories returns the energy of the macros using 4/4/9 kcal per gram.
func (m Macros) Calories() int {
	return CaloriesFromMacros(m.ProteinG, m.CarbsG, m.FatG)
}

// FoodCatalog resolves food keys to their nutritional values.
// The ledger only stores and compares keys; names and macros live in the catalog.
type FoodCatalog interface {
	Macros(key string) (Macros, bool)
}

// CreateMeal logs a meal. A zero EatenAt is stamped with the current time.
// The supplied calories are stored as given even when macros are also present.
func (s *RecordStore) CreateMeal(ctx context.Context, in MealInput) (*MealRecord, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	if err := validateMeal(in); err != nil {
		return nil, err
	}
	if in.EatenAt.IsZero() {
		in.EatenAt = s.clock.Now()
	}

	created, err := s.store.Create(ctx, KindMeal, encodeMeal(s.idgen.New(), in))
	if err != nil {
		return nil, wrapStoreErr("create", KindMeal, err)
	}

	m, err := decodeMeal(created, s.loc)
	if err != nil {
		return nil, wrapStoreErr("decode", KindMeal, err)
	}
	s.logger.Info("meal logged", "id", m.ID, "key", m.Key, "calories", m.Calories)
	return m, nil
}

// LogFood logs one serving of a catalog food, deriving calories from its macros.
func (s *RecordStore) LogFood(ctx context.Context, catalog FoodCatalog, key string, mealType MealType, at time.Time) (*MealRecord, error) {
	macros, ok := catalog.Macros(key)
	if !ok {
		return nil, &ValidationError{Kind: KindMeal, Fields: []FieldError{
			{Field: "key", Value: key, Constraint: "must name a catalog food"},
		}}
	}

	in := MealInput{
		Key:      key,
		ProteinG: &macros.ProteinG,
		CarbsG:   &macros.CarbsG,
		FatG:     &macros.FatG,
		EatenAt:  at,
		MealType: mealType,
	}
	return s.CreateMeal(ctx, in.WithDerivedCalories())
}

// UpdateMeal applies patch to the meal with the given id.
// Returns nil if no such meal exists.
func (s *RecordStore) UpdateMeal(ctx context.Context, id string, patch MealPatch) (*MealRecord, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	if err := validateMealPatch(patch); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, KindMeal, id, encodeMealPatch(patch))
	if err != nil {
		return nil, wrapStoreErr("update", KindMeal, err)
	}
	if updated == nil {
		return nil, nil
	}

	m, err := decodeMeal(updated, s.loc)
	if err != nil {
		return nil, wrapStoreErr("decode", KindMeal, err)
	}
	s.logger.Info("meal updated", "id", m.ID)
	return m, nil
}

// DeleteMeal removes the meal with the given id and reports whether it existed.
func (s *RecordStore) DeleteMeal(ctx context.Context, id string) (bool, error) {
	if err := s.available(); err != nil {
		return false, err
	}

	deleted, err := s.store.Delete(ctx, KindMeal, id)
	if err != nil {
		return false, wrapStoreErr("delete", KindMeal, err)
	}
	if deleted {
		s.logger.Info("meal deleted", "id", id)
	}
	return deleted, nil
}

// GetMeal returns the meal with the given id, or nil if none exists.
func (s *RecordStore) GetMeal(ctx context.Context, id string) (*MealRecord, error) {
	if err := s.available(); err != nil {
		return nil, err
	}

	f, err := s.store.Get(ctx, KindMeal, id)
	if err != nil {
		return nil, wrapStoreErr("get", KindMeal, err)
	}
	if f == nil {
		return nil, nil
	}

	m, err := decodeMeal(f, s.loc)
	if err != nil {
		return nil, wrapStoreErr("decode", KindMeal, err)
	}
	return m, nil
}

// GetMealsForDay returns the meals eaten on the calendar day containing date, newest first.
func (s *RecordStore) GetMealsForDay(ctx context.Context, date time.Time) ([]*MealRecord, error) {
	start := StartOfDay(date, s.loc)
	end := start.AddDate(0, 0, 1)
	return s.queryMeals(ctx, []Filter{
		{Field: "eaten_at", Op: OpGte, Value: start},
		{Field: "eaten_at", Op: OpLt, Value: end},
	})
}

// GetMealsInRange returns the meals eaten from the start of start's day through
// the end of end's day, newest first.
func (s *RecordStore) GetMealsInRange(ctx context.Context, start, end time.Time) ([]*MealRecord, error) {
	return s.queryMeals(ctx, []Filter{
		{Field: "eaten_at", Op: OpGte, Value: StartOfDay(start, s.loc)},
		{Field: "eaten_at", Op: OpLte, Value: EndOfDay(end, s.loc)},
	})
}

func (s *RecordStore) queryMeals(ctx context.Context, filters []Filter) ([]*MealRecord, error) {
	if err := s.available(); err != nil {
		return nil, err
	}

	rows, err := s.store.Query(ctx, Query{
		Kind:       KindMeal,
		Filters:    filters,
		SortKey:    "eaten_at",
		Descending: true,
	})
	if err != nil {
		return nil, wrapStoreErr("query", KindMeal, err)
	}

	meals := make([]*MealRecord, 0, len(rows))
	for _, row := range rows {
		m, err := decodeMeal(row, s.loc)
		if err != nil {
			return nil, wrapStoreErr("decode", KindMeal, err)
		}
		meals = append(meals, m)
	}
	s.logger.Debug("meals queried", "count", len(meals))
	return meals, nil
}
