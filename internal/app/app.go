package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"ledger-go/internal/catalog"
	"ledger-go/internal/config"
	"ledger-go/internal/goal"
	"ledger-go/internal/ledger"
	"ledger-go/internal/store"
	"ledger-go/internal/summary"
)

// LedgerApp is the application layer between the CLI and the RecordStore.
// It constructs all dependencies from config, exposes the operations the CLI
// offers, and manages the store lifecycle on Close.
type LedgerApp struct {
	cfg     *config.Config
	store   store.Store
	records *ledger.RecordStore
	catalog *catalog.Catalog
	logger  ledger.Logger
	clock   ledger.Clock
	ids     ledger.IDGenerator
	loc     *time.Location
	op      *Operation
	logFile *os.File

	// scryptWorkFactor overrides age's default when exporting snapshots. Zero keeps the default.
	scryptWorkFactor int
}

// NewLedgerApp creates a fully wired LedgerApp from the given config.
// operation identifies the CLI command being run (e.g. "AddMeal", "NutritionSummary").
// It waits for the store to become ready, bounded by ctx and the configured
// ready timeout. The caller must call Close when done.
func NewLedgerApp(ctx context.Context, cfg *config.Config, operation string) (*LedgerApp, error) {
	return newLedgerApp(ctx, cfg, operation, ledger.RealClock{}, ledger.UUIDGenerator{})
}

func newLedgerApp(ctx context.Context, cfg *config.Config, operation string, clock ledger.Clock, ids ledger.IDGenerator) (*LedgerApp, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	op := NewOperation(operation, clock.Now())
	slogger, logFile, err := newLogger(cfg.LogDir, op.ID, ParseLevel(cfg.Log.Level))
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	cat, err := catalog.NewFromConfig(cfg.Catalog)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("loading food catalog: %w", err)
	}

	st, err := store.NewStoreFromConfig(cfg.Database, logger)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating store: %w", err)
	}

	a := &LedgerApp{
		cfg:     cfg,
		catalog: cat,
		logger:  logger,
		clock:   clock,
		ids:     ids,
		loc:     loc,
		op:      op,
		logFile: logFile,
	}
	if err := a.attach(ctx, st); err != nil {
		st.Close()
		logFile.Close()
		return nil, err
	}

	logger.Debug("operation started", "operation", op.Name, "database", cfg.Database.Type)
	return a, nil
}

// attach waits for st to become ready and builds the RecordStore over it.
func (a *LedgerApp) attach(ctx context.Context, st store.Store) error {
	timeout := a.cfg.StoreReadyTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := st.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: not ready after %s", ledger.ErrStoreUnavailable, timeout)
		}
		return fmt.Errorf("opening store: %w", err)
	}

	a.store = st
	a.records = ledger.NewRecordStore(st, a.logger, a.clock, a.ids, a.loc)
	return nil
}

// Config returns the configuration the app was built from.
func (a *LedgerApp) Config() *config.Config { return a.cfg }

// Catalog returns the food catalog.
func (a *LedgerApp) Catalog() *catalog.Catalog { return a.catalog }

// Location returns the time zone calendar days are computed in.
func (a *LedgerApp) Location() *time.Location { return a.loc }

// Operation returns the operation this app was created for.
func (a *LedgerApp) Operation() *Operation { return a.op }

// Now returns the current time in the app's time zone.
func (a *LedgerApp) Now() time.Time { return a.clock.Now().In(a.loc) }

// Profile returns the profile, or nil if none has been set up yet.
func (a *LedgerApp) Profile(ctx context.Context) (*ledger.UserProfile, error) {
	return a.records.GetProfile(ctx)
}

// SaveProfile creates or updates the profile.
func (a *LedgerApp) SaveProfile(ctx context.Context, patch ledger.ProfilePatch) (*ledger.UserProfile, error) {
	return a.records.SaveProfile(ctx, patch)
}

// CalorieGoal derives the daily calorie target from the current profile.
// It returns 0 when there is no profile or the profile lacks an input the formula needs.
func (a *LedgerApp) CalorieGoal(ctx context.Context) (int, error) {
	p, err := a.records.GetProfile(ctx)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, nil
	}
	return goal.CalorieGoal(p), nil
}

// GoalBreakdown returns the intermediate values of the calorie goal.
// ok is false when the goal cannot be computed from the current profile.
func (a *LedgerApp) GoalBreakdown(ctx context.Context) (b goal.Breakdown, ok bool, err error) {
	p, err := a.records.GetProfile(ctx)
	if err != nil || p == nil {
		return goal.Breakdown{}, false, err
	}
	b, ok = goal.Explain(p)
	return b, ok, nil
}

// LogWeight appends a measurement to the weight log. The latest entry also
// becomes the profile's current weight.
func (a *LedgerApp) LogWeight(ctx context.Context, weightKg float64, at time.Time) (*ledger.WeightEntry, error) {
	return a.records.LogWeight(ctx, weightKg, at)
}

// WeightHistory returns the weight log, oldest first.
func (a *LedgerApp) WeightHistory(ctx context.Context) ([]ledger.WeightEntry, error) {
	return a.records.GetWeightHistory(ctx)
}

func (a *LedgerApp) DeleteWeight(ctx context.Context, id string) (bool, error) {
	return a.records.DeleteWeight(ctx, id)
}

// WeightSummary summarizes the weight log for a chart of its n latest entries.
// The current weight is the profile's, or the latest entry when the profile has
// none. ok is false when no weight is known at all.
func (a *LedgerApp) WeightSummary(ctx context.Context, target *float64, n int) (s summary.WeightSummary, ok bool, err error) {
	if n < 1 {
		return summary.WeightSummary{}, false, fmt.Errorf("entry count must be at least one, got %d", n)
	}

	history, err := a.records.GetWeightHistory(ctx)
	if err != nil {
		return summary.WeightSummary{}, false, err
	}
	p, err := a.records.GetProfile(ctx)
	if err != nil {
		return summary.WeightSummary{}, false, err
	}

	var current float64
	switch {
	case p != nil && p.WeightKg != nil:
		current = *p.WeightKg
	case len(history) > 0:
		current = history[len(history)-1].WeightKg
	default:
		return summary.WeightSummary{}, false, nil
	}
	return summary.Weight(history, current, target, n), true, nil
}

// AddMeal logs a meal with the given values.
func (a *LedgerApp) AddMeal(ctx context.Context, in ledger.MealInput) (*ledger.MealRecord, error) {
	return a.records.CreateMeal(ctx, in)
}

// QuickAdd logs one serving of a catalog food.
func (a *LedgerApp) QuickAdd(ctx context.Context, key string, mealType ledger.MealType, at time.Time) (*ledger.MealRecord, error) {
	return a.records.LogFood(ctx, a.catalog, key, mealType, at)
}

func (a *LedgerApp) UpdateMeal(ctx context.Context, id string, patch ledger.MealPatch) (*ledger.MealRecord, error) {
	return a.records.UpdateMeal(ctx, id, patch)
}

func (a *LedgerApp) DeleteMeal(ctx context.Context, id string) (bool, error) {
	return a.records.DeleteMeal(ctx, id)
}

func (a *LedgerApp) GetMeal(ctx context.Context, id string) (*ledger.MealRecord, error) {
	return a.records.GetMeal(ctx, id)
}

// MealsForDay returns the meals of the calendar day containing date, newest first.
func (a *LedgerApp) MealsForDay(ctx context.Context, date time.Time) ([]*ledger.MealRecord, error) {
	return a.records.GetMealsForDay(ctx, date)
}

// MealsInRange returns the meals from start's day through end's day, newest first.
func (a *LedgerApp) MealsInRange(ctx context.Context, start, end time.Time) ([]*ledger.MealRecord, error) {
	return a.records.GetMealsInRange(ctx, start, end)
}

// AddWorkout logs a workout with the given values.
func (a *LedgerApp) AddWorkout(ctx context.Context, in ledger.WorkoutInput) (*ledger.WorkoutRecord, error) {
	return a.records.CreateWorkout(ctx, in)
}

func (a *LedgerApp) UpdateWorkout(ctx context.Context, id string, patch ledger.WorkoutPatch) (*ledger.WorkoutRecord, error) {
	return a.records.UpdateWorkout(ctx, id, patch)
}

func (a *LedgerApp) DeleteWorkout(ctx context.Context, id string) (bool, error) {
	return a.records.DeleteWorkout(ctx, id)
}

func (a *LedgerApp) GetWorkout(ctx context.Context, id string) (*ledger.WorkoutRecord, error) {
	return a.records.GetWorkout(ctx, id)
}

// Workouts returns every workout, newest first.
func (a *LedgerApp) Workouts(ctx context.Context) ([]*ledger.WorkoutRecord, error) {
	return a.records.GetAllWorkouts(ctx)
}

// WorkoutsInRange returns the workouts from start's day through end's day, newest first.
func (a *LedgerApp) WorkoutsInRange(ctx context.Context, start, end time.Time) ([]*ledger.WorkoutRecord, error) {
	return a.records.GetWorkoutsInRange(ctx, start, end)
}

// NutritionSummary summarizes the meals of the window days ending on end's day
// against the current calorie goal.
func (a *LedgerApp) NutritionSummary(ctx context.Context, end time.Time, window int) (summary.NutritionSummary, error) {
	if window < 1 {
		return summary.NutritionSummary{}, fmt.Errorf("window must be at least one day, got %d", window)
	}

	calorieGoal, err := a.CalorieGoal(ctx)
	if err != nil {
		return summary.NutritionSummary{}, err
	}
	meals, err := a.records.GetMealsInRange(ctx, end.AddDate(0, 0, -(window-1)), end)
	if err != nil {
		return summary.NutritionSummary{}, err
	}
	return summary.Nutrition(meals, calorieGoal, a.loc, window), nil
}

// WorkoutSummary summarizes the workouts of the window days ending on end's day.
// The type ranking is taken over every logged workout.
func (a *LedgerApp) WorkoutSummary(ctx context.Context, end time.Time, window, topK int) (summary.WorkoutSummary, error) {
	if window < 1 {
		return summary.WorkoutSummary{}, fmt.Errorf("window must be at least one day, got %d", window)
	}

	all, err := a.records.GetAllWorkouts(ctx)
	if err != nil {
		return summary.WorkoutSummary{}, err
	}

	from := ledger.StartOfDay(end.AddDate(0, 0, -(window-1)), a.loc)
	to := ledger.EndOfDay(end, a.loc)
	recent := make([]*ledger.WorkoutRecord, 0, len(all))
	for _, w := range all {
		if !w.PerformedAt.Before(from) && !w.PerformedAt.After(to) {
			recent = append(recent, w)
		}
	}

	s := summary.Workouts(recent, a.loc, window, topK)
	s.TopTypes = summary.TopTypes(summary.WorkoutTypeFrequency(all), topK)
	return s, nil
}

// Close logs the outcome of the operation and closes the store and log file.
func (a *LedgerApp) Close() error {
	var firstErr error

	if a.op.Failed() {
		a.logger.Warn("operation failed", "operation", a.op.Name, "elapsed", a.clock.Now().Sub(a.op.StartedAt))
	} else {
		a.logger.Debug("operation finished", "operation", a.op.Name, "elapsed", a.clock.Now().Sub(a.op.StartedAt))
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			firstErr = fmt.Errorf("closing store: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
