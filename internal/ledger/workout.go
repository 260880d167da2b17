package ledger

import (
	"context"
	"time"
)

// CreateWorkout logs a workout. The type is stored lower-cased, and a zero
// PerformedAt is stamped with the current time.
func (s *RecordStore) CreateWorkout(ctx context.Context, in WorkoutInput) (*WorkoutRecord, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	if err := validateWorkout(in); err != nil {
		return nil, err
	}
	if in.PerformedAt.IsZero() {
		in.PerformedAt = s.clock.Now()
	}

	created, err := s.store.Create(ctx, KindWorkout, encodeWorkout(s.idgen.New(), in))
	if err != nil {
		return nil, wrapStoreErr("create", KindWorkout, err)
	}

	w, err := decodeWorkout(created, s.loc)
	if err != nil {
		return nil, wrapStoreErr("decode", KindWorkout, err)
	}
	s.logger.Info("workout logged", "id", w.ID, "type", w.Type, "minutes", w.DurationMinutes)
	return w, nil
}

// UpdateWorkout applies patch to the workout with the given id.
// Returns nil if no such workout exists.
func (s *RecordStore) UpdateWorkout(ctx context.Context, id string, patch WorkoutPatch) (*WorkoutRecord, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	if err := validateWorkoutPatch(patch); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, KindWorkout, id, encodeWorkoutPatch(patch))
	if err != nil {
		return nil, wrapStoreErr("update", KindWorkout, err)
	}
	if updated == nil {
		return nil, nil
	}

	w, err := decodeWorkout(updated, s.loc)
	if err != nil {
		return nil, wrapStoreErr("decode", KindWorkout, err)
	}
	s.logger.Info("workout updated", "id", w.ID)
	return w, nil
}

// DeleteWorkout removes the workout with the given id and reports whether it existed.
func (s *RecordStore) DeleteWorkout(ctx context.Context, id string) (bool, error) {
	if err := s.available(); err != nil {
		return false, err
	}

	deleted, err := s.store.Delete(ctx, KindWorkout, id)
	if err != nil {
		return false, wrapStoreErr("delete", KindWorkout, err)
	}
	if deleted {
		s.logger.Info("workout deleted", "id", id)
	}
	return deleted, nil
}

// GetWorkout returns the workout with the given id, or nil if none exists.
func (s *RecordStore) GetWorkout(ctx context.Context, id string) (*WorkoutRecord, error) {
	if err := s.available(); err != nil {
		return nil, err
	}

	f, err := s.store.Get(ctx, KindWorkout, id)
	if err != nil {
		return nil, wrapStoreErr("get", KindWorkout, err)
	}
	if f == nil {
		return nil, nil
	}

	w, err := decodeWorkout(f, s.loc)
	if err != nil {
		return nil, wrapStoreErr("decode", KindWorkout, err)
	}
	return w, nil
}

// GetAllWorkouts returns every workout, newest first.
func (s *RecordStore) GetAllWorkouts(ctx context.Context) ([]*WorkoutRecord, error) {
	return s.queryWorkouts(ctx, nil)
}

// GetWorkoutsInRange returns the workouts performed from the start of start's
// day through the end of end's day, newest first.
func (s *RecordStore) GetWorkoutsInRange(ctx context.Context, start, end time.Time) ([]*WorkoutRecord, error) {
	return s.queryWorkouts(ctx, []Filter{
		{Field: "performed_at", Op: OpGte, Value: StartOfDay(start, s.loc)},
		{Field: "performed_at", Op: OpLte, Value: EndOfDay(end, s.loc)},
	})
}

func (s *RecordStore) queryWorkouts(ctx context.Context, filters []Filter) ([]*WorkoutRecord, error) {
	if err := s.available(); err != nil {
		return nil, err
	}

	rows, err := s.store.Query(ctx, Query{
		Kind:       KindWorkout,
		Filters:    filters,
		SortKey:    "performed_at",
		Descending: true,
	})
	if err != nil {
		return nil, wrapStoreErr("query", KindWorkout, err)
	}

	workouts := make([]*WorkoutRecord, 0, len(rows))
	for _, row := range rows {
		w, err := decodeWorkout(row, s.loc)
		if err != nil {
			return nil, wrapStoreErr("decode", KindWorkout, err)
		}
		workouts = append(workouts, w)
	}
	s.logger.Debug("workouts queried", "count", len(workouts))
	return workouts, nil
}
