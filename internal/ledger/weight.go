package ledger

import (
	"context"
	"time"
)

// LogWeight appends a body-weight measurement to the weight log. A zero at is
// stamped with the current time. When the entry is the latest one, the
// profile's current weight is set to it as well.
func (s *RecordStore) LogWeight(ctx context.Context, weightKg float64, at time.Time) (*WeightEntry, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	if err := validateWeight(weightKg, at); err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = s.clock.Now()
	}

	later, err := s.store.Query(ctx, Query{
		Kind:    KindWeight,
		Filters: []Filter{{Field: "recorded_at", Op: OpGt, Value: at}},
		Limit:   1,
	})
	if err != nil {
		return nil, wrapStoreErr("query", KindWeight, err)
	}

	entry, err := s.recordWeight(ctx, weightKg, at)
	if err != nil {
		return nil, err
	}
	if len(later) > 0 {
		return entry, nil
	}

	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return entry, nil
	}
	if _, err := s.store.Update(ctx, KindUser, p.ID, encodeProfilePatch(ProfilePatch{WeightKg: &weightKg}, s.clock.Now())); err != nil {
		return nil, wrapStoreErr("update", KindUser, err)
	}
	return entry, nil
}

func (s *RecordStore) recordWeight(ctx context.Context, weightKg float64, at time.Time) (*WeightEntry, error) {
	created, err := s.store.Create(ctx, KindWeight, encodeWeight(s.idgen.New(), weightKg, at))
	if err != nil {
		return nil, wrapStoreErr("create", KindWeight, err)
	}

	w, err := decodeWeight(created, s.loc)
	if err != nil {
		return nil, wrapStoreErr("decode", KindWeight, err)
	}
	s.logger.Info("weight logged", "id", w.ID, "weight_kg", w.WeightKg)
	return w, nil
}

// GetWeightHistory returns the weight log, oldest first.
func (s *RecordStore) GetWeightHistory(ctx context.Context) ([]WeightEntry, error) {
	if err := s.available(); err != nil {
		return nil, err
	}

	rows, err := s.store.Query(ctx, Query{Kind: KindWeight, SortKey: "recorded_at"})
	if err != nil {
		return nil, wrapStoreErr("query", KindWeight, err)
	}

	history := make([]WeightEntry, 0, len(rows))
	for _, row := range rows {
		w, err := decodeWeight(row, s.loc)
		if err != nil {
			return nil, wrapStoreErr("decode", KindWeight, err)
		}
		history = append(history, *w)
	}
	return history, nil
}

// DeleteWeight removes a weight log entry and reports whether it existed.
// The profile's current weight is left as it is.
func (s *RecordStore) DeleteWeight(ctx context.Context, id string) (bool, error) {
	if err := s.available(); err != nil {
		return false, err
	}

	deleted, err := s.store.Delete(ctx, KindWeight, id)
	if err != nil {
		return false, wrapStoreErr("delete", KindWeight, err)
	}
	if deleted {
		s.logger.Info("weight entry deleted", "id", id)
	}
	return deleted, nil
}
