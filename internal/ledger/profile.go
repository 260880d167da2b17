package ledger

import (
	"context"
	"fmt"
)

// GetProfile returns the installation's profile, or nil if none has been created.
func (s *RecordStore) GetProfile(ctx context.Context) (*UserProfile, error) {
	if err := s.available(); err != nil {
		return nil, err
	}

	rows, err := s.store.Query(ctx, Query{Kind: KindUser, SortKey: "created_at", Limit: 1})
	if err != nil {
		return nil, wrapStoreErr("query", KindUser, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	p, err := decodeProfile(rows[0], s.loc)
	if err != nil {
		return nil, wrapStoreErr("decode", KindUser, err)
	}
	return p, nil
}

// CreateProfile creates the installation's profile.
// Only one profile may exist; a second call fails with ErrProfileExists.
func (s *RecordStore) CreateProfile(ctx context.Context, in ProfileInput) (*UserProfile, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	if err := validateProfile(in); err != nil {
		return nil, err
	}

	existing, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrProfileExists
	}

	fields := encodeProfile(s.idgen.New(), in, s.clock.Now())
	created, err := s.store.Create(ctx, KindUser, fields)
	if err != nil {
		return nil, wrapStoreErr("create", KindUser, err)
	}

	p, err := decodeProfile(created, s.loc)
	if err != nil {
		return nil, wrapStoreErr("decode", KindUser, err)
	}
	s.logger.Info("profile created", "id", p.ID)
	return p, nil
}

// UpdateProfile merges patch into the existing profile and re-stamps UpdatedAt.
// It returns nil without writing anything when no profile exists yet.
func (s *RecordStore) UpdateProfile(ctx context.Context, patch ProfilePatch) (*UserProfile, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	if err := validateProfilePatch(patch); err != nil {
		return nil, err
	}

	existing, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	updated, err := s.store.Update(ctx, KindUser, existing.ID, encodeProfilePatch(patch, s.clock.Now()))
	if err != nil {
		return nil, wrapStoreErr("update", KindUser, err)
	}
	if updated == nil {
		return nil, nil // Removed between read and write
	}

	p, err := decodeProfile(updated, s.loc)
	if err != nil {
		return nil, wrapStoreErr("decode", KindUser, err)
	}
	s.logger.Info("profile updated", "id", p.ID)
	return p, nil
}

// SaveProfile updates the profile, creating it first if this is the initial setup.
// A weight that differs from the stored one is also appended to the weight log.
func (s *RecordStore) SaveProfile(ctx context.Context, patch ProfilePatch) (*UserProfile, error) {
	before, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}

	var p *UserProfile
	if before != nil {
		p, err = s.UpdateProfile(ctx, patch)
		if err != nil {
			return nil, err
		}
	}
	if p == nil {
		p, err = s.CreateProfile(ctx, patch.Input())
		if err != nil {
			return nil, fmt.Errorf("creating profile: %w", err)
		}
	}

	if weightChanged(before, patch) {
		if _, err := s.recordWeight(ctx, *patch.WeightKg, s.clock.Now()); err != nil {
			return nil, fmt.Errorf("recording weight: %w", err)
		}
	}
	return p, nil
}

func weightChanged(before *UserProfile, patch ProfilePatch) bool {
	if patch.WeightKg == nil {
		return false
	}
	return before == nil || before.WeightKg == nil || *before.WeightKg != *patch.WeightKg
}
