package ledger

import (
	"fmt"
	"strings"
	"time"
)

// decoder reads typed values out of store Fields, remembering the first type mismatch.
type decoder struct {
	f   Fields
	loc *time.Location
	err error
}

func (d *decoder) fail(name string, want string, v any) {
	if d.err == nil {
		d.err = fmt.Errorf("field %q: want %s, got %T", name, want, v)
	}
}

func (d *decoder) text(name string) string {
	v, ok := d.f[name]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail(name, "string", v)
	}
	return s
}

func (d *decoder) optText(name string) *string {
	if v, ok := d.f[name]; !ok || v == nil {
		return nil
	}
	s := d.text(name)
	return &s
}

func (d *decoder) integer(name string) int {
	v, ok := d.f[name]
	if !ok || v == nil {
		return 0
	}
	n, ok := v.(int64)
	if !ok {
		d.fail(name, "int64", v)
	}
	return int(n)
}

func (d *decoder) optInteger(name string) *int {
	if v, ok := d.f[name]; !ok || v == nil {
		return nil
	}
	n := d.integer(name)
	return &n
}

func (d *decoder) float(name string) float64 {
	v, ok := d.f[name]
	if !ok || v == nil {
		return 0
	}
	r, ok := v.(float64)
	if !ok {
		d.fail(name, "float64", v)
	}
	return r
}

func (d *decoder) optReal(name string) *float64 {
	if v, ok := d.f[name]; !ok || v == nil {
		return nil
	}
	r := d.float(name)
	if d.err != nil {
		return nil
	}
	return &r
}

func (d *decoder) timestamp(name string) time.Time {
	v, ok := d.f[name]
	if !ok || v == nil {
		return time.Time{}
	}
	t, ok := v.(time.Time)
	if !ok {
		d.fail(name, "time.Time", v)
	}
	return t.In(d.loc)
}

func nullText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return int64(*n)
}

func nullReal(r *float64) any {
	if r == nil {
		return nil
	}
	return *r
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func decodeProfile(f Fields, loc *time.Location) (*UserProfile, error) {
	d := &decoder{f: f, loc: loc}
	p := &UserProfile{
		ID:                d.text("id"),
		Name:              d.text("name"),
		Target:            FitnessTarget(d.text("target")),
		Age:               d.optInteger("age"),
		Gender:            Gender(d.text("gender")),
		WeightKg:          d.optReal("weight_kg"),
		HeightCm:          d.optReal("height_cm"),
		ActivityLevel:     ActivityLevel(d.text("activity_level")),
		DietaryPreference: DietaryPreference(d.text("dietary_preference")),
		CreatedAt:         d.timestamp("created_at"),
		UpdatedAt:         d.timestamp("updated_at"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return p, nil
}

func encodeProfile(id string, in ProfileInput, now time.Time) Fields {
	return Fields{
		"id":                 id,
		"name":               nullText(in.Name),
		"target":             nullText(string(in.Target)),
		"age":                nullInt(in.Age),
		"gender":             nullText(string(in.Gender)),
		"weight_kg":          nullReal(in.WeightKg),
		"height_cm":          nullReal(in.HeightCm),
		"activity_level":     nullText(string(in.ActivityLevel)),
		"dietary_preference": nullText(string(in.DietaryPreference)),
		"created_at":         now,
		"updated_at":         now,
	}
}

func encodeProfilePatch(p ProfilePatch, now time.Time) Fields {
	f := Fields{"updated_at": now}
	if p.Name != nil {
		f["name"] = nullText(*p.Name)
	}
	if p.Target != nil {
		f["target"] = string(*p.Target)
	}
	if p.Age != nil {
		f["age"] = int64(*p.Age)
	}
	if p.Gender != nil {
		f["gender"] = string(*p.Gender)
	}
	if p.WeightKg != nil {
		f["weight_kg"] = *p.WeightKg
	}
	if p.HeightCm != nil {
		f["height_cm"] = *p.HeightCm
	}
	if p.ActivityLevel != nil {
		f["activity_level"] = string(*p.ActivityLevel)
	}
	if p.DietaryPreference != nil {
		f["dietary_preference"] = string(*p.DietaryPreference)
	}
	return f
}

func decodeMeal(f Fields, loc *time.Location) (*MealRecord, error) {
	d := &decoder{f: f, loc: loc}
	m := &MealRecord{
		ID:       d.text("id"),
		Key:      d.text("key"),
		Calories: d.integer("calories"),
		ProteinG: d.optReal("protein_g"),
		CarbsG:   d.optReal("carbs_g"),
		FatG:     d.optReal("fat_g"),
		EatenAt:  d.timestamp("eaten_at"),
		MealType: MealType(d.text("meal_type")),
	}
	if d.err != nil {
		return nil, d.err
	}
	return m, nil
}

func encodeMeal(id string, in MealInput) Fields {
	return Fields{
		"id":        id,
		"key":       strings.TrimSpace(in.Key),
		"calories":  int64(in.Calories),
		"protein_g": nullReal(in.ProteinG),
		"carbs_g":   nullReal(in.CarbsG),
		"fat_g":     nullReal(in.FatG),
		"eaten_at":  in.EatenAt,
		"meal_type": string(in.MealType),
	}
}

func encodeMealPatch(p MealPatch) Fields {
	f := Fields{}
	if p.Key != nil {
		f["key"] = strings.TrimSpace(*p.Key)
	}
	if p.Calories != nil {
		f["calories"] = int64(*p.Calories)
	}
	if p.ProteinG != nil {
		f["protein_g"] = *p.ProteinG
	}
	if p.CarbsG != nil {
		f["carbs_g"] = *p.CarbsG
	}
	if p.FatG != nil {
		f["fat_g"] = *p.FatG
	}
	if p.EatenAt != nil {
		f["eaten_at"] = *p.EatenAt
	}
	if p.MealType != nil {
		f["meal_type"] = string(*p.MealType)
	}
	return f
}

func decodeWorkout(f Fields, loc *time.Location) (*WorkoutRecord, error) {
	d := &decoder{f: f, loc: loc}
	w := &WorkoutRecord{
		ID:              d.text("id"),
		Type:            d.text("type"),
		DurationMinutes: d.integer("duration_minutes"),
		CaloriesBurned:  d.integer("calories_burned"),
		PerformedAt:     d.timestamp("performed_at"),
		Notes:           d.optText("notes"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return w, nil
}

func encodeWorkout(id string, in WorkoutInput) Fields {
	return Fields{
		"id":               id,
		"type":             CanonicalWorkoutType(in.Type),
		"duration_minutes": int64(in.DurationMinutes),
		"calories_burned":  int64(in.CaloriesBurned),
		"performed_at":     in.PerformedAt,
		"notes":            nullString(in.Notes),
	}
}

func encodeWorkoutPatch(p WorkoutPatch) Fields {
	f := Fields{}
	if p.Type != nil {
		f["type"] = CanonicalWorkoutType(*p.Type)
	}
	if p.DurationMinutes != nil {
		f["duration_minutes"] = int64(*p.DurationMinutes)
	}
	if p.CaloriesBurned != nil {
		f["calories_burned"] = int64(*p.CaloriesBurned)
	}
	if p.PerformedAt != nil {
		f["performed_at"] = *p.PerformedAt
	}
	if p.Notes != nil {
		f["notes"] = *p.Notes
	}
	return f
}

func decodeWeight(f Fields, loc *time.Location) (*WeightEntry, error) {
	d := &decoder{f: f, loc: loc}
	w := &WeightEntry{
		ID:       d.text("id"),
		WeightKg: d.float("weight_kg"),
		At:       d.timestamp("recorded_at"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return w, nil
}

func encodeWeight(id string, weightKg float64, at time.Time) Fields {
	return Fields{
		"id":          id,
		"weight_kg":   weightKg,
		"recorded_at": at,
	}
}
