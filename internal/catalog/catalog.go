// Package catalog resolves food keys to display names and macronutrients.
// Records only store keys; everything shown to the user about a food comes from here.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"ledger-go/internal/config"
	"ledger-go/internal/ledger"
)

//go:embed foods.toml
var builtinFoods []byte

// DefaultLanguage is used when a name is missing in the requested language.
const DefaultLanguage = "en"

// Food is one catalog entry. Macros are grams per serving.
type Food struct {
	Key      string            `toml:"key"`
	ProteinG float64           `toml:"protein_g"`
	CarbsG   float64           `toml:"carbs_g"`
	FatG     float64           `toml:"fat_g"`
	Icon     string            `toml:"icon,omitempty"`
	Names    map[string]string `toml:"names,omitempty"`
}

// Macros returns the food's macronutrients per serving.
func (f Food) Macros() ledger.Macros {
	return ledger.Macros{ProteinG: f.ProteinG, CarbsG: f.CarbsG, FatG: f.FatG}
}

// Calories returns the energy of one serving.
func (f Food) Calories() int {
	return f.Macros().Calories()
}

type file struct {
	Foods []Food `toml:"foods"`
}

// Catalog is an ordered, keyed set of foods.
type Catalog struct {
	foods    []Food
	index    map[string]int
	language string
}

// New builds a catalog from the given food lists. A later list replaces
// entries of earlier lists with the same key and appends new ones.
func New(language string, lists ...[]Food) *Catalog {
	if language == "" {
		language = DefaultLanguage
	}
	c := &Catalog{index: make(map[string]int), language: language}
	for _, list := range lists {
		for _, f := range list {
			if i, ok := c.index[f.Key]; ok {
				c.foods[i] = f
				continue
			}
			c.index[f.Key] = len(c.foods)
			c.foods = append(c.foods, f)
		}
	}
	return c
}

// Read decodes and validates a food list in catalog TOML format.
// Unknown keys are rejected so typos in a user catalog do not go unnoticed.
func Read(r io.Reader) ([]Food, error) {
	var f file
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown catalog field %q", undecoded[0].String())
	}

	seen := make(map[string]bool, len(f.Foods))
	for i, food := range f.Foods {
		if strings.TrimSpace(food.Key) == "" {
			return nil, fmt.Errorf("food %d: empty key", i+1)
		}
		if seen[food.Key] {
			return nil, fmt.Errorf("food %q: duplicate key", food.Key)
		}
		seen[food.Key] = true
		if food.ProteinG < 0 || food.CarbsG < 0 || food.FatG < 0 {
			return nil, fmt.Errorf("food %q: macros must not be negative", food.Key)
		}
	}
	return f.Foods, nil
}

// Builtin returns the catalog shipped with the binary.
func Builtin(language string) (*Catalog, error) {
	foods, err := Read(bytes.NewReader(builtinFoods))
	if err != nil {
		return nil, fmt.Errorf("reading built-in catalog: %w", err)
	}
	return New(language, foods), nil
}

// NewFromConfig returns the built-in catalog with the configured user catalog merged over it.
func NewFromConfig(cfg config.CatalogConfig) (*Catalog, error) {
	builtin, err := Read(bytes.NewReader(builtinFoods))
	if err != nil {
		return nil, fmt.Errorf("reading built-in catalog: %w", err)
	}
	if cfg.Path == "" {
		return New(cfg.Language, builtin), nil
	}

	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	user, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading catalog from %s: %w", cfg.Path, err)
	}
	return New(cfg.Language, builtin, user), nil
}

// Food returns the entry for key.
func (c *Catalog) Food(key string) (Food, bool) {
	i, ok := c.index[key]
	if !ok {
		return Food{}, false
	}
	return c.foods[i], true
}

// Macros implements ledger.FoodCatalog.
func (c *Catalog) Macros(key string) (ledger.Macros, bool) {
	f, ok := c.Food(key)
	if !ok {
		return ledger.Macros{}, false
	}
	return f.Macros(), true
}

// Name returns the display name of key in the catalog's language.
func (c *Catalog) Name(key string) string {
	return c.DisplayName(key, c.language)
}

// DisplayName returns the name of key in lang, falling back to English and
// then to the key itself. Unknown keys are returned unchanged.
func (c *Catalog) DisplayName(key, lang string) string {
	f, ok := c.Food(key)
	if !ok {
		return key
	}
	if name := f.Names[lang]; name != "" {
		return name
	}
	if name := f.Names[DefaultLanguage]; name != "" {
		return name
	}
	return key
}

// Language returns the catalog's display language.
func (c *Catalog) Language() string {
	return c.language
}

// List returns every food in catalog order.
func (c *Catalog) List() []Food {
	out := make([]Food, len(c.foods))
	copy(out, c.foods)
	return out
}

// Search returns the foods whose key or display name contains query, ignoring case,
// ordered by display name.
func (c *Catalog) Search(query string) []Food {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Food
	for _, f := range c.foods {
		if strings.Contains(strings.ToLower(f.Key), q) || strings.Contains(strings.ToLower(c.Name(f.Key)), q) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return c.Name(out[i].Key) < c.Name(out[j].Key)
	})
	return out
}

// Compile-time check that Catalog implements ledger.FoodCatalog.
var _ ledger.FoodCatalog = (*Catalog)(nil)
