package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ledger-go/internal/config"
)

func TestBuiltin(t *testing.T) {
	c, err := Builtin("")
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	if got := len(c.List()); got != 48 {
		t.Errorf("len(List()) = %d, want 48", got)
	}
	if c.Language() != DefaultLanguage {
		t.Errorf("Language() = %q, want %q", c.Language(), DefaultLanguage)
	}

	for _, f := range c.List() {
		if f.Names[DefaultLanguage] == "" {
			t.Errorf("food %q has no English name", f.Key)
		}
	}

	egg, ok := c.Food("egg")
	if !ok {
		t.Fatal("Food(egg) not found")
	}
	// 6*4 + 0.6*4 + 5*9 = 71.4
	if egg.Calories() != 71 {
		t.Errorf("egg Calories() = %d, want 71", egg.Calories())
	}

	m, ok := c.Macros("chickenBreast")
	if !ok || m.ProteinG != 31 || m.CarbsG != 0 || m.FatG != 3.6 {
		t.Errorf("Macros(chickenBreast) = %+v, %v", m, ok)
	}
	if _, ok := c.Macros("unicornSteak"); ok {
		t.Error("Macros() found an unknown key")
	}
}

func TestDisplayName(t *testing.T) {
	c := New("pt", []Food{
		{Key: "apple", Names: map[string]string{"en": "Apple", "pt": "Maçã"}},
		{Key: "kimchi", Names: map[string]string{"en": "Kimchi"}},
		{Key: "mystery"},
	})

	tests := []struct {
		key  string
		lang string
		want string
	}{
		{"apple", "pt", "Maçã"},
		{"apple", "en", "Apple"},
		{"kimchi", "pt", "Kimchi"},
		{"mystery", "pt", "mystery"},
		{"unknown", "en", "unknown"},
	}
	for _, tt := range tests {
		if got := c.DisplayName(tt.key, tt.lang); got != tt.want {
			t.Errorf("DisplayName(%q, %q) = %q, want %q", tt.key, tt.lang, got, tt.want)
		}
	}
	if got := c.Name("apple"); got != "Maçã" {
		t.Errorf("Name(apple) = %q, want %q", got, "Maçã")
	}
}

func TestRead(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		foods, err := Read(strings.NewReader(`
[[foods]]
key = "kimchi"
protein_g = 1.1
carbs_g = 2.4
fat_g = 0.5
names = { en = "Kimchi" }
`))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(foods) != 1 || foods[0].Key != "kimchi" || foods[0].CarbsG != 2.4 {
			t.Errorf("Read() = %+v", foods)
		}
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `[[foods]] key =`},
		{"empty key", "[[foods]]\nkey = \"\"\n"},
		{"duplicate key", "[[foods]]\nkey = \"a\"\n[[foods]]\nkey = \"a\"\n"},
		{"negative macros", "[[foods]]\nkey = \"a\"\nfat_g = -1.0\n"},
		{"unknown field", "[[foods]]\nkey = \"a\"\nsugar_g = 3.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.doc)); err == nil {
				t.Error("Read() expected error")
			}
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Run("built-in only", func(t *testing.T) {
		c, err := NewFromConfig(config.CatalogConfig{Language: "zh"})
		if err != nil {
			t.Fatalf("NewFromConfig() error = %v", err)
		}
		if got := c.Name("apple"); got != "苹果" {
			t.Errorf("Name(apple) = %q, want %q", got, "苹果")
		}
	})

	t.Run("user catalog merged over built-in", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "foods.toml")
		doc := `
[[foods]]
key = "apple"
protein_g = 0.5
carbs_g = 25.0
fat_g = 0.3
names = { en = "Large Apple" }

[[foods]]
key = "kimchi"
protein_g = 1.1
carbs_g = 2.4
fat_g = 0.5
`
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		c, err := NewFromConfig(config.CatalogConfig{Path: path})
		if err != nil {
			t.Fatalf("NewFromConfig() error = %v", err)
		}
		if got := len(c.List()); got != 49 {
			t.Errorf("len(List()) = %d, want 49", got)
		}
		if c.List()[0].Key != "apple" {
			t.Errorf("first food = %q, want apple to keep its position", c.List()[0].Key)
		}
		if got := c.Name("apple"); got != "Large Apple" {
			t.Errorf("Name(apple) = %q, want %q", got, "Large Apple")
		}
		if m, _ := c.Macros("apple"); m.Calories() != 105 {
			t.Errorf("apple calories = %d, want 105", m.Calories())
		}
		if got := c.Name("kimchi"); got != "kimchi" {
			t.Errorf("Name(kimchi) = %q, want the key", got)
		}
	})

	t.Run("missing user catalog", func(t *testing.T) {
		_, err := NewFromConfig(config.CatalogConfig{Path: "/nonexistent/foods.toml"})
		if err == nil {
			t.Error("NewFromConfig() expected error for missing file")
		}
	})
}

func TestSearch(t *testing.T) {
	c, err := Builtin("en")
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	got := c.Search("rice")
	var keys []string
	for _, f := range got {
		keys = append(keys, f.Key)
	}
	// "Brown Rice" sorts before "Rice".
	if strings.Join(keys, ",") != "brownRice,rice" {
		t.Errorf("Search(rice) = %v, want [brownRice rice]", keys)
	}
}
