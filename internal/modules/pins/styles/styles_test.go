package styles

import (
	"strings"
	"testing"
)

func TestParseFallsBackToDefault(t *testing.T) {
	if Parse("ELEGANT ") != Elegant {
		t.Fatalf("Parse: case and whitespace should be ignored")
	}
	if Parse("vaporwave") != Default || Parse("") != Default {
		t.Fatalf("Parse: unknown keys must map to the default preset")
	}
	if Key("vaporwave").Prompt() != Default.Prompt() {
		t.Fatalf("Prompt: unknown key should render the default fragment")
	}
}

func TestEveryPresetHasAPrompt(t *testing.T) {
	for _, k := range All() {
		if strings.TrimSpace(k.Prompt()) == "" {
			t.Fatalf("%s: empty prompt", k)
		}
	}
}

func TestForVariation(t *testing.T) {
	want := []Key{Modern, Creative, Elegant}
	for i, w := range want {
		if got := ForVariation("", i); got != w {
			t.Fatalf("ForVariation(%d): want=%s got=%s", i, w, got)
		}
	}
	if got := ForVariation("bold", 2); got != Bold {
		t.Fatalf("ForVariation explicit: got=%s", got)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if len(c.List()) == 0 {
		t.Fatalf("catalog empty")
	}
	n, ok := c.Get("Recipes")
	if !ok || n.ImageStylePrompt == "" || n.SpecializedPrompt == "" {
		t.Fatalf("Get(recipes): %+v ok=%v", n, ok)
	}
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	raw := []byte("niches:\n  - id: a\n  - id: A\n")
	if _, err := ParseCatalog(raw); err == nil {
		t.Fatalf("ParseCatalog: expected duplicate error")
	}
}
