package styles

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed niches.yaml
var nichesYAML []byte

type Niche struct {
	ID                string `yaml:"id" json:"id"`
	Name              string `yaml:"name" json:"name"`
	SpecializedPrompt string `yaml:"specialized_prompt" json:"specializedPrompt"`
	ImageStylePrompt  string `yaml:"image_style_prompt" json:"imageStylePrompt"`
}

type Catalog struct {
	niches []Niche
	byID   map[string]Niche
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var doc struct {
		Niches []Niche `yaml:"niches"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse niche catalog: %w", err)
	}
	c := &Catalog{byID: make(map[string]Niche, len(doc.Niches))}
	for _, n := range doc.Niches {
		n.ID = strings.ToLower(strings.TrimSpace(n.ID))
		if n.ID == "" {
			return nil, fmt.Errorf("parse niche catalog: niche without id")
		}
		if _, dup := c.byID[n.ID]; dup {
			return nil, fmt.Errorf("parse niche catalog: duplicate niche %q", n.ID)
		}
		n.SpecializedPrompt = strings.TrimSpace(n.SpecializedPrompt)
		n.ImageStylePrompt = strings.TrimSpace(n.ImageStylePrompt)
		c.byID[n.ID] = n
		c.niches = append(c.niches, n)
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog is the embedded catalog. It panics if the embedded file is malformed.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(nichesYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func (c *Catalog) List() []Niche {
	out := make([]Niche, len(c.niches))
	copy(out, c.niches)
	return out
}

func (c *Catalog) Get(id string) (Niche, bool) {
	n, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	return n, ok
}
