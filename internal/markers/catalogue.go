package markers

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywords []byte

// ErrUnknownCategory is returned when a catalogue names a category outside
// the fixed priority list.
var ErrUnknownCategory = errors.New("markers: unknown category")

// Category tags a family of keywords.
type Category string

const (
	Danger              Category = "danger"
	CognitiveDistortion Category = "cognitive_distortion"
	Insomnia            Category = "insomnia"
	Rumination          Category = "rumination"
)

// priority is the order categories are checked in. First match wins.
var priority = []Category{Danger, CognitiveDistortion, Insomnia, Rumination}

// Categories returns every category in priority order.
func Categories() []Category {
	return append([]Category(nil), priority...)
}

// Rank is the category's position in the priority order, or -1.
func (c Category) Rank() int {
	for i, p := range priority {
		if p == c {
			return i
		}
	}
	return -1
}

func (c Category) Label() string {
	switch c {
	case Danger:
		return "Danger"
	case CognitiveDistortion:
		return "Distorsion cognitive"
	case Insomnia:
		return "Insomnie"
	case Rumination:
		return "Rumination"
	}
	return string(c)
}

// Match is the first keyword found in a text.
type Match struct {
	Category Category `json:"category"`
	Keyword  string   `json:"keyword"`
}

type group struct {
	category Category
	keywords []string
	folded   []string
}

// Catalogue is an immutable set of keyword groups held in priority order.
type Catalogue struct {
	groups []group
}

// ParseCatalogue decodes a YAML document mapping category tags to keyword
// lists. Categories may be omitted; unknown ones are rejected.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	raw := map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("markers: decode catalogue: %w", err)
	}
	byCat := make(map[Category][]string, len(raw))
	for tag, kws := range raw {
		cat := Category(tag)
		if cat.Rank() < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, tag)
		}
		byCat[cat] = kws
	}
	return NewCatalogue(byCat)
}

// NewCatalogue builds a catalogue from keyword lists. Blank keywords are an
// error since they would match every text.
func NewCatalogue(byCat map[Category][]string) (*Catalogue, error) {
	c := &Catalogue{}
	for _, cat := range priority {
		kws, ok := byCat[cat]
		if !ok {
			continue
		}
		g := group{category: cat}
		for i, kw := range kws {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				return nil, fmt.Errorf("markers: %s keyword %d is blank", cat, i)
			}
			g.keywords = append(g.keywords, kw)
			g.folded = append(g.folded, fold(kw))
		}
		c.groups = append(c.groups, g)
	}
	for cat := range byCat {
		if cat.Rank() < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, string(cat))
		}
	}
	return c, nil
}

// LoadCatalogue reads a YAML catalogue from path.
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("markers: read catalogue: %w", err)
	}
	return ParseCatalogue(data)
}

// MustDefault returns the built-in French catalogue.
func MustDefault() *Catalogue {
	c, err := ParseCatalogue(defaultKeywords)
	if err != nil {
		panic(err)
	}
	return c
}

// Keywords returns the keywords of cat in check order.
func (c *Catalogue) Keywords(cat Category) []string {
	for _, g := range c.groups {
		if g.category == cat {
			return append([]string(nil), g.keywords...)
		}
	}
	return nil
}

// Len is the total number of keywords.
func (c *Catalogue) Len() int {
	n := 0
	for _, g := range c.groups {
		n += len(g.keywords)
	}
	return n
}

// Match scans text for the first keyword, categories in priority order and
// keywords in catalogue order. It is pure and safe for concurrent use.
func (c *Catalogue) Match(text string) (Match, bool) {
	if text == "" {
		return Match{}, false
	}
	t := fold(text)
	for _, g := range c.groups {
		for i, f := range g.folded {
			if strings.Contains(t, f) {
				return Match{Category: g.category, Keyword: g.keywords[i]}, true
			}
		}
	}
	return Match{}, false
}

var apostrophes = strings.NewReplacer("’", "'", "ʼ", "'")

// fold normalises s for case-insensitive comparison of accented text.
// A Caser keeps state, so each call gets its own.
func fold(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s)
	return apostrophes.Replace(s)
}
