package mood

import (
	"errors"
	"fmt"
)

// Grid geometry, in grid pixels.
const (
	CellSize    = 105.0
	QuadrantGap = 40.0
	HalfSize    = 3 * CellSize
	GridWidth   = HalfSize + QuadrantGap + HalfSize
	GridHeight  = HalfSize + QuadrantGap + HalfSize
)

var ErrEmptyCatalogue = errors.New("mood: catalogue is empty")

// Quadrant tags one of the four energy/valence regions of the affect grid.
type Quadrant string

const (
	HighUnpleasant Quadrant = "high-unpleasant"
	HighPleasant   Quadrant = "high-pleasant"
	LowUnpleasant  Quadrant = "low-unpleasant"
	LowPleasant    Quadrant = "low-pleasant"
)

// QuadrantInfo carries the display data of a quadrant.
type QuadrantInfo struct {
	Quadrant   Quadrant
	Label      string
	Background string
	Light      string
	// top-left cell of the quadrant's 3x3 block
	Row, Col int
}

// Entry is an immutable mood record placed on the grid.
type Entry struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Color      string   `json:"color"`
	Definition string   `json:"definition"`
	Quadrant   Quadrant `json:"quadrant"`
	// Home coordinate: center of the entry's cell, in grid space.
	GX float64 `json:"gx"`
	GY float64 `json:"gy"`
}

// Home returns the entry's home coordinate as a vector.
func (e Entry) Home() Vec { return Vec{X: e.GX, Y: e.GY} }

type seed struct {
	id, label, color, def string
}

// Quadrants in catalogue order: top row first, then bottom row.
var Quadrants = []QuadrantInfo{
	{Quadrant: HighUnpleasant, Label: "Énergie haute · Désagréable", Background: "#E53935", Light: "#FFEBEE", Row: 0, Col: 0},
	{Quadrant: HighPleasant, Label: "Énergie haute · Agréable", Background: "#FDD835", Light: "#FFFDE7", Row: 0, Col: 3},
	{Quadrant: LowUnpleasant, Label: "Énergie basse · Désagréable", Background: "#5C6BC0", Light: "#E8EAF6", Row: 3, Col: 0},
	{Quadrant: LowPleasant, Label: "Énergie basse · Agréable", Background: "#66BB6A", Light: "#E8F5E9", Row: 3, Col: 3},
}

var seeds = map[Quadrant][]seed{
	HighUnpleasant: {
		{"hu-1", "Enragé·e", "#C62828", "Une colère intense qui submerge tout le reste."},
		{"hu-2", "Paniqué·e", "#D32F2F", "Un sentiment d'urgence incontrôlable face au danger."},
		{"hu-3", "Stressé·e", "#E53935", "Une pression mentale qui crée de la tension."},
		{"hu-4", "Anxieux·se", "#EF5350", "Une inquiétude diffuse tournée vers l'avenir."},
		{"hu-5", "Frustré·e", "#FF5252", "Le sentiment d'être bloqué·e malgré ses efforts."},
		{"hu-6", "Agacé·e", "#FF8A65", "Une irritation légère mais persistante."},
		{"hu-7", "En colère", "#D84315", "Une réaction vive face à une injustice perçue."},
		{"hu-8", "Tendu·e", "#FF7043", "Un état de vigilance qui empêche de se relâcher."},
		{"hu-9", "Agité·e", "#FF8A65", "Une nervosité qui rend difficile de rester en place."},
	},
	HighPleasant: {
		{"hp-1", "Euphorique", "#F57F17", "Un bonheur débordant qui donne envie de tout."},
		{"hp-2", "Excité·e", "#F9A825", "Une anticipation joyeuse de quelque chose à venir."},
		{"hp-3", "Enthousiaste", "#FBC02D", "Un élan d'énergie positive tourné vers l'action."},
		{"hp-4", "Joyeux·se", "#FFEB3B", "Un sentiment lumineux de bien-être intérieur."},
		{"hp-5", "Énergique", "#C0CA33", "Un surplus de vitalité qui pousse à bouger."},
		{"hp-6", "Optimiste", "#9CCC65", "La conviction que les choses vont bien se passer."},
		{"hp-7", "Confiant·e", "#AED581", "Un sentiment de force et de capacité intérieure."},
		{"hp-8", "Inspiré·e", "#DCE775", "Un souffle créatif qui ouvre des possibilités."},
		{"hp-9", "Fier·e", "#FFD54F", "La satisfaction d'avoir accompli quelque chose."},
	},
	LowUnpleasant: {
		{"lu-1", "Épuisé·e", "#283593", "Un vide d'énergie total, physique et mental."},
		{"lu-2", "Désespéré·e", "#3949AB", "L'impression que rien ne peut s'améliorer."},
		{"lu-3", "Triste", "#5C6BC0", "Une peine intérieure qui ralentit tout."},
		{"lu-4", "Seul·e", "#7986CB", "Un sentiment d'isolement, même entouré·e."},
		{"lu-5", "Découragé·e", "#9FA8DA", "L'envie d'abandonner face aux obstacles."},
		{"lu-6", "Vidé·e", "#42A5F5", "Un manque de ressources intérieures."},
		{"lu-7", "Mélancolique", "#64B5F6", "Une nostalgie douce mêlée de tristesse."},
		{"lu-8", "Ennuyé·e", "#78909C", "Un manque de stimulation et d'intérêt."},
		{"lu-9", "Fatigué·e", "#90A4AE", "Un besoin profond de repos et de calme."},
	},
	LowPleasant: {
		{"lp-1", "Paisible", "#2E7D32", "Un calme profond, en harmonie avec soi."},
		{"lp-2", "Détendu·e", "#388E3C", "Le corps et l'esprit relâchés, sans tension."},
		{"lp-3", "Serein·e", "#43A047", "Une tranquillité intérieure stable et douce."},
		{"lp-4", "Apaisé·e", "#4CAF50", "Un soulagement après un moment difficile."},
		{"lp-5", "Reconnaissant·e", "#66BB6A", "De la gratitude pour ce qu'on a."},
		{"lp-6", "Satisfait·e", "#81C784", "Le sentiment que les choses sont bien comme elles sont."},
		{"lp-7", "Bien", "#A5D6A7", "Un état simple et confortable, sans excès."},
		{"lp-8", "En sécurité", "#C8E6C9", "Un sentiment de protection et de stabilité."},
		{"lp-9", "Réconforté·e", "#69F0AE", "La chaleur d'un soutien reçu ou ressenti."},
	},
}

// Catalogue is the ordered, immutable list of grid entries.
type Catalogue struct {
	entries []Entry
	byID    map[string]int
}

// BuildCatalogue lays out every quadrant's 3x3 block on the grid. The result
// is identical on every call.
func BuildCatalogue() (*Catalogue, error) {
	var list []Entry
	for _, q := range Quadrants {
		for i, s := range seeds[q.Quadrant] {
			col := q.Col + i%3
			row := q.Row + i/3
			list = append(list, Entry{
				ID:         s.id,
				Label:      s.label,
				Color:      s.color,
				Definition: s.def,
				Quadrant:   q.Quadrant,
				GX:         cellOrigin(col) + CellSize/2,
				GY:         cellOrigin(row) + CellSize/2,
			})
		}
	}
	return NewCatalogue(list)
}

// MustCatalogue is BuildCatalogue for program start-up.
func MustCatalogue() *Catalogue {
	c, err := BuildCatalogue()
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalogue wraps an explicit entry list. Ids must be unique and the list
// must not be empty.
func NewCatalogue(entries []Entry) (*Catalogue, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalogue
	}
	c := &Catalogue{
		entries: make([]Entry, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)
	for i, e := range c.entries {
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("mood: duplicate entry id %q", e.ID)
		}
		c.byID[e.ID] = i
	}
	return c, nil
}

// cellOrigin is the left/top edge of a column/row, skipping the gap between
// the two halves of the grid.
func cellOrigin(i int) float64 {
	if i < 3 {
		return float64(i) * CellSize
	}
	return float64(i)*CellSize + QuadrantGap
}

// Entries returns a copy of the catalogue in order.
func (c *Catalogue) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalogue) Len() int { return len(c.entries) }

// At returns the i-th entry in catalogue order.
func (c *Catalogue) At(i int) Entry { return c.entries[i] }

// Lookup finds an entry by id.
func (c *Catalogue) Lookup(id string) (Entry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// QuadrantFor returns the display info of q.
func QuadrantFor(q Quadrant) (QuadrantInfo, bool) {
	for _, info := range Quadrants {
		if info.Quadrant == q {
			return info, true
		}
	}
	return QuadrantInfo{}, false
}
