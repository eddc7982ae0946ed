// Package exercise lists the guided exercises and runs the "Cercles de
// contrôle" wizard. A finished exercise is handed back to whoever started it
// through an explicit Return rather than a broadcast.
package exercise

// Descriptor is one entry of the exercises list.
type Descriptor struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Category    string `json:"category"`
	Icon        string `json:"icon"`
	// Active exercises can be started; the others are announced only.
	Active bool `json:"active"`
}

const CirclesID = "circles"

var list = []Descriptor{
	{
		ID:          CirclesID,
		Title:       "Cercles de contrôle",
		Description: "Apprends à distinguer ce que tu peux contrôler de ce qui te dépasse pour réduire ton anxiété.",
		Duration:    "10 min",
		Category:    "Gestion du stress",
		Icon:        "🎯",
		Active:      true,
	},
	{
		ID:          "breathing",
		Title:       "Respiration guidée",
		Description: "Des exercices de respiration pour calmer ton système nerveux en quelques minutes.",
		Duration:    "5 min",
		Category:    "Relaxation",
		Icon:        "🌬️",
	},
	{
		ID:          "body-scan",
		Title:       "Scan corporel",
		Description: "Parcours ton corps de la tête aux pieds pour relâcher les tensions accumulées.",
		Duration:    "15 min",
		Category:    "Relaxation",
		Icon:        "🧘",
	},
	{
		ID:          "cognitive-restructuring",
		Title:       "Restructuration cognitive",
		Description: "Identifie et reformule tes pensées automatiques pour adopter un regard plus nuancé.",
		Duration:    "10 min",
		Category:    "Pensées",
		Icon:        "🧠",
	},
	{
		ID:          "grounding",
		Title:       "Ancrage sensoriel",
		Description: "Utilise tes 5 sens pour te reconnecter au moment présent quand l'anxiété monte.",
		Duration:    "5 min",
		Category:    "Pleine conscience",
		Icon:        "✋",
	},
}

// List returns the exercises in display order.
func List() []Descriptor {
	return append([]Descriptor(nil), list...)
}

func Lookup(id string) (Descriptor, bool) {
	for _, d := range list {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Item is a concern the user can sort in the circles exercise.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

var items = []Item{
	{"item-1", "La charge de travail que mon manager m'impose"},
	{"item-2", "Ma réaction face au stress"},
	{"item-3", "L'opinion que les autres ont de moi"},
	{"item-4", "Le temps que je consacre à me reposer"},
	{"item-5", "Les embouteillages le matin"},
	{"item-6", "Ma façon de communiquer mes besoins"},
	{"item-7", "L'attitude de mes collègues"},
	{"item-8", "Le choix de mes activités le week-end"},
	{"item-9", "L'économie et le marché de l'emploi"},
	{"item-10", "Ma routine du soir avant de dormir"},
	{"item-11", "Les décisions de mon entreprise"},
	{"item-12", "La manière dont je parle de moi-même"},
}

func Items() []Item {
	return append([]Item(nil), items...)
}

func lookupItem(id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Zone is one of the three circles.
type Zone string

const (
	Control   Zone = "controle"
	Influence Zone = "influence"
	Outside   Zone = "hors"
)

// Zones in display order.
var Zones = []Zone{Control, Influence, Outside}

func (z Zone) Label() string {
	switch z {
	case Control:
		return "Je contrôle"
	case Influence:
		return "J'influence"
	case Outside:
		return "Hors de mon contrôle"
	}
	return string(z)
}

func (z Zone) Color() string {
	switch z {
	case Control:
		return "#4a9668"
	case Influence:
		return "#ffa726"
	case Outside:
		return "#ff6b6b"
	}
	return "#888888"
}

// Actionable reports whether the user writes an action for items in z.
func (z Zone) Actionable() bool { return z == Control || z == Influence }

func (z Zone) valid() bool {
	for _, v := range Zones {
		if v == z {
			return true
		}
	}
	return false
}
