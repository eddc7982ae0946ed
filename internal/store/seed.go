package store

import "time"

// Therapist is the practitioner used by the demo data.
const Therapist = "Dr. Martin"

// Seed returns a demo state relative to now: a few days of journal and three
// sessions, the most recent of which still awaits its debrief.
func Seed(now time.Time) State {
	at := func(daysAgo, h, m int) time.Time {
		y, mo, d := now.AddDate(0, 0, -daysAgo).Date()
		return time.Date(y, mo, d, h, m, 0, 0, now.Location())
	}
	return State{
		Answers: map[string][]string{},
		Journal: []JournalEntry{
			{
				ID:        "entry-1",
				At:        at(3, 9, 30),
				Mood:      "Serein·e",
				MoodColor: "#A5D6A7",
				Content: "Ce matin j'ai pris le temps de marcher un peu avant de commencer la journée. " +
					"L'air était frais, ça m'a fait du bien de sentir le soleil sur mon visage. " +
					"J'ai l'impression que ces petits moments m'aident à rester ancré·e.",
			},
			{
				ID:        "entry-2",
				At:        at(3, 15, 0),
				Mood:      "Anxieux·se",
				MoodColor: "#EF6C00",
				Content: "L'après-midi a été compliquée au travail. Trop de choses à gérer en même temps, " +
					"je me suis senti·e submergé·e par la charge. J'ai du mal à dire non quand on me " +
					"demande des choses et ça s'accumule. J'ai besoin de trouver un moyen de mieux " +
					"poser mes limites.",
				CompletedExercise: &ExerciseRef{ID: "circles-1", Title: "Cercles de contrôle"},
			},
			{
				ID:        "entry-3",
				At:        at(2, 8, 15),
				Mood:      "Fatigué·e",
				MoodColor: "#90A4AE",
				Content: "Très mal dormi cette nuit, je me suis réveillé·e plusieurs fois. " +
					"J'ai l'impression que les pensées tournent en boucle dès que je ferme les yeux. " +
					"Ce matin c'est dur de trouver l'énergie pour démarrer.",
			},
			{
				ID:        "entry-4",
				At:        at(1, 19, 45),
				Mood:      "Apaisé·e",
				MoodColor: "#80CBC4",
				Content: "Séance avec Dr. Martin aujourd'hui. On a parlé de mon besoin de tout contrôler " +
					"et de comment ça crée de l'anxiété. Ça m'a fait du bien de mettre des mots dessus. " +
					"Je me sens plus léger·e ce soir, comme si un poids avait été enlevé.",
				DebriefCompleted: true,
			},
		},
		Sessions: []Session{
			{ID: "session-1", Date: at(14, 10, 0), Therapist: Therapist, Kind: Past, DebriefCompleted: true},
			{ID: "session-2", Date: at(1, 10, 0), Therapist: Therapist, Kind: Past},
			{ID: "session-3", Date: at(-14, 10, 0), Therapist: Therapist, Kind: Upcoming},
		},
	}
}
