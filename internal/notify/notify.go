package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

const appName = "Sereni"

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop sends notifications through the OS. Alerts also play a sound.
type Desktop struct {
	Alert bool
}

func (d Desktop) Notify(title, message string) error {
	if d.Alert {
		return beeep.Alert(title, message, "")
	}
	return beeep.Notify(title, message, "")
}

func Info(title, message string) error {
	return Desktop{}.Notify(title, message)
}

func Alert(message string) error {
	return Desktop{Alert: true}.Notify(appName, message)
}

// FormatDailyPrompt is the check-in reminder. streak is the number of days
// in a row the user has written something, not counting today.
func FormatDailyPrompt(streak int) (string, string) {
	title := appName + " · Comment te sens-tu ?"
	switch {
	case streak <= 0:
		return title, "Prends une minute pour noter ton humeur du jour."
	case streak == 1:
		return title, "Tu as écrit hier. Une minute pour noter ton humeur aujourd'hui ?"
	default:
		return title, fmt.Sprintf("%d jours d'affilée ! Une minute pour noter ton humeur aujourd'hui ?", streak)
	}
}

// FormatSafetyPrompt is shown when a danger marker is detected.
func FormatSafetyPrompt() (string, string) {
	return appName + " · Tu n'es pas seul·e", "Le 3114 est joignable 24h/24, 7j/7. En cas d'urgence, appelle le 112."
}
