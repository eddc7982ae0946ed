package version

import (
	"fmt"
	"runtime"
)

// Build metadata, set from main at start-up.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata as printed by `sereni version --format json`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go"`
	Platform  string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	if i.Version == "dev" {
		return fmt.Sprintf("Sereni dev (%s, %s)", i.Platform, i.GoVersion)
	}
	return fmt.Sprintf("Sereni %s (commit: %s, built: %s, %s)", i.Version, i.Commit, i.Date, i.Platform)
}

// Short is the name and version shown in the TUI footer.
func Short() string {
	if Version == "dev" {
		return "Sereni dev"
	}
	return "Sereni " + Version
}
