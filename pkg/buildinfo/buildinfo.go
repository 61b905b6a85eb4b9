// Package buildinfo carries the version stamped into a binary at link time.
package buildinfo

import (
	"fmt"
	"io"
)

// Info describes one build. Empty fields read as "N/A".
type Info struct {
	Version string
	Date    string
	Commit  string
}

func na(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// New normalizes the values usually injected with -ldflags "-X main.buildVersion=...".
func New(version, date, commit string) Info {
	return Info{Version: na(version), Date: na(date), Commit: na(commit)}
}

// Print writes the build information in the human-readable form used by -version.
func (i Info) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Build version: %s\nBuild date: %s\nBuild commit: %s\n", i.Version, i.Date, i.Commit)
	return err
}
