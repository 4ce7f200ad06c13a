package version

// These variables are overridden at build time using -ldflags, e.g.
// -X github.com/ericogr/arcane-clash/internal/version.Version=v1.2.0
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// Info is the build metadata as served by /api/version.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Dirty   bool   `json:"dirty"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Dirty: Dirty == "true"}
}

// String renders a one-line summary for the CLI.
func (i Info) String() string {
	s := i.Version + " (" + i.Commit
	if i.Date != "" {
		s += ", " + i.Date
	}
	if i.Dirty {
		s += ", dirty"
	}
	return s + ")"
}
