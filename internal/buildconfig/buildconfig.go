package buildconfig

// Build-time variables injected via ldflags:
//
//	-X github.com/Harshitk-cp/lifedash/internal/buildconfig.version=v0.3.0
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// String is the one-line form used by the CLI --version flag.
func String() string {
	return version + " (" + commit + ", built " + date + ")"
}

// VersionInfo is reported by the health endpoint.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
		"date":    date,
	}
}
