package version

// Version is the release version, overridden at build time via
// -ldflags "-X github.com/edrh-tools/edjournal/internal/version.Version=...".
var Version = "dev"

// Commit is the git commit the binary was built from.
var Commit = "unknown"

// String returns the printable version line.
func String() string {
	return Version + " (" + Commit + ")"
}
