package version

// Version is the CLI version, set at build time with
// -ldflags "-X github.com/hashicorp-forge/granola-client/internal/version.Version=...".
var Version = "0.1.0-dev"
