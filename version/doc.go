// Package version reports the sortdir build: the release tag, the commit it
// was built from and the build date.
//
// Values injected with -ldflags win:
//
//	go build -ldflags "-X github.com/dendrascience/sortdir/version.Version=v1.0.0 \
//	  -X github.com/dendrascience/sortdir/version.Commit=abc123 \
//	  -X github.com/dendrascience/sortdir/version.Date=2026-01-01T00:00:00Z"
//
// Otherwise the module version and the vcs.* settings recorded by the Go
// toolchain are used. fang's --version flag and the version subcommand both
// read from here.
package version
