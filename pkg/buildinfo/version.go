// Package buildinfo identifies the flowplan binary that produced a plan.
//
// `flowplan --version` and the API's GET /version both report it. Release
// builds stamp the values through the linker:
//
//	go build -ldflags "-X github.com/matzehuels/flowplan/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/flowplan/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/flowplan/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/flowplan
//
// Unstamped builds (go run, go test) report "dev".
package buildinfo

import "fmt"

// Linker-stamped values.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is a snapshot of the stamped values, shaped for JSON responses.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the values this binary was built with.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

func (i Info) String() string {
	return fmt.Sprintf("flowplan %s (commit %s, built %s)", i.Version, i.Commit, i.Date)
}

// Template is the cobra version template. {{.Name}} is filled in by cobra.
func Template() string {
	i := Current()
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
