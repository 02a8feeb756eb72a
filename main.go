// Command smartsearch searches the shared drive catalog from the terminal.
package main

import (
	"github.com/smhrd/smartsearch/cmd"
	"github.com/smhrd/smartsearch/internal/version"
)

// Version is stamped by release builds with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	cmd.SetVersion(version.Resolve(Version))
	cmd.Execute()
}
