// showctl validates, compiles and simulates Vixio story files offline.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nerrad567/vixio-core/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
