// Command fusionqa answers questions from local documents and the web with
// numbered citations.
package main

import (
	"os"

	"github.com/custodia-labs/fusionqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
