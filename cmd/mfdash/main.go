package main

import (
	"os"

	"github.com/youssefsiam38/mfdash/cmd/mfdash/cmd"
	"github.com/youssefsiam38/mfdash/internal/logging"
)

func main() {
	logging.ConfigureCommandLineLogging()
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
