package main

import (
	"os"

	"github.com/spf13/afero"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	a := newApp(afero.NewOsFs(), os.Stdin)
	if err := newRootCmd(a).Execute(); err != nil {
		fatal(err)
	}
}
