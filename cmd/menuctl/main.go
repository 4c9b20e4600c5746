package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/noah-isme/resto-menu-api/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
