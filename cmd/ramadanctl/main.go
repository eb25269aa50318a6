package main

import (
	"os"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
