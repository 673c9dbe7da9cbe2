package main

import (
	"flag"
	"fmt"
	"os"

	"msver/internal/di"
	"msver/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "", "path to the yaml config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug logging and console output")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %s\n", err)
		os.Exit(1)
	}
}
