// Package main is the passc command: a local password store encrypted
// under a master password.
package main

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	root := newRootCmd(os.Stdin, os.Stdout, clipboard.WriteAll)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}
