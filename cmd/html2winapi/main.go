package main

import (
	"os"
	"strings"

	"html2winapi/pkg/lib"
)

func main() {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		if isFlagError(err) {
			err = lib.WithCode(lib.CodeUsage, err)
		}
		lib.Exit(err)
	}
}

// isFlagError reports whether cobra rejected the command line itself.
func isFlagError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown flag:") ||
		strings.Contains(msg, "unknown shorthand flag:") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "flag needs an argument")
}
