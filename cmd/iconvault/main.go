// Package main is the entry point for the iconvault CLI.
package main

import (
	"os"

	"github.com/cockroachdb/errors"

	"github.com/iconvault/iconvault/cmd/iconvault/commands"
	iverrors "github.com/iconvault/iconvault/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		var exitErr *iverrors.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
