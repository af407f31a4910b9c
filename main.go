// Package main provides the entrypoint for trail-ingest-app.
package main

import (
	"os"

	"github.com/trailops/trail-ingest-app/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
