// Package main provides the entrypoint for media-webhook-relay.
package main

import (
	"os"

	"github.com/isometry/media-webhook-relay/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
