// Package main is the entry point for the backdrop application.
package main

import (
	"github.com/backdrop-cli/backdrop/cmd"
	"github.com/backdrop-cli/backdrop/config"
	"github.com/backdrop-cli/backdrop/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
