package cmd

import (
	"fmt"
	"strings"

	"github.com/backdrop-cli/backdrop/color"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/backdrop-cli/backdrop/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// location is a directory or file the hosts read or write.
type location struct {
	name string
	path func() string
}

var locations = []location{
	{"config", where.Config},
	{"variants", where.Variants},
	{"history", where.History},
	{"logs", where.Logs},
	{"cache", where.Cache},
	{"temp", where.Temp},
}

func init() {
	rootCmd.AddCommand(whereCmd)
}

// whereCmd prints the paths backdrop uses, or a single one when named.
var whereCmd = &cobra.Command{
	Use:       "where [" + locationNames() + "]",
	Short:     "Show where configuration, variant tables, history and logs are kept",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: lo.Map(locations, func(l location, _ int) string { return l.name }),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			l, _ := lo.Find(locations, func(l location) bool { return l.name == args[0] })
			cmd.Println(l.path())
			return
		}

		width := lo.Max(lo.Map(locations, func(l location, _ int) int { return len(l.name) }))
		for _, l := range locations {
			name := fmt.Sprintf("%-*s", width, l.name)
			cmd.Printf("%s  %s\n", style.Fg(color.Purple)(name), l.path())
		}
	},
}

func locationNames() string {
	return strings.Join(lo.Map(locations, func(l location, _ int) string { return l.name }), "|")
}
