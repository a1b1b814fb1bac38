package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/backdrop-cli/backdrop/color"
	"github.com/backdrop-cli/backdrop/icon"
	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/probe"
	"github.com/backdrop-cli/backdrop/resolver"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	resolveCmd.Flags().BoolP("explain", "e", false, "Show why each variant was kept or gated")
	addProbeFlags(resolveCmd)

	resolveCmd.SetOut(os.Stdout)
}

// resolveCmd prints the candidates the kiosk host would try, best first.
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the ordered candidate list for a display and network",
	Example: `  backdrop resolve --width 1100 --dpr 2 --ect 4g
  backdrop resolve --width 400 --save-data --explain`,
	Run: func(cmd *cobra.Command, args []string) {
		bindProbeFlags(cmd)

		table, err := media.Configured()
		handleErr(err)

		var (
			asJson     = lo.Must(cmd.Flags().GetBool("json"))
			explain    = lo.Must(cmd.Flags().GetBool("explain"))
			signal     = probe.Probe(probe.Config())
			candidates = resolver.Resolve(signal, table.Variants)
			decisions  = resolver.Explain(signal, table.Variants)
		)

		if asJson {
			output := struct {
				Signal     probe.Signal        `json:"signal"`
				Candidates []media.Variant     `json:"candidates"`
				Decisions  []resolver.Decision `json:"decisions,omitempty"`
			}{
				Signal:     signal,
				Candidates: candidates,
			}
			if explain {
				output.Decisions = decisions
			}

			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(output))
			return
		}

		cmd.Printf("%s %s\n\n", icon.Get(icon.Network), style.Faint(signal.String()))

		for i, candidate := range candidates {
			cmd.Printf("%s %-6s %s\n", style.Faint(fmt.Sprintf("%d.", i+1)), style.Fg(color.Purple)(candidate.Tier.String()), candidate.URI)
		}

		if !explain {
			return
		}

		cmd.Println()
		for _, decision := range decisions {
			mark := icon.Get(icon.Success)
			if !decision.Passed() {
				mark = icon.Get(icon.Fail)
			}
			cmd.Printf("%s %s\n", mark, decision)
		}
	},
}
